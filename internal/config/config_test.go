package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/timesheet-converter/internal/types"
)

func TestLoad(t *testing.T) {
	t.Run("Should load a JSON config and apply defaults", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{
      "path": "export.csv",
      "keys_to_remove": ["User", "Email"],
      "columns_to_rename": {"Description": "name"},
      "project_ids": {" Laboral ": 4},
      "sep": "-",
      "date": ""
}`), 0o644))

		cfg, err := Load(fs, "config.json")

		require.NoError(t, err)
		assert.Equal(t, "export.csv", cfg.Path)
		assert.Equal(t, []string{"User", "Email"}, cfg.KeysToRemove)
		assert.Equal(t, map[string]string{"Description": "name"}, cfg.ColumnsToRename)
		assert.Equal(t, map[string]int{"laboral": 4}, cfg.ProjectIDs)
		assert.Equal(t, "-", cfg.Sep)
		assert.Empty(t, cfg.Date)
		assert.Equal(t, "utf-8", cfg.Encoding)
		assert.Equal(t, ",", cfg.Delimiter)
		assert.Equal(t, ".", cfg.OutputDir)
		assert.Equal(t, "Sheet1", cfg.SheetName)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("Should load a YAML config", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "config.yaml", []byte(`
path: export.csv
sep: "|"
output_dir: out
project_ids:
  ocio: 7
`), 0o644))

		cfg, err := Load(fs, "config.yaml")

		require.NoError(t, err)
		assert.Equal(t, "|", cfg.Sep)
		assert.Equal(t, "out", cfg.OutputDir)
		assert.Equal(t, 7, cfg.ProjectIDs["ocio"])
		assert.NotNil(t, cfg.ColumnsToRename)
	})

	t.Run("Should return ConfigError when the file is missing", func(t *testing.T) {
		_, err := Load(afero.NewMemMapFs(), "config.json")

		require.ErrorIs(t, err, types.ErrConfig)
		assert.ErrorContains(t, err, "config.json")
	})

	t.Run("Should return ConfigError for malformed content", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{"path": [`), 0o644))

		_, err := Load(fs, "config.json")

		assert.ErrorIs(t, err, types.ErrConfig)
	})

	t.Run("Should name missing required keys", func(t *testing.T) {
		_, err := Parse([]byte(`{"project_ids": {"a": 1}}`))

		require.ErrorIs(t, err, types.ErrConfig)
		assert.ErrorContains(t, err, "path")
		assert.ErrorContains(t, err, "sep")
	})

	t.Run("Should reject an unknown log level", func(t *testing.T) {
		_, err := Parse([]byte(`{"path": "a.csv", "sep": "-", "log_level": "loud"}`))

		require.ErrorIs(t, err, types.ErrConfig)
		assert.ErrorContains(t, err, "log_level")
	})

	t.Run("Should reject project_ids keys that collide after canonicalization", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			_, err := Parse([]byte(`{"path": "a.csv", "sep": "-", "project_ids": {"Laboral ": 4, "laboral": 5}}`))

			require.ErrorIs(t, err, types.ErrConfig)
			assert.ErrorContains(t, err, `"Laboral " and "laboral"`)
		}
	})

	t.Run("Should keep distinct project_ids keys", func(t *testing.T) {
		cfg, err := Parse([]byte(`{"path": "a.csv", "sep": "-", "project_ids": {"Laboral": 4, "Ocio ": 9}}`))

		require.NoError(t, err)
		assert.Equal(t, map[string]int{"laboral": 4, "ocio": 9}, cfg.ProjectIDs)
	})
}
