package csvparser

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/timesheet-converter/internal/types"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestParse(t *testing.T) {
	t.Run("Should canonicalize headers and keep column order", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "export.csv", " Project ,Description,DURATION\nlaboral,42-Write report,01:00:00\n")

		tbl, err := Parse(fs, "export.csv", DefaultSettings())

		require.NoError(t, err)
		assert.Equal(t, []string{"project", "description", "duration"}, tbl.Names())
		assert.Equal(t, 1, tbl.Len())
		col, _ := tbl.Column("description")
		assert.Equal(t, []any{"42-Write report"}, col)
	})

	t.Run("Should tolerate a UTF-8 byte order mark", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "export.csv", "\ufeffProject,Duration\nlaboral,01:00:00\n")

		tbl, err := Parse(fs, "export.csv", DefaultSettings())

		require.NoError(t, err)
		assert.True(t, tbl.Has("project"))
	})

	t.Run("Should decode legacy encodings", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "export.csv", "Project,Description\nlaboral,caf\xe9\n")

		tbl, err := Parse(fs, "export.csv", Settings{Encoding: "windows-1252", Delimiter: ","})

		require.NoError(t, err)
		col, _ := tbl.Column("description")
		assert.Equal(t, []any{"café"}, col)
	})

	t.Run("Should honor a custom delimiter", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "export.csv", "Project;Duration\nlaboral;01:00:00\n")

		tbl, err := Parse(fs, "export.csv", Settings{Delimiter: ";"})

		require.NoError(t, err)
		assert.Equal(t, []string{"project", "duration"}, tbl.Names())
	})

	t.Run("Should skip blank rows", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "export.csv", "Project,Duration\nlaboral,01:00:00\n,\nocio,00:30:00\n")

		tbl, err := Parse(fs, "export.csv", DefaultSettings())

		require.NoError(t, err)
		assert.Equal(t, 2, tbl.Len())
	})

	t.Run("Should reject a ragged row with its row number", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "export.csv", "Project,Duration\nlaboral,01:00:00\nocio\n")

		_, err := Parse(fs, "export.csv", DefaultSettings())

		require.ErrorIs(t, err, types.ErrFormat)
		var e *types.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 2, e.Row)
		assert.Equal(t, "export.csv", e.Path)
	})

	t.Run("Should reject a non csv file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "export.txt", "Project\nlaboral\n")

		_, err := Parse(fs, "export.txt", DefaultSettings())

		assert.ErrorIs(t, err, types.ErrFormat)
	})

	t.Run("Should reject an empty file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "export.csv", "")

		_, err := Parse(fs, "export.csv", DefaultSettings())

		assert.ErrorIs(t, err, types.ErrFormat)
	})

	t.Run("Should reject an unknown encoding", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "export.csv", "Project\nlaboral\n")

		_, err := Parse(fs, "export.csv", Settings{Encoding: "klingon"})

		assert.ErrorIs(t, err, types.ErrFormat)
	})

	t.Run("Should return IOError when the file is missing", func(t *testing.T) {
		_, err := Parse(afero.NewMemMapFs(), "missing.csv", DefaultSettings())

		assert.ErrorIs(t, err, types.ErrIO)
	})
}
