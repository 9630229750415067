package cmd

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/timesheet-converter/internal/types"
	"github.com/ginjaninja78/timesheet-converter/pkg/utils"
)

func testCommand(out io.Writer) *cobra.Command {
	c := &cobra.Command{}
	c.SetOut(out)
	c.SetErr(io.Discard)
	return c
}

func clock() time.Time {
	return time.Date(2023, time.August, 20, 9, 0, 0, 0, time.UTC)
}

func withConfigFile(t *testing.T, path string) {
	t.Helper()
	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })
}

func TestConvert(t *testing.T) {
	newFs := func(t *testing.T) afero.Fs {
		t.Helper()
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{
  "path": "export.csv",
  "project_ids": {"laboral": 4},
  "sep": "-"
}`), 0o644))
		require.NoError(t, afero.WriteFile(fs, "export.csv", []byte("Project,Description,Duration\nlaboral,42-Write report,01:00:00\n"), 0o644))
		return fs
	}

	t.Run("Should write the spreadsheet and print a summary", func(t *testing.T) {
		withConfigFile(t, "config.json")
		fs := newFs(t)
		var out bytes.Buffer

		err := convert(context.Background(), testCommand(&out), fs, clock, processOptions{outputDir: "out"})

		require.NoError(t, err)
		assert.True(t, utils.FileExists(fs, "out/timesheets_2023-08-20.xlsx"))
		assert.Contains(t, out.String(), "out/timesheets_2023-08-20.xlsx")
		assert.Contains(t, out.String(), "Rows:            1")
	})

	t.Run("Should honor the dry run flag", func(t *testing.T) {
		withConfigFile(t, "config.json")
		fs := newFs(t)
		var out bytes.Buffer

		err := convert(context.Background(), testCommand(&out), fs, clock, processOptions{dryRun: true})

		require.NoError(t, err)
		assert.False(t, utils.FileExists(fs, "timesheets_2023-08-20.xlsx"))
		assert.Contains(t, out.String(), "dry run")
	})

	t.Run("Should reject an invalid date flag", func(t *testing.T) {
		withConfigFile(t, "config.json")

		err := convert(context.Background(), testCommand(io.Discard), newFs(t), clock, processOptions{date: "18/08/2023"})

		assert.ErrorIs(t, err, types.ErrFormat)
	})

	t.Run("Should return ConfigError for a missing config file", func(t *testing.T) {
		withConfigFile(t, "missing.json")

		err := convert(context.Background(), testCommand(io.Discard), newFs(t), clock, processOptions{})

		assert.ErrorIs(t, err, types.ErrConfig)
	})
}
