package utils

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputFileName(t *testing.T) {
	stamp := time.Date(2023, time.August, 18, 9, 30, 0, 0, time.UTC)

	t.Run("Should embed the date stamp", func(t *testing.T) {
		assert.Equal(t, "timesheets_2023-08-18.xlsx", GenerateOutputFileName(DefaultOutputFormat, stamp))
	})

	t.Run("Should fall back to the default format", func(t *testing.T) {
		assert.Equal(t, "timesheets_2023-08-18.xlsx", GenerateOutputFileName("", stamp))
	})

	t.Run("Should add the xlsx extension", func(t *testing.T) {
		assert.Equal(t, "odoo_{x}_2023-08-18.xlsx", GenerateOutputFileName("odoo_{x}_{date}", stamp))
	})
}

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Should write the content under the final name only", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, EnsureDir(fs, "out"))

		err := WriteFileAtomic(fs, "out/sheet.xlsx", func(w io.Writer) error {
			_, err := w.Write([]byte("payload"))
			return err
		})

		require.NoError(t, err)
		data, err := afero.ReadFile(fs, "out/sheet.xlsx")
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
		entries, err := afero.ReadDir(fs, "out")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Should remove the temp file and keep the old file on failure", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "out/sheet.xlsx", []byte("old"), 0o644))

		err := WriteFileAtomic(fs, "out/sheet.xlsx", func(w io.Writer) error {
			_, _ = w.Write([]byte("partial"))
			return errors.New("boom")
		})

		require.ErrorContains(t, err, "boom")
		data, err := afero.ReadFile(fs, "out/sheet.xlsx")
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))
		entries, err := afero.ReadDir(fs, "out")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Should fail on a read only filesystem", func(t *testing.T) {
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

		err := WriteFileAtomic(fs, "sheet.xlsx", func(w io.Writer) error { return nil })

		assert.Error(t, err)
		assert.False(t, FileExists(fs, "sheet.xlsx"))
	})
}
