package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	return path
}

func TestValidateInputFile(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	t.Run("accepts csv and xlsx", func(t *testing.T) {
		assert.NoError(t, v.ValidateInputFile(touch(t, dir, "export.csv")))
		assert.NoError(t, v.ValidateInputFile(touch(t, dir, "export.XLSX")))
	})

	t.Run("rejects missing file", func(t *testing.T) {
		err := v.ValidateInputFile(filepath.Join(dir, "nope.csv"))
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("rejects directories", func(t *testing.T) {
		err := v.ValidateInputFile(dir)
		assert.ErrorContains(t, err, "is a directory")
	})

	t.Run("rejects unsupported extensions", func(t *testing.T) {
		err := v.ValidateInputFile(touch(t, dir, "export.txt"))
		assert.ErrorContains(t, err, "not a supported cycler export")
	})

	t.Run("rejects Excel lock files", func(t *testing.T) {
		err := v.ValidateInputFile(touch(t, dir, "~$export.xlsx"))
		assert.ErrorContains(t, err, "temporary Excel file")
	})
}

func TestValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	target := filepath.Join(t.TempDir(), "out", "nested")
	require.NoError(t, v.ValidateOutputDirectory(target))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
