package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.InDelta(t, 3.0, cfg.Pipeline.SOCTolerance, 1e-9)
	assert.InDelta(t, 10.0, cfg.Pipeline.MaxCRate, 1e-9)
	assert.InDelta(t, 10.0, cfg.Pipeline.MaxGapSeconds, 1e-9)
	assert.Equal(t, 5, cfg.Pipeline.AnomalyWindow)
	assert.InDelta(t, 3.0, cfg.Pipeline.ZScoreThreshold, 1e-9)
	assert.InDelta(t, 20.0, cfg.Pipeline.MaxCapacityChange, 1e-9)
	assert.True(t, cfg.Pipeline.DetectAnomalies)
	assert.Equal(t, "output", cfg.Export.OutputDir)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pipeline:
  nominal_capacity: 8.5
  max_gap_seconds: 30
export:
  output_dir: /tmp/cell-out
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.InDelta(t, 8.5, cfg.Pipeline.NominalCapacity, 1e-9)
	assert.InDelta(t, 30.0, cfg.Pipeline.MaxGapSeconds, 1e-9)
	assert.Equal(t, "/tmp/cell-out", cfg.Export.OutputDir)
}

func TestLoadFromFileEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline:\n  nominal_capacity: 8.5\n"), 0644))

	t.Setenv("CELL_PIPELINE_NOMINAL_CAPACITY", "4.2")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 4.2, cfg.Pipeline.NominalCapacity, 1e-9,
		"environment wins over the file")
}

func TestLoadFromFileMissingFileFallsBack(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, cfg.Pipeline.SOCTolerance, 1e-9)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.AnomalyWindow = 1 // below the minimum of 3
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Logging.Output = "syslog"
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFileRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline: [not a map"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
