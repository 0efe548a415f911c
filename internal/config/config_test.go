package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/spektr-org/turnover/engine"
)

func load(t *testing.T, path string) (Cfg, error) {
	t.Helper()
	v, err := New()
	assert.NilError(t, err)
	return Load(v, path)
}

func TestDefaults(t *testing.T) {
	cfg, err := load(t, "")
	assert.NilError(t, err)

	assert.Equal(t, cfg.Source, "https://raw.githubusercontent.com/mcanela-iese/ML_Course/master/Data/turnover.csv")
	assert.Equal(t, cfg.Precision, 2)
	assert.Equal(t, cfg.Bins, 10)
	assert.Equal(t, cfg.Timeout, 30*time.Second)
	assert.Equal(t, cfg.Comma(), ',')
	assert.Equal(t, cfg.Logger.Level, "INFO")
	assert.DeepEqual(t, cfg.Chart.Style(), engine.ChartStyle{Width: 600, Height: 600, Color: "0.7", PointSize: 3})
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TURNOVER_SOURCE", "data/turnover.csv")
	t.Setenv("TURNOVER_CHART_COLOR", "#4F46E5")
	t.Setenv("TURNOVER_LOGGER_LEVEL", "DEBUG")

	cfg, err := load(t, "")
	assert.NilError(t, err)
	assert.Equal(t, cfg.Source, "data/turnover.csv")
	assert.Equal(t, cfg.Chart.Color, "#4F46E5")
	assert.Equal(t, cfg.Logger.Level, "DEBUG")
}

func TestFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turnover.yaml")
	assert.NilError(t, os.WriteFile(path, []byte("precision: 1\ndelimiter: ';'\nchart:\n  width: 800\n"), 0o644))

	cfg, err := load(t, path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Precision, 1)
	assert.Equal(t, cfg.Comma(), ';')
	assert.Equal(t, cfg.Chart.Width, 800)
	assert.Equal(t, cfg.Chart.Height, 600)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := load(t, filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorContains(t, err, "read config")
}

func TestInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	assert.NilError(t, os.WriteFile(path, []byte(`{"bins": 0}`), 0o644))
	_, err := load(t, path)
	assert.ErrorContains(t, err, "bins 0")
}
