package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-framepace/pacer/config"
	"github.com/valerio/go-framepace/pacer/timing"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint32(60), cfg.TargetFPS)
	assert.Equal(t, 10*time.Millisecond, cfg.UpdatePeriod)
	assert.Equal(t, timing.DefaultMaxTicks, cfg.MaxTicks)
	assert.Equal(t, "Escape", cfg.CancelKey)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Equal(t, uint32(60), cfg.TargetFrameRate().FPS())
}

func TestDecode_Overrides(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(`
window:
  title: demo
  width: 800
target_fps: 0
update_period: 5ms
max_ticks: 0
log_level: debug
stats_every: 120
`))
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, config.DefaultHeight, cfg.Window.Height, "unset keys keep defaults")
	assert.True(t, cfg.TargetFrameRate().Unlimited())
	assert.Equal(t, 5*time.Millisecond, cfg.UpdatePeriod)
	assert.Equal(t, 0, cfg.MaxTicks)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, uint64(120), cfg.StatsEvery)
}

func TestDecode_Empty(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown key", "frame_rate: 60\n"},
		{"bad duration", "update_period: soon\n"},
		{"zero period", "update_period: 0s\n"},
		{"negative ticks", "max_ticks: -1\n"},
		{"bad level", "log_level: loud\n"},
		{"huge fps", "target_fps: 1000000\n"},
		{"negative size", "window: {width: -1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestValidate_ReportsAllFields(t *testing.T) {
	cfg := config.Default()
	cfg.UpdatePeriod = 0
	cfg.MaxTicks = -3

	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "update_period")
	assert.Contains(t, err.Error(), "max_ticks")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framepace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_fps: 30\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(30), cfg.TargetFPS)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
