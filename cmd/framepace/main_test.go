package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"github.com/valerio/go-framepace/pacer/config"
)

func parse(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	var (
		cfg config.Config
		err error
	)
	app := newApp()
	app.Action = func(c *cli.Context) error {
		cfg, err = loadConfig(c)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"framepace"}, args...)))
	return cfg, err
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	cfg, err := parse(t, "--fps", "0", "--update-period", "5ms", "--max-ticks", "0", "--log-level", "debug")
	require.NoError(t, err)
	assert.True(t, cfg.TargetFrameRate().Unlimited())
	assert.Equal(t, 5*time.Millisecond, cfg.UpdatePeriod)
	assert.Equal(t, 0, cfg.MaxTicks)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framepace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_fps: 30\nparticles: 5\n"), 0644))

	cfg, err := parse(t, "--config", path, "--fps", "90")
	require.NoError(t, err)
	assert.Equal(t, uint32(90), cfg.TargetFPS, "flags win over the file")
	assert.Equal(t, 5, cfg.Particles)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := parse(t, "--log-level", "loud")
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = parse(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewSetup(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var got setup
	var err error
	app := newApp()
	app.Action = func(c *cli.Context) error {
		got, err = newSetup(c, c.String("platform"), config.Default(), logger)
		return nil
	}

	require.NoError(t, app.Run([]string{"framepace", "--platform", "headless", "--frames", "3"}))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultWidth/cellWidth, got.config.Width)
	assert.Equal(t, config.DefaultHeight/cellHeight, got.config.Height)
	assert.NotNil(t, got.canvas)

	require.NoError(t, app.Run([]string{"framepace", "--platform", "vga"}))
	assert.ErrorContains(t, err, "unknown platform")
}
