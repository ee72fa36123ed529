// Package config loads the run settings from a YAML file and validates them.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/valerio/go-framepace/pacer/timing"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTitle        = "framepace"
	DefaultWidth        = 640
	DefaultHeight       = 360
	DefaultTargetFPS    = 60
	DefaultUpdatePeriod = 10 * time.Millisecond
	DefaultCancelKey    = "Escape"
	DefaultLogLevel     = "info"
	DefaultParticles    = 64

	// MaxTargetFPS bounds the target so the period stays above a microsecond.
	MaxTargetFPS = 100000
)

var ErrInvalid = errors.New("invalid config")

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Config holds every tunable of a run. Durations are written as Go
// duration strings, e.g. "10ms".
type Config struct {
	Window Window `yaml:"window"`

	// TargetFPS is the presentation target, 0 for unlimited.
	TargetFPS    uint32        `yaml:"target_fps"`
	UpdatePeriod time.Duration `yaml:"update_period"`
	// MaxTicks caps fixed ticks per iteration, 0 for no cap.
	MaxTicks  int    `yaml:"max_ticks"`
	CancelKey string `yaml:"cancel_key"`

	LogLevel   string `yaml:"log_level"`
	StatsEvery uint64 `yaml:"stats_every"`

	Particles int `yaml:"particles"`
}

func Default() Config {
	return Config{
		Window: Window{
			Title:  DefaultTitle,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		TargetFPS:    DefaultTargetFPS,
		UpdatePeriod: DefaultUpdatePeriod,
		MaxTicks:     timing.DefaultMaxTicks,
		CancelKey:    DefaultCancelKey,
		LogLevel:     DefaultLogLevel,
		Particles:    DefaultParticles,
	}
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML on top of the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.Window.Width < 0 || c.Window.Height < 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must not be negative", c.Window.Width, c.Window.Height))
	}
	if c.TargetFPS > MaxTargetFPS {
		errs = append(errs, fmt.Errorf("target_fps %d above %d", c.TargetFPS, MaxTargetFPS))
	}
	if c.UpdatePeriod <= 0 {
		errs = append(errs, fmt.Errorf("update_period %s must be positive", c.UpdatePeriod))
	}
	if c.MaxTicks < 0 {
		errs = append(errs, fmt.Errorf("max_ticks %d must not be negative", c.MaxTicks))
	}
	if c.Particles < 0 {
		errs = append(errs, fmt.Errorf("particles %d must not be negative", c.Particles))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// TargetFrameRate converts TargetFPS for the controller.
func (c Config) TargetFrameRate() timing.TargetFrameRate {
	if c.TargetFPS == 0 {
		return timing.Unlimited()
	}
	return timing.FramesPerSecond(c.TargetFPS)
}

// SlogLevel returns the configured log level, Info when unparsable.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, err)
	}
	return level, nil
}
