package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sukalov/karaokesync/internal/lyrics/highlight"
	"github.com/sukalov/karaokesync/internal/lyrics/timeline"
)

const (
	SourceRedis = "redis"
	SourceMPRIS = "mpris"
)

// Config holds everything the driver binaries read from the environment.
type Config struct {
	RedisURL      string
	RedisPassword string

	TursoURL   string
	TursoToken string

	LogBotToken  string
	LogChannelID int64
	LogLevel     string

	PositionSource string
	MPRISService   string
	SongID         string

	Tuning Tuning
}

// Tuning is the optional YAML file controlling timing and animation.
type Tuning struct {
	TickIntervalMs        int                `yaml:"tick_interval_ms"`
	ContentPollIntervalMs int                `yaml:"content_poll_interval_ms"`
	ScaleFraction         bool               `yaml:"scale_fraction"`
	TailMs                int                `yaml:"tail_ms"`
	Durations             timeline.Durations `yaml:"durations"`
	Smoothing             bool               `yaml:"smoothing"`
	SmoothingFactor       float64            `yaml:"smoothing_factor"`
	SnapThreshold         float64            `yaml:"snap_threshold"`
	EvictAfterMs          int                `yaml:"evict_after_ms"`
}

func DefaultTuning() Tuning {
	hl := highlight.DefaultOptions()
	return Tuning{
		TickIntervalMs:        50,
		ContentPollIntervalMs: 800,
		TailMs:                timeline.TailMs,
		Durations:             timeline.DefaultDurations(),
		Smoothing:             hl.Smoothing,
		SmoothingFactor:       hl.Factor,
		SnapThreshold:         hl.Snap,
		EvictAfterMs:          hl.EvictAfterMs,
	}
}

// LoadEnv loads .env if present and returns the required variables, failing
// on the first one missing.
func LoadEnv(requiredVars []string) (map[string]string, error) {
	_ = godotenv.Load()

	envVars := make(map[string]string)

	for _, key := range requiredVars {
		value := os.Getenv(key)
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", key)
		}
		envVars[key] = value
	}

	return envVars, nil
}

// Load reads the environment (and .env) plus the tuning file named by
// KARAOKESYNC_TUNING.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		TursoURL:       os.Getenv("TURSO_DATABASE_URL"),
		TursoToken:     os.Getenv("TURSO_AUTH_TOKEN"),
		LogBotToken:    os.Getenv("LOG_BOT_TOKEN"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		PositionSource: envOr("POSITION_SOURCE", SourceRedis),
		MPRISService:   envOr("MPRIS_SERVICE", "org.mpris.MediaPlayer2.spotify"),
		SongID:         os.Getenv("SONG_ID"),
	}

	if raw := os.Getenv("LOG_CHANNEL_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse LOG_CHANNEL_ID: %w", err)
		}
		cfg.LogChannelID = id
	}

	switch cfg.PositionSource {
	case SourceRedis, SourceMPRIS:
	default:
		return nil, fmt.Errorf("unknown POSITION_SOURCE %q (want %s or %s)", cfg.PositionSource, SourceRedis, SourceMPRIS)
	}

	tuning, err := LoadTuning(os.Getenv("KARAOKESYNC_TUNING"))
	if err != nil {
		return nil, err
	}
	cfg.Tuning = tuning

	return cfg, nil
}

// LoadTuning overlays the YAML file at path on top of the defaults. An empty
// path or a missing file yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("failed to read tuning file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("failed to parse tuning file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid tuning file %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.TickIntervalMs <= 0 || t.ContentPollIntervalMs <= 0 {
		return errors.New("intervals must be positive")
	}
	d := t.Durations
	if d.CJK < 0 || d.Punctuation < 0 || d.PerLetter < 0 || d.Default < 0 || d.Gap < 0 {
		return errors.New("durations must not be negative")
	}
	if t.TailMs < 0 || t.EvictAfterMs < 0 {
		return errors.New("tail_ms and evict_after_ms must not be negative")
	}
	if t.SmoothingFactor <= 0 || t.SmoothingFactor > 1 {
		return fmt.Errorf("smoothing_factor %v out of (0,1]", t.SmoothingFactor)
	}
	if t.SnapThreshold < 0 {
		return errors.New("snap_threshold must not be negative")
	}
	return nil
}

func (t Tuning) TimelineOptions() timeline.Options {
	return timeline.Options{
		ScaleFraction: t.ScaleFraction,
		Durations:     t.Durations,
		TailMs:        t.TailMs,
	}
}

func (t Tuning) HighlightOptions() highlight.Options {
	return highlight.Options{
		Factor:       t.SmoothingFactor,
		Snap:         t.SnapThreshold,
		EvictAfterMs: t.EvictAfterMs,
		Smoothing:    t.Smoothing,
	}
}

func (t Tuning) TickInterval() time.Duration {
	return time.Duration(t.TickIntervalMs) * time.Millisecond
}

func (t Tuning) ContentPollInterval() time.Duration {
	return time.Duration(t.ContentPollIntervalMs) * time.Millisecond
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
