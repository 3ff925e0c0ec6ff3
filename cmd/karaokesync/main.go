package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sukalov/karaokesync/internal/config"
	"github.com/sukalov/karaokesync/internal/db"
	"github.com/sukalov/karaokesync/internal/logger"
	"github.com/sukalov/karaokesync/internal/lyrics"
	"github.com/sukalov/karaokesync/internal/player"
	"github.com/sukalov/karaokesync/internal/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	setupLogger(cfg)
	defer logger.Flush()

	d, cleanup, err := newDriver(ctx, cfg)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to start: %v", err))
		logger.Flush()
		os.Exit(1)
	}
	defer cleanup()

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)

	logger.Success(fmt.Sprintf("karaokesync started (position source: %s, tick %v, content poll %v)",
		cfg.PositionSource, cfg.Tuning.TickInterval(), cfg.Tuning.ContentPollInterval()))

	d.run(ctx, reload)
	logger.Info("karaokesync stopped")
}

func setupLogger(cfg *config.Config) {
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	if cfg.LogBotToken == "" || cfg.LogChannelID == 0 {
		return
	}
	client, err := logger.NewTelegramClient(cfg.LogBotToken)
	if err != nil {
		log.Printf("log channel disabled: %v", err)
		return
	}
	logger.Init(client, cfg.LogChannelID)
}

// newDriver wires the position source, lyric sources and frame sink
// selected by the configuration.
func newDriver(ctx context.Context, cfg *config.Config) (*driver, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	d := &driver{
		cfg:    cfg,
		engine: lyrics.NewEngine(cfg.Tuning.TimelineOptions(), cfg.Tuning.HighlightOptions()),
	}

	var r *redis.DBManager
	if cfg.RedisURL != "" {
		var err error
		r, err = redis.NewDBManager(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return nil, func() {}, err
		}
		closers = append(closers, func() { r.Close() })
		d.cache = r
		d.frames = r
	}

	if cfg.TursoURL != "" {
		database, err := db.Open(ctx, cfg.TursoURL, cfg.TursoToken)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { db.Close(database) })
		d.songbook = db.NewSongbook(database)
	}

	switch cfg.PositionSource {
	case config.SourceMPRIS:
		m, err := player.NewMPRIS(cfg.MPRISService)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { m.Close() })
		d.source = m
		if r != nil {
			d.mirror = r
		}
	default:
		if r == nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("position source %q needs REDIS_URL", cfg.PositionSource)
		}
		d.source = r
	}

	if r == nil && d.songbook == nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("no lyrics source: set REDIS_URL or TURSO_DATABASE_URL")
	}

	return d, cleanup, nil
}
