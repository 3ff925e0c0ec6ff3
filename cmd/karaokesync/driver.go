package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sukalov/karaokesync/internal/config"
	"github.com/sukalov/karaokesync/internal/db"
	"github.com/sukalov/karaokesync/internal/logger"
	"github.com/sukalov/karaokesync/internal/lyrics"
	"github.com/sukalov/karaokesync/internal/player"
)

const lyricsCacheTTL = 24 * time.Hour

type lyricsCache interface {
	Lyrics(ctx context.Context, songID string) (string, error)
	CacheLyrics(ctx context.Context, songID, raw string, ttl time.Duration) error
}

type lyricsStore interface {
	Lyrics(ctx context.Context, songID string) (string, error)
}

type frameSink interface {
	PublishFrame(ctx context.Context, session string, frame lyrics.Frame) error
}

type nowPlayingSink interface {
	SetNowPlaying(ctx context.Context, songID string, position int) error
}

// driver feeds the engine from a single goroutine: content polls bring new
// lyrics, animation ticks bring positions. Ticks never overlap.
type driver struct {
	cfg      *config.Config
	engine   *lyrics.Engine
	source   player.Source
	cache    lyricsCache
	songbook lyricsStore
	frames   frameSink
	mirror   nowPlayingSink

	song      string
	session   uuid.UUID
	lineIndex int
	lastErr   string
}

func (d *driver) run(ctx context.Context, reload <-chan os.Signal) {
	content := time.NewTicker(d.cfg.Tuning.ContentPollInterval())
	defer content.Stop()
	anim := time.NewTicker(d.cfg.Tuning.TickInterval())
	defer anim.Stop()

	d.lineIndex = -1
	d.pollContent(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-reload:
			if d.reloadTuning() {
				content.Reset(d.cfg.Tuning.ContentPollInterval())
				anim.Reset(d.cfg.Tuning.TickInterval())
			}
		case <-content.C:
			d.pollContent(ctx)
		case <-anim.C:
			d.tick(ctx)
		}
	}
}

// pollContent checks which song is playing and hands its lyrics to the
// engine, which rebuilds only when the text changed.
func (d *driver) pollContent(ctx context.Context) {
	song := d.cfg.SongID
	if song == "" {
		current, err := d.source.CurrentSong(ctx)
		if err != nil {
			d.reportErr("failed to read current song", err)
			return
		}
		song = current
	}

	d.mirrorNowPlaying(ctx, song)

	if song != d.song {
		d.song = song
		d.session = uuid.New()
		d.lineIndex = -1
		if song != "" {
			logger.Info(fmt.Sprintf("now playing %s (session %s)", song, d.session))
		}
	}

	raw := ""
	if song != "" {
		var err error
		raw, err = d.loadLyrics(ctx, song)
		if err != nil {
			d.reportErr(fmt.Sprintf("failed to load lyrics for %s", song), err)
			return
		}
	}

	if rebuilt, report := d.engine.Update(raw); rebuilt && raw != "" {
		logger.Debug(fmt.Sprintf("timeline rebuilt for %s: %d lines, %d degraded",
			song, len(report.Timeline), len(report.Degraded())))
	}
}

// loadLyrics prefers the redis cache and falls back to the songbook,
// warming the cache on a hit.
func (d *driver) loadLyrics(ctx context.Context, songID string) (string, error) {
	if d.cache != nil {
		raw, err := d.cache.Lyrics(ctx, songID)
		if err != nil {
			return "", err
		}
		if raw != "" {
			return raw, nil
		}
	}

	if d.songbook == nil {
		return "", nil
	}

	raw, err := d.songbook.Lyrics(ctx, songID)
	if errors.Is(err, db.ErrSongNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if d.cache != nil {
		if err := d.cache.CacheLyrics(ctx, songID, raw, lyricsCacheTTL); err != nil {
			logger.Warn(err.Error())
		}
	}
	return raw, nil
}

func (d *driver) tick(ctx context.Context) {
	position, err := d.source.Position(ctx)
	if err != nil {
		d.reportErr("failed to read playback position", err)
		return
	}

	frame := d.engine.Tick(position)
	if frame.Index != d.lineIndex {
		d.lineIndex = frame.Index
		if frame.Line != nil {
			logger.Debug(fmt.Sprintf("line %d at %dms: %s", frame.Index, position, frame.Line.OriginalText))
		}
	}

	if d.frames == nil {
		return
	}
	if err := d.frames.PublishFrame(ctx, d.session.String(), frame); err != nil {
		d.reportErr("failed to publish frame", err)
	}
}

// mirrorNowPlaying copies a locally read player state into redis so other
// renderers can follow the same song.
func (d *driver) mirrorNowPlaying(ctx context.Context, song string) {
	if d.mirror == nil || song == "" {
		return
	}
	position, err := d.source.Position(ctx)
	if err != nil {
		d.reportErr("failed to read playback position", err)
		return
	}
	if err := d.mirror.SetNowPlaying(ctx, song, position); err != nil {
		d.reportErr("failed to mirror now playing", err)
	}
}

func (d *driver) reloadTuning() bool {
	tuning, err := config.LoadTuning(os.Getenv("KARAOKESYNC_TUNING"))
	if err != nil {
		logger.Error(fmt.Sprintf("tuning reload failed, keeping current settings\nError: %v", err))
		return false
	}
	d.engine.Reconfigure(tuning.TimelineOptions(), tuning.HighlightOptions())
	d.cfg.Tuning = tuning
	logger.Success("tuning reloaded; timeline will be rebuilt")
	return true
}

// reportErr logs an error once until a different error shows up, so a dead
// source does not flood the log at tick rate.
func (d *driver) reportErr(message string, err error) {
	text := fmt.Sprintf("%s\nError: %v", message, err)
	if text == d.lastErr {
		return
	}
	d.lastErr = text
	logger.Error(text)
}
