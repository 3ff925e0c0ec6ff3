package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrSongNotFound = errors.New("song not found")

// Song is a songbook entry with its raw timestamped lyrics.
type Song struct {
	ID        string
	Title     string
	Artist    sql.NullString
	LRC       string
	UpdatedAt time.Time
}

// Songbook stores LRC lyrics keyed by song id.
type Songbook struct {
	db *sql.DB
}

func NewSongbook(db *sql.DB) *Songbook {
	return &Songbook{db: db}
}

func (s *Songbook) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS lyrics (
		song_id    TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		artist     TEXT,
		lrc        TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create lyrics table: %w", err)
	}
	return nil
}

func (s *Songbook) FindSongByID(ctx context.Context, id string) (Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		song    Song
		updated int64
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT song_id, title, artist, lrc, updated_at FROM lyrics WHERE song_id = ?`, id)
	if err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.LRC, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Song{}, fmt.Errorf("%w: %s", ErrSongNotFound, id)
		}
		return Song{}, fmt.Errorf("failed to load song %s: %w", id, err)
	}
	song.UpdatedAt = time.Unix(updated, 0)
	return song, nil
}

// Lyrics returns the raw LRC text of a song.
func (s *Songbook) Lyrics(ctx context.Context, songID string) (string, error) {
	song, err := s.FindSongByID(ctx, songID)
	if err != nil {
		return "", err
	}
	return song.LRC, nil
}

// Save inserts or replaces a song.
func (s *Songbook) Save(ctx context.Context, song Song) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if song.UpdatedAt.IsZero() {
		song.UpdatedAt = time.Now()
	}

	query := `INSERT INTO lyrics (song_id, title, artist, lrc, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(song_id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			lrc = excluded.lrc,
			updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query,
		song.ID, song.Title, song.Artist, song.LRC, song.UpdatedAt.Unix()); err != nil {
		return fmt.Errorf("failed to save song %s: %w", song.ID, err)
	}
	return nil
}

func FormatSongName(song Song) string {
	var parts []string
	if song.Artist.Valid && song.Artist.String != "" {
		parts = append(parts, song.Artist.String+" - ")
	}
	parts = append(parts, song.Title)

	return strings.TrimSpace(strings.Join(parts, ""))
}
