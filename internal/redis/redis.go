package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	redisClient "github.com/go-redis/redis/v8"

	"github.com/sukalov/karaokesync/internal/lyrics"
)

// DBManager reads the now-playing state published by the player bridge and
// publishes rendered frames back.
type DBManager struct {
	client *redisClient.Client
}

// NewDBManager connects to redis at addr. addr may be a full redis:// or
// rediss:// URL; a bare host:port gets TLS and the default user, as on
// hosted redis.
func NewDBManager(ctx context.Context, addr, password string) (*DBManager, error) {
	opt, err := redisClient.ParseURL(connectionURL(addr, password))
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redisClient.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &DBManager{client: client}, nil
}

func (redis *DBManager) Close() error {
	return redis.client.Close()
}

// CurrentSong returns the id of the playing song, or "" if nothing plays.
func (redis *DBManager) CurrentSong(ctx context.Context) (string, error) {
	id, err := redis.client.Get(ctx, songKey).Result()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

// Position returns the playback position in milliseconds. A missing key
// reads as position 0.
func (redis *DBManager) Position(ctx context.Context) (int, error) {
	raw, err := redis.client.Get(ctx, positionKey).Result()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return parsePosition(raw)
}

// SetNowPlaying writes song and position together, for hosts that read the
// player locally and mirror it for other renderers.
func (redis *DBManager) SetNowPlaying(ctx context.Context, songID string, position int) error {
	_, err := redis.client.TxPipelined(ctx, func(pipe redisClient.Pipeliner) error {
		pipe.Set(ctx, songKey, songID, 0)
		pipe.Set(ctx, positionKey, strconv.Itoa(position), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set now playing %s@%d: %w", songID, position, err)
	}
	return nil
}

// Lyrics returns cached raw lyrics of a song, "" when not cached.
func (redis *DBManager) Lyrics(ctx context.Context, songID string) (string, error) {
	raw, err := redis.client.Get(ctx, lyricsKey(songID)).Result()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return "", nil
		}
		return "", err
	}
	return raw, nil
}

func (redis *DBManager) CacheLyrics(ctx context.Context, songID, raw string, ttl time.Duration) error {
	if err := redis.client.Set(ctx, lyricsKey(songID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache lyrics for song %s: %w", songID, err)
	}
	return nil
}

// PublishFrame sends a frame to renderers subscribed to the frames channel.
func (redis *DBManager) PublishFrame(ctx context.Context, session string, frame lyrics.Frame) error {
	payload, err := encodeFrame(session, frame)
	if err != nil {
		return err
	}
	return redis.client.Publish(ctx, FramesChannel, payload).Err()
}
