package redis

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sukalov/karaokesync/internal/lyrics"
)

const (
	songKey       = "nowplaying:song"
	positionKey   = "nowplaying:position"
	FramesChannel = "karaokesync:frames"
)

// FrameMessage is the JSON published for every frame.
type FrameMessage struct {
	Session string       `json:"session"`
	Frame   lyrics.Frame `json:"frame"`
}

func lyricsKey(songID string) string {
	return "lyrics:" + songID
}

func connectionURL(addr, password string) string {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		return addr
	}
	if password == "" {
		return fmt.Sprintf("rediss://%s", addr)
	}
	return fmt.Sprintf("rediss://default:%s@%s", url.QueryEscape(password), addr)
}

func parsePosition(raw string) (int, error) {
	position, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", raw, err)
	}
	if position < 0 {
		return 0, nil
	}
	return position, nil
}

func encodeFrame(session string, frame lyrics.Frame) ([]byte, error) {
	payload, err := json.Marshal(FrameMessage{Session: session, Frame: frame})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return payload, nil
}
