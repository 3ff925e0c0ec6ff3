// Package player supplies playback positions and track identity to the
// lyrics driver.
package player

import "context"

// PositionSource reports the current playback position in milliseconds.
// Positions are not guaranteed to be monotonic: seeks happen.
type PositionSource interface {
	Position(ctx context.Context) (int, error)
}

// TrackSource reports an identifier of the playing track, "" if none.
type TrackSource interface {
	CurrentSong(ctx context.Context) (string, error)
}

// Source is both.
type Source interface {
	PositionSource
	TrackSource
}
