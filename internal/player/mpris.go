package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	mprisPath        = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
	propertiesGet    = "org.freedesktop.DBus.Properties.Get"
)

// MPRIS reads position and track from a media player on the session bus.
type MPRIS struct {
	conn    *dbus.Conn
	service string
}

func NewMPRIS(service string) (*MPRIS, error) {
	if service == "" {
		return nil, errors.New("empty mpris service name")
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &MPRIS{conn: conn, service: service}, nil
}

func (m *MPRIS) Close() error {
	return m.conn.Close()
}

func (m *MPRIS) property(ctx context.Context, name string) (dbus.Variant, error) {
	var v dbus.Variant
	obj := m.conn.Object(m.service, mprisPath)
	call := obj.CallWithContext(ctx, propertiesGet, 0, mprisPlayerIface, name)
	if err := call.Store(&v); err != nil {
		return v, fmt.Errorf("failed to get %s property: %w", name, err)
	}
	return v, nil
}

// Position converts the MPRIS position (microseconds) to milliseconds.
func (m *MPRIS) Position(ctx context.Context) (int, error) {
	v, err := m.property(ctx, "Position")
	if err != nil {
		return 0, err
	}
	return microsToMillis(v.Value())
}

// CurrentSong uses the MPRIS track id, falling back to "artist - title".
func (m *MPRIS) CurrentSong(ctx context.Context) (string, error) {
	v, err := m.property(ctx, "Metadata")
	if err != nil {
		return "", err
	}
	metadata, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return "", fmt.Errorf("unexpected metadata type %T", v.Value())
	}
	return trackID(metadata), nil
}

func microsToMillis(raw interface{}) (int, error) {
	var micros int64
	switch typed := raw.(type) {
	case int64:
		micros = typed
	case uint64:
		micros = int64(typed)
	case int32:
		micros = int64(typed)
	case nil:
		return 0, errors.New("position value is nil")
	default:
		return 0, fmt.Errorf("unexpected position type %T", raw)
	}
	if micros < 0 {
		return 0, nil
	}
	return int(micros / 1000), nil
}

func trackID(metadata map[string]dbus.Variant) string {
	if id := extractString(metadata, "mpris:trackid"); id != "" {
		return id
	}
	title := extractString(metadata, "xesam:title")
	if title == "" {
		return ""
	}
	if artist := extractArtist(metadata, "xesam:artist"); artist != "" {
		return artist + " - " + title
	}
	return title
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case string:
		return typed
	case dbus.ObjectPath:
		return string(typed)
	default:
		return ""
	}
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}
