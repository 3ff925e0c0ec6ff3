package db

import (
	"database/sql"
	"testing"
)

func TestFormatSongName(t *testing.T) {
	tests := []struct {
		name string
		song Song
		want string
	}{
		{
			name: "with artist",
			song: Song{Title: "Vladimirsky Central", Artist: sql.NullString{String: "Mikhail Krug", Valid: true}},
			want: "Mikhail Krug - Vladimirsky Central",
		},
		{
			name: "no artist",
			song: Song{Title: "Untitled"},
			want: "Untitled",
		},
		{
			name: "empty artist",
			song: Song{Title: "Solo", Artist: sql.NullString{Valid: true}},
			want: "Solo",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatSongName(tc.song); got != tc.want {
				t.Errorf("FormatSongName() = %q; want %q", got, tc.want)
			}
		})
	}
}
