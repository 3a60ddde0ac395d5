package spotify

import (
	"testing"

	"github.com/zmb3/spotify/v2"
)

func TestFormatTrack(t *testing.T) {
	tests := []struct {
		name string
		item *spotify.FullTrack
		want string
	}{
		{
			name: "single artist",
			item: &spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					Name: "Paranoid Android",
					Artists: []spotify.SimpleArtist{
						{Name: "Radiohead"},
					},
				},
			},
			want: "Paranoid Android - Radiohead",
		},
		{
			name: "multiple artists",
			item: &spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					Name: "Collab Track",
					Artists: []spotify.SimpleArtist{
						{Name: "Artist A"},
						{Name: "Artist B"},
						{Name: "Artist C"},
					},
				},
			},
			want: "Collab Track - Artist A, Artist B, Artist C",
		},
		{
			name: "no artists",
			item: &spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					Name:    "Orphan Track",
					Artists: []spotify.SimpleArtist{},
				},
			},
			want: "Orphan Track",
		},
		{
			name: "empty item",
			item: &spotify.FullTrack{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTrack(tt.item); got != tt.want {
				t.Errorf("formatTrack() = %q, want %q", got, tt.want)
			}
		})
	}
}
