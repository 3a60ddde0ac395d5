// Package spotify provides a wrapper around the Spotify Web API for the
// currently-playing fallback fetch.
package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// Client fetches playback state on behalf of a user whose OAuth tokens were
// stored by the external sync process. Tokens are refreshed transparently
// via the standard oauth2 token source.
type Client struct {
	config *oauth2.Config
}

// New creates a Spotify client wrapper with app credentials.
func New(clientID, clientSecret string) *Client {
	return &Client{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
	}
}

// CurrentlyPlaying returns a "Track - Artist" description of the user's
// current playback, or the empty string when nothing is playing. The
// returned token reflects any refresh performed and should be persisted
// when it differs from the input.
func (c *Client) CurrentlyPlaying(ctx context.Context, token *oauth2.Token) (string, *oauth2.Token, error) {
	source := c.config.TokenSource(ctx, token)

	latest, err := source.Token()
	if err != nil {
		return "", nil, fmt.Errorf("refreshing spotify token: %w", err)
	}

	api := spotify.New(oauth2.NewClient(ctx, source))
	playing, err := api.PlayerCurrentlyPlaying(ctx)
	if err != nil {
		return "", latest, fmt.Errorf("fetching currently playing: %w", err)
	}
	if playing == nil || playing.Item == nil {
		return "", latest, nil
	}

	return formatTrack(playing.Item), latest, nil
}

// formatTrack renders a track as "Name - Artist A, Artist B".
func formatTrack(item *spotify.FullTrack) string {
	if item.Name == "" {
		return ""
	}

	artists := make([]string, len(item.Artists))
	for i, artist := range item.Artists {
		artists[i] = artist.Name
	}
	if len(artists) == 0 {
		return item.Name
	}
	return fmt.Sprintf("%s - %s", item.Name, strings.Join(artists, ", "))
}
