package db

import (
	"time"

	"github.com/google/uuid"
)

// Listening-history time ranges surfaced by the metric tables.
const (
	TimeRangeShort  = "short_term"  // last 4 weeks
	TimeRangeMedium = "medium_term" // last 6 months
	TimeRangeLong   = "long_term"   // several years
)

// WorkProfile holds a user's work information, stored as jsonb.
type WorkProfile struct {
	Company *string `json:"company"`
	Role    *string `json:"role"`
}

// LastPlayedSong is the track snapshot stored when a client reports
// playback, stored as jsonb.
type LastPlayedSong struct {
	Track        string `json:"track"`
	Artist       string `json:"artist"`
	URI          string `json:"uri"`
	Album        string `json:"album"`
	AlbumURI     string `json:"album_uri"`
	Duration     int    `json:"duration"`
	ContextTitle string `json:"context_title"`
	ContextURI   string `json:"context_uri"`
}

// Profile is the mutable per-user row in the profiles table. Its ID equals
// the auth service's user id; the row is created lazily on first fetch or
// update and never deleted here.
type Profile struct {
	ID               uuid.UUID       `json:"id"`
	Name             *string         `json:"name"`
	UniversityName   *string         `json:"university_name"`
	Work             *WorkProfile    `json:"work"`
	HomeTown         *string         `json:"home_town"`
	Height           *string         `json:"height"`
	Age              *string         `json:"age"`
	Zodiac           *string         `json:"zodiac"`
	Gender           *string         `json:"gender"`
	DatingPreference *string         `json:"dating_preference"`
	BirthdayInUnix   *int64          `json:"birthdayInUnix"`
	CurrentlyPlaying *string         `json:"currently_playing"`
	LastPlayedSong   *LastPlayedSong `json:"last_played_song"`
	UserLastActiveAt *int64          `json:"user_last_active_at"`

	// Spotify tokens written by the external sync process; read only for
	// the currently-playing fallback fetch. Never serialized.
	SpotifyAccessToken  *string    `json:"-"`
	SpotifyRefreshToken *string    `json:"-"`
	SpotifyTokenExpiry  *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Prompt is one question/answer pair in a profile's ordered prompt sequence.
type Prompt struct {
	ID       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
}

// Playlist is a saved playlist reference, repopulated by the external sync
// process.
type Playlist struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	URI      string    `json:"uri"`
	ImageURL *string   `json:"image_url"`
}

// TopArtist is a scoped metric row in the top_artists table, keyed by
// (profile_id, time_range, uri).
type TopArtist struct {
	ID         uuid.UUID `json:"id"`
	ProfileID  uuid.UUID `json:"profile_id"`
	Name       string    `json:"name"`
	URI        string    `json:"uri"`
	ImageURL   *string   `json:"image_url"`
	Popularity int       `json:"popularity"`
	TimeRange  string    `json:"time_range"`
}

// TopTrack is a scoped metric row in the top_tracks table, keyed by
// (profile_id, time_range, uri).
type TopTrack struct {
	ID         uuid.UUID `json:"id"`
	ProfileID  uuid.UUID `json:"profile_id"`
	Name       string    `json:"name"`
	Artist     string    `json:"artist"`
	URI        string    `json:"uri"`
	ImageURL   *string   `json:"image_url"`
	Popularity int       `json:"popularity"`
	TimeRange  string    `json:"time_range"`
}

// FullProfile is the aggregated profile returned by the API: the profile row
// joined with every per-user collection. Slices and maps are always non-nil
// so clients see empty collections rather than null.
type FullProfile struct {
	Profile
	Images         [][]byte       `json:"images"`
	Interests      []string       `json:"interests"`
	InterestRating map[string]int `json:"interest_rating"`
	Prompts        []Prompt       `json:"prompts"`
	TopArtists     []TopArtist    `json:"top_artists"`
	TopSongs       []TopTrack     `json:"top_songs"`
	SavedPlaylists []Playlist     `json:"saved_playlists"`
}
