package web

import (
	"encoding/json"
	"net/http"

	"github.com/matchmyvibe/backend/internal/db"
	"github.com/matchmyvibe/backend/internal/identity"
)

// UserResponse is the body of GET /api/user. Profile is null when the
// identity has no profile row yet.
type UserResponse struct {
	User    *identity.User `json:"user"`
	Profile *db.Profile    `json:"profile"`
}

// SpotifyDataResponse is the body of GET /api/spotify-data.
type SpotifyDataResponse struct {
	TopArtists []db.TopArtist `json:"topArtists"`
	TopTracks  []db.TopTrack  `json:"topTracks"`
}

// PromptRequest is one question/answer pair in a profile update.
type PromptRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// UpdateProfileRequest is a partial profile update. Pointer fields overwrite
// the stored value only when present; nil collections leave the stored
// collection untouched.
type UpdateProfileRequest struct {
	Name             *string         `json:"name"`
	UniversityName   *string         `json:"university_name"`
	Work             *db.WorkProfile `json:"work"`
	HomeTown         *string         `json:"home_town"`
	Height           *string         `json:"height"`
	Age              *string         `json:"age"`
	Zodiac           *string         `json:"zodiac"`
	Gender           *string         `json:"gender"`
	DatingPreference *string         `json:"dating_preference"`
	BirthdayInUnix   *int64          `json:"birthdayInUnix"`
	Images           [][]byte        `json:"images"`
	Interests        []string        `json:"interests"`
	InterestRating   map[string]int  `json:"interest_rating"`
	Prompts          []PromptRequest `json:"prompts"`
}

// UpdateCurrentlyPlayingRequest is a client-reported playback snapshot.
type UpdateCurrentlyPlayingRequest struct {
	Track        string `json:"track"`
	Artist       string `json:"artist"`
	URI          string `json:"uri"`
	Album        string `json:"album"`
	AlbumURI     string `json:"album_uri"`
	Duration     int    `json:"duration"`
	ContextTitle string `json:"context_title"`
	ContextURI   string `json:"context_uri"`
}

// CurrentlyPlayingResponse is the body of PUT /api/profile/currently-playing.
type CurrentlyPlayingResponse struct {
	CurrentlyPlaying string             `json:"currently_playing"`
	LastPlayedSong   *db.LastPlayedSong `json:"last_played_song,omitempty"`
	UserLastActiveAt int64              `json:"user_last_active_at"`
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
