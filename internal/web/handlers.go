package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/matchmyvibe/backend/internal/db"
)

// Handlers contains the HTTP handlers for the API gateway.
type Handlers struct {
	profiles ProfileStore
	metrics  MetricStore
	player   Player // nil when Spotify credentials are not configured
	static   fs.FS
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(profiles ProfileStore, metrics MetricStore, player Player, static fs.FS) *Handlers {
	return &Handlers{
		profiles: profiles,
		metrics:  metrics,
		player:   player,
		static:   static,
	}
}

// Landing serves the static landing page (GET / and GET /callback). The
// callback route is the OAuth redirect target; the page itself handles the
// token fragment client-side.
func (h *Handlers) Landing(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(h.static, "index.html")
	if err != nil {
		http.Error(w, "Failed to load page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// GetUser returns the resolved identity and its profile row (GET /api/user).
// A missing profile row is not an error: the profile field is null.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	auth, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	profile, err := h.profiles.Get(r.Context(), auth.ProfileID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		log.Printf("fetching profile for %s: %v", auth.ProfileID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{User: auth.User, Profile: profile})
}

// GetSpotifyData returns the caller's short-term top artists and tracks
// (GET /api/spotify-data). The two scoped fetches have no dependency on
// each other and run concurrently; the first failure aborts the response.
func (h *Handlers) GetSpotifyData(w http.ResponseWriter, r *http.Request) {
	auth, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var (
		artists []db.TopArtist
		tracks  []db.TopTrack
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		artists, err = h.metrics.TopArtists(ctx, auth.ProfileID, db.TimeRangeShort, db.TopMetricLimit)
		return err
	})
	g.Go(func() error {
		var err error
		tracks, err = h.metrics.TopTracks(ctx, auth.ProfileID, db.TimeRangeShort, db.TopMetricLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("fetching spotify data for %s: %v", auth.ProfileID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SpotifyDataResponse{TopArtists: artists, TopTracks: tracks})
}

// GetProfile returns the full aggregated profile (GET /api/profile),
// creating the profile row on first use. Collections default to empty.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	auth, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	profile, err := h.profiles.Full(r.Context(), auth.ProfileID)
	if err != nil {
		log.Printf("fetching full profile for %s: %v", auth.ProfileID, err)
		writeError(w, http.StatusInternalServerError, "error retrieving user profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies a partial profile update (PUT /api/profile) and
// returns the full updated profile. Interests and prompts are replaced,
// interest ratings are merged per key, images are stored without
// validation.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	auth, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Gender != nil && !validGender(*req.Gender) {
		writeError(w, http.StatusBadRequest, "invalid gender value")
		return
	}
	if req.DatingPreference != nil && !validDatingPreference(*req.DatingPreference) {
		writeError(w, http.StatusBadRequest, "invalid dating preference value")
		return
	}

	ctx := r.Context()
	profile, err := h.profiles.GetOrCreate(ctx, auth.ProfileID)
	if err != nil {
		log.Printf("loading profile for %s: %v", auth.ProfileID, err)
		writeError(w, http.StatusInternalServerError, "error retrieving user")
		return
	}

	applyProfileUpdate(profile, &req)

	if err := h.profiles.Update(ctx, profile); err != nil {
		log.Printf("updating profile for %s: %v", auth.ProfileID, err)
		writeError(w, http.StatusInternalServerError, "error updating user")
		return
	}

	if req.Interests != nil {
		if err := h.profiles.ReplaceInterests(ctx, auth.ProfileID, req.Interests); err != nil {
			log.Printf("replacing interests for %s: %v", auth.ProfileID, err)
			writeError(w, http.StatusInternalServerError, "error saving interests")
			return
		}
	}
	if req.InterestRating != nil {
		if err := h.profiles.MergeInterestRatings(ctx, auth.ProfileID, req.InterestRating); err != nil {
			log.Printf("merging interest ratings for %s: %v", auth.ProfileID, err)
			writeError(w, http.StatusInternalServerError, "error saving interest ratings")
			return
		}
	}
	if req.Prompts != nil {
		prompts := make([]db.Prompt, len(req.Prompts))
		for i, p := range req.Prompts {
			prompts[i] = db.Prompt{Question: p.Question, Answer: p.Answer}
		}
		if err := h.profiles.ReplacePrompts(ctx, auth.ProfileID, prompts); err != nil {
			log.Printf("replacing prompts for %s: %v", auth.ProfileID, err)
			writeError(w, http.StatusInternalServerError, "error saving prompts")
			return
		}
	}
	if req.Images != nil {
		if err := h.profiles.ReplaceImages(ctx, auth.ProfileID, req.Images); err != nil {
			log.Printf("replacing images for %s: %v", auth.ProfileID, err)
			writeError(w, http.StatusInternalServerError, "error saving images")
			return
		}
	}

	updated, err := h.profiles.Full(ctx, auth.ProfileID)
	if err != nil {
		log.Printf("fetching updated profile for %s: %v", auth.ProfileID, err)
		writeError(w, http.StatusInternalServerError, "error retrieving updated user profile")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// UpdateCurrentlyPlaying overwrites the profile's currently-playing field
// (PUT /api/profile/currently-playing). A body with track info is stored
// as reported; an empty body falls back to querying Spotify's player API
// with the profile's synced tokens.
func (h *Handlers) UpdateCurrentlyPlaying(w http.ResponseWriter, r *http.Request) {
	auth, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	ctx := r.Context()
	profile, err := h.profiles.GetOrCreate(ctx, auth.ProfileID)
	if err != nil {
		log.Printf("loading profile for %s: %v", auth.ProfileID, err)
		writeError(w, http.StatusInternalServerError, "error retrieving user")
		return
	}

	var req UpdateCurrentlyPlayingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Track == "" {
		h.currentlyPlayingFromSpotify(w, r, profile)
		return
	}

	currentlyPlaying := fmt.Sprintf("%s - %s", req.Track, req.Artist)
	now := time.Now().Unix()

	profile.CurrentlyPlaying = &currentlyPlaying
	profile.LastPlayedSong = &db.LastPlayedSong{
		Track:        req.Track,
		Artist:       req.Artist,
		URI:          req.URI,
		Album:        req.Album,
		AlbumURI:     req.AlbumURI,
		Duration:     req.Duration,
		ContextTitle: req.ContextTitle,
		ContextURI:   req.ContextURI,
	}
	profile.UserLastActiveAt = &now

	if err := h.profiles.Update(ctx, profile); err != nil {
		log.Printf("updating currently playing for %s: %v", auth.ProfileID, err)
		writeError(w, http.StatusInternalServerError, "error updating user")
		return
	}

	writeJSON(w, http.StatusOK, CurrentlyPlayingResponse{
		CurrentlyPlaying: currentlyPlaying,
		LastPlayedSong:   profile.LastPlayedSong,
		UserLastActiveAt: now,
	})
}

// currentlyPlayingFromSpotify fetches playback state from Spotify using the
// profile's synced tokens and stores the result.
func (h *Handlers) currentlyPlayingFromSpotify(w http.ResponseWriter, r *http.Request, profile *db.Profile) {
	if h.player == nil {
		writeError(w, http.StatusInternalServerError, "spotify playback lookup is not configured")
		return
	}
	if profile.SpotifyAccessToken == nil || profile.SpotifyRefreshToken == nil {
		writeError(w, http.StatusInternalServerError, "no linked spotify account")
		return
	}

	token := &oauth2.Token{
		AccessToken:  *profile.SpotifyAccessToken,
		RefreshToken: *profile.SpotifyRefreshToken,
		TokenType:    "Bearer",
	}
	if profile.SpotifyTokenExpiry != nil {
		token.Expiry = *profile.SpotifyTokenExpiry
	}

	ctx := r.Context()
	playing, latest, err := h.player.CurrentlyPlaying(ctx, token)
	if err != nil {
		log.Printf("fetching currently playing for %s: %v", profile.ID, err)
		writeError(w, http.StatusInternalServerError, "error fetching currently playing track")
		return
	}

	// Persist refreshed credentials so the next fallback skips the refresh.
	if latest != nil && latest.AccessToken != token.AccessToken {
		refresh := latest.RefreshToken
		if refresh == "" {
			refresh = token.RefreshToken
		}
		if err := h.profiles.UpdateSpotifyTokens(ctx, profile.ID, latest.AccessToken, refresh, latest.Expiry); err != nil {
			log.Printf("storing refreshed tokens for %s: %v", profile.ID, err)
			writeError(w, http.StatusInternalServerError, "error updating user tokens")
			return
		}
	}

	now := time.Now().Unix()
	profile.CurrentlyPlaying = &playing
	profile.UserLastActiveAt = &now

	if err := h.profiles.Update(ctx, profile); err != nil {
		log.Printf("updating currently playing for %s: %v", profile.ID, err)
		writeError(w, http.StatusInternalServerError, "error updating currently playing track")
		return
	}

	writeJSON(w, http.StatusOK, CurrentlyPlayingResponse{
		CurrentlyPlaying: playing,
		UserLastActiveAt: now,
	})
}

// applyProfileUpdate overwrites profile fields named in the request.
func applyProfileUpdate(profile *db.Profile, req *UpdateProfileRequest) {
	if req.Name != nil {
		profile.Name = req.Name
	}
	if req.UniversityName != nil {
		profile.UniversityName = req.UniversityName
	}
	if req.Work != nil {
		profile.Work = req.Work
	}
	if req.HomeTown != nil {
		profile.HomeTown = req.HomeTown
	}
	if req.Height != nil {
		profile.Height = req.Height
	}
	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.Zodiac != nil {
		profile.Zodiac = req.Zodiac
	}
	if req.Gender != nil {
		profile.Gender = req.Gender
	}
	if req.DatingPreference != nil {
		profile.DatingPreference = req.DatingPreference
	}
	if req.BirthdayInUnix != nil {
		profile.BirthdayInUnix = req.BirthdayInUnix
	}
}

func validGender(value string) bool {
	switch value {
	case "Man", "Woman", "Non-binary":
		return true
	}
	return false
}

func validDatingPreference(value string) bool {
	switch value {
	case "Men", "Women", "Everyone":
		return true
	}
	return false
}
