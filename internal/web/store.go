package web

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/matchmyvibe/backend/internal/db"
	"github.com/matchmyvibe/backend/internal/identity"
	"github.com/matchmyvibe/backend/internal/spotify"
)

// IdentityResolver resolves a bearer credential to the user identity it
// belongs to.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*identity.User, error)
}

// ProfileStore is the profile persistence surface the handlers depend on.
type ProfileStore interface {
	Get(ctx context.Context, id uuid.UUID) (*db.Profile, error)
	GetOrCreate(ctx context.Context, id uuid.UUID) (*db.Profile, error)
	Update(ctx context.Context, profile *db.Profile) error
	UpdateSpotifyTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiry time.Time) error
	ReplaceInterests(ctx context.Context, id uuid.UUID, names []string) error
	MergeInterestRatings(ctx context.Context, id uuid.UUID, ratings map[string]int) error
	ReplacePrompts(ctx context.Context, id uuid.UUID, prompts []db.Prompt) error
	ReplaceImages(ctx context.Context, id uuid.UUID, images [][]byte) error
	Full(ctx context.Context, id uuid.UUID) (*db.FullProfile, error)
}

// MetricStore is the read side of the time-scoped listening metrics.
type MetricStore interface {
	TopArtists(ctx context.Context, profileID uuid.UUID, timeRange string, limit int) ([]db.TopArtist, error)
	TopTracks(ctx context.Context, profileID uuid.UUID, timeRange string, limit int) ([]db.TopTrack, error)
}

// Player fetches external playback state for the currently-playing fallback.
type Player interface {
	CurrentlyPlaying(ctx context.Context, token *oauth2.Token) (string, *oauth2.Token, error)
}

// Ensure the production implementations satisfy the handler contracts.
var (
	_ IdentityResolver = (*identity.Client)(nil)
	_ IdentityResolver = (*identity.Verifier)(nil)
	_ ProfileStore     = (*db.ProfileRepository)(nil)
	_ MetricStore      = (*db.MetricRepository)(nil)
	_ Player           = (*spotify.Client)(nil)
)
