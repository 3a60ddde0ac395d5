package web

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/matchmyvibe/backend/internal/db"
	"github.com/matchmyvibe/backend/internal/identity"
)

// fakeResolver maps tokens to identities.
type fakeResolver struct {
	users map[string]*identity.User
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (*identity.User, error) {
	if user, ok := f.users[token]; ok {
		return user, nil
	}
	return nil, identity.ErrInvalidToken
}

// fakeStore is an in-memory ProfileStore and MetricStore. The metric reads
// apply the same filter/order/limit semantics as the SQL they stand in for.
type fakeStore struct {
	mu sync.Mutex

	profiles  map[uuid.UUID]*db.Profile
	interests map[uuid.UUID][]string
	ratings   map[uuid.UUID]map[string]int
	prompts   map[uuid.UUID][]db.Prompt
	images    map[uuid.UUID][][]byte
	playlists map[uuid.UUID][]db.Playlist
	artists   map[uuid.UUID][]db.TopArtist
	tracks    map[uuid.UUID][]db.TopTrack

	// err, when set, is returned by every store method.
	err error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:  make(map[uuid.UUID]*db.Profile),
		interests: make(map[uuid.UUID][]string),
		ratings:   make(map[uuid.UUID]map[string]int),
		prompts:   make(map[uuid.UUID][]db.Prompt),
		images:    make(map[uuid.UUID][][]byte),
		playlists: make(map[uuid.UUID][]db.Playlist),
		artists:   make(map[uuid.UUID][]db.TopArtist),
		tracks:    make(map[uuid.UUID][]db.TopTrack),
	}
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (*db.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeStore) GetOrCreate(_ context.Context, id uuid.UUID) (*db.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[id]
	if !ok {
		profile = &db.Profile{ID: id, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		f.profiles[id] = profile
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeStore) Update(_ context.Context, profile *db.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.profiles[profile.ID]; !ok {
		return db.ErrNotFound
	}
	clone := *profile
	f.profiles[profile.ID] = &clone
	return nil
}

func (f *fakeStore) UpdateSpotifyTokens(_ context.Context, id uuid.UUID, accessToken, refreshToken string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if profile, ok := f.profiles[id]; ok {
		profile.SpotifyAccessToken = &accessToken
		profile.SpotifyRefreshToken = &refreshToken
		profile.SpotifyTokenExpiry = &expiry
	}
	return nil
}

func (f *fakeStore) ReplaceInterests(_ context.Context, id uuid.UUID, names []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.interests[id] = append([]string(nil), names...)
	return nil
}

func (f *fakeStore) MergeInterestRatings(_ context.Context, id uuid.UUID, ratings map[string]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	merged, ok := f.ratings[id]
	if !ok {
		merged = make(map[string]int)
		f.ratings[id] = merged
	}
	for name, rating := range ratings {
		merged[name] = rating
	}
	return nil
}

func (f *fakeStore) ReplacePrompts(_ context.Context, id uuid.UUID, prompts []db.Prompt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.prompts[id] = append([]db.Prompt(nil), prompts...)
	return nil
}

func (f *fakeStore) ReplaceImages(_ context.Context, id uuid.UUID, images [][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.images[id] = append([][]byte(nil), images...)
	return nil
}

func (f *fakeStore) Full(ctx context.Context, id uuid.UUID) (*db.FullProfile, error) {
	profile, err := f.GetOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	artists, err := f.TopArtists(ctx, id, db.TimeRangeShort, db.TopMetricLimit)
	if err != nil {
		return nil, err
	}
	tracks, err := f.TopTracks(ctx, id, db.TimeRangeShort, db.TopMetricLimit)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	full := &db.FullProfile{
		Profile:        *profile,
		Images:         [][]byte{},
		Interests:      []string{},
		InterestRating: map[string]int{},
		Prompts:        []db.Prompt{},
		TopArtists:     artists,
		TopSongs:       tracks,
		SavedPlaylists: []db.Playlist{},
	}
	if images, ok := f.images[id]; ok {
		full.Images = append(full.Images, images...)
	}
	if interests, ok := f.interests[id]; ok {
		full.Interests = append(full.Interests, interests...)
	}
	if ratings, ok := f.ratings[id]; ok {
		for name, rating := range ratings {
			full.InterestRating[name] = rating
		}
	}
	if prompts, ok := f.prompts[id]; ok {
		full.Prompts = append(full.Prompts, prompts...)
	}
	if playlists, ok := f.playlists[id]; ok {
		full.SavedPlaylists = append(full.SavedPlaylists, playlists...)
	}
	return full, nil
}

func (f *fakeStore) TopArtists(_ context.Context, profileID uuid.UUID, timeRange string, limit int) ([]db.TopArtist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	matched := []db.TopArtist{}
	for _, artist := range f.artists[profileID] {
		if artist.TimeRange == timeRange {
			matched = append(matched, artist)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Popularity > matched[j].Popularity
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeStore) TopTracks(_ context.Context, profileID uuid.UUID, timeRange string, limit int) ([]db.TopTrack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	matched := []db.TopTrack{}
	for _, track := range f.tracks[profileID] {
		if track.TimeRange == timeRange {
			matched = append(matched, track)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Popularity > matched[j].Popularity
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// fakePlayer returns a fixed playback description.
type fakePlayer struct {
	playing string
	token   *oauth2.Token
	err     error
}

func (f *fakePlayer) CurrentlyPlaying(_ context.Context, token *oauth2.Token) (string, *oauth2.Token, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	latest := f.token
	if latest == nil {
		latest = token
	}
	return f.playing, latest, nil
}

// Compile-time checks that the fakes implement the handler contracts.
var (
	_ IdentityResolver = (*fakeResolver)(nil)
	_ ProfileStore     = (*fakeStore)(nil)
	_ MetricStore      = (*fakeStore)(nil)
	_ Player           = (*fakePlayer)(nil)
)
