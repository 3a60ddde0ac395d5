package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles profile database operations. Every method is
// keyed by the resolved identity's id, so a request can only ever touch its
// own rows.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

const profileColumns = `id, name, university_name, work, home_town, height, age, zodiac,
	gender, dating_preference, "birthdayInUnix", currently_playing, last_played_song,
	user_last_active_at, spotify_access_token, spotify_refresh_token, spotify_token_expiry,
	created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.UniversityName,
		&p.Work,
		&p.HomeTown,
		&p.Height,
		&p.Age,
		&p.Zodiac,
		&p.Gender,
		&p.DatingPreference,
		&p.BirthdayInUnix,
		&p.CurrentlyPlaying,
		&p.LastPlayedSong,
		&p.UserLastActiveAt,
		&p.SpotifyAccessToken,
		&p.SpotifyRefreshToken,
		&p.SpotifyTokenExpiry,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// Get retrieves a profile by id. Returns ErrNotFound when no row exists.
func (r *ProfileRepository) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

// Create inserts a bare profile row for the given identity.
func (r *ProfileRepository) Create(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `
		INSERT INTO profiles (id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET updated_at = profiles.updated_at
		RETURNING ` + profileColumns
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

// GetOrCreate retrieves the profile row, creating it on first use.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, id uuid.UUID) (*Profile, error) {
	profile, err := r.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return r.Create(ctx, id)
	}
	return profile, err
}

// Update writes all mutable profile fields back to the row.
func (r *ProfileRepository) Update(ctx context.Context, p *Profile) error {
	query := `
		UPDATE profiles SET
			name = $2, university_name = $3, work = $4, home_town = $5,
			height = $6, age = $7, zodiac = $8, gender = $9,
			dating_preference = $10, "birthdayInUnix" = $11,
			currently_playing = $12, last_played_song = $13,
			user_last_active_at = $14, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.UniversityName,
		p.Work,
		p.HomeTown,
		p.Height,
		p.Age,
		p.Zodiac,
		p.Gender,
		p.DatingPreference,
		p.BirthdayInUnix,
		p.CurrentlyPlaying,
		p.LastPlayedSong,
		p.UserLastActiveAt,
	)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSpotifyTokens stores refreshed Spotify credentials for a profile.
func (r *ProfileRepository) UpdateSpotifyTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiry time.Time) error {
	query := `
		UPDATE profiles
		SET spotify_access_token = $2, spotify_refresh_token = $3,
			spotify_token_expiry = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, accessToken, refreshToken, expiry)
	if err != nil {
		return fmt.Errorf("updating spotify tokens: %w", err)
	}
	return nil
}

// Interests retrieves a profile's interest names.
func (r *ProfileRepository) Interests(ctx context.Context, id uuid.UUID) ([]string, error) {
	query := `SELECT name FROM interests WHERE profile_id = $1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying interests: %w", err)
	}
	defer rows.Close()

	interests := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning interest: %w", err)
		}
		interests = append(interests, name)
	}
	return interests, rows.Err()
}

// ReplaceInterests overwrites a profile's interest set.
func (r *ProfileRepository) ReplaceInterests(ctx context.Context, id uuid.UUID, names []string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM interests WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("clearing interests: %w", err)
	}
	if len(names) == 0 {
		return nil
	}

	query := `
		INSERT INTO interests (id, profile_id, name)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::text[])
		ON CONFLICT (profile_id, name) DO NOTHING
	`
	ids := make([]uuid.UUID, len(names))
	profileIDs := make([]uuid.UUID, len(names))
	for i := range names {
		ids[i] = uuid.New()
		profileIDs[i] = id
	}
	if _, err := r.pool.Exec(ctx, query, ids, profileIDs, names); err != nil {
		return fmt.Errorf("inserting interests: %w", err)
	}
	return nil
}

// InterestRatings retrieves a profile's per-interest ratings.
func (r *ProfileRepository) InterestRatings(ctx context.Context, id uuid.UUID) (map[string]int, error) {
	query := `SELECT name, rating FROM interest_ratings WHERE profile_id = $1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying interest ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[string]int)
	for rows.Next() {
		var name string
		var rating int
		if err := rows.Scan(&name, &rating); err != nil {
			return nil, fmt.Errorf("scanning interest rating: %w", err)
		}
		ratings[name] = rating
	}
	return ratings, rows.Err()
}

// MergeInterestRatings upserts ratings per key. Existing ratings not named
// in the update are preserved.
func (r *ProfileRepository) MergeInterestRatings(ctx context.Context, id uuid.UUID, ratings map[string]int) error {
	if len(ratings) == 0 {
		return nil
	}

	query := `
		INSERT INTO interest_ratings (id, profile_id, name, rating)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::text[], $4::int[])
		ON CONFLICT (profile_id, name) DO UPDATE SET rating = EXCLUDED.rating
	`
	ids := make([]uuid.UUID, 0, len(ratings))
	profileIDs := make([]uuid.UUID, 0, len(ratings))
	names := make([]string, 0, len(ratings))
	values := make([]int, 0, len(ratings))
	for name, rating := range ratings {
		ids = append(ids, uuid.New())
		profileIDs = append(profileIDs, id)
		names = append(names, name)
		values = append(values, rating)
	}
	if _, err := r.pool.Exec(ctx, query, ids, profileIDs, names, values); err != nil {
		return fmt.Errorf("merging interest ratings: %w", err)
	}
	return nil
}

// Prompts retrieves a profile's prompt sequence in insertion order.
func (r *ProfileRepository) Prompts(ctx context.Context, id uuid.UUID) ([]Prompt, error) {
	query := `SELECT id, question, answer FROM prompts WHERE profile_id = $1 ORDER BY position`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying prompts: %w", err)
	}
	defer rows.Close()

	prompts := []Prompt{}
	for rows.Next() {
		var p Prompt
		if err := rows.Scan(&p.ID, &p.Question, &p.Answer); err != nil {
			return nil, fmt.Errorf("scanning prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

// ReplacePrompts overwrites the full ordered prompt sequence.
func (r *ProfileRepository) ReplacePrompts(ctx context.Context, id uuid.UUID, prompts []Prompt) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM prompts WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("clearing prompts: %w", err)
	}
	if len(prompts) == 0 {
		return nil
	}

	query := `
		INSERT INTO prompts (id, profile_id, position, question, answer)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::int[], $4::text[], $5::text[])
	`
	ids := make([]uuid.UUID, len(prompts))
	profileIDs := make([]uuid.UUID, len(prompts))
	positions := make([]int, len(prompts))
	questions := make([]string, len(prompts))
	answers := make([]string, len(prompts))
	for i, p := range prompts {
		ids[i] = uuid.New()
		profileIDs[i] = id
		positions[i] = i
		questions[i] = p.Question
		answers[i] = p.Answer
	}
	if _, err := r.pool.Exec(ctx, query, ids, profileIDs, positions, questions, answers); err != nil {
		return fmt.Errorf("inserting prompts: %w", err)
	}
	return nil
}

// Images retrieves a profile's image payloads.
func (r *ProfileRepository) Images(ctx context.Context, id uuid.UUID) ([][]byte, error) {
	query := `SELECT data FROM images WHERE profile_id = $1 ORDER BY position`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	images := [][]byte{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		images = append(images, data)
	}
	return images, rows.Err()
}

// ReplaceImages overwrites a profile's stored images. Payloads are stored
// as-is, without validation.
func (r *ProfileRepository) ReplaceImages(ctx context.Context, id uuid.UUID, images [][]byte) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM images WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("clearing images: %w", err)
	}
	if len(images) == 0 {
		return nil
	}

	query := `
		INSERT INTO images (id, profile_id, position, data)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::int[], $4::bytea[])
	`
	ids := make([]uuid.UUID, len(images))
	profileIDs := make([]uuid.UUID, len(images))
	positions := make([]int, len(images))
	for i := range images {
		ids[i] = uuid.New()
		profileIDs[i] = id
		positions[i] = i
	}
	if _, err := r.pool.Exec(ctx, query, ids, profileIDs, positions, images); err != nil {
		return fmt.Errorf("inserting images: %w", err)
	}
	return nil
}

// SavedPlaylists retrieves a profile's saved playlists.
func (r *ProfileRepository) SavedPlaylists(ctx context.Context, id uuid.UUID) ([]Playlist, error) {
	query := `SELECT id, name, uri, image_url FROM saved_playlists WHERE profile_id = $1 ORDER BY position`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying saved playlists: %w", err)
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.URI, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("scanning playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// Full aggregates the profile row with every per-user collection, creating
// the row on first use. Collections are never nil.
func (r *ProfileRepository) Full(ctx context.Context, id uuid.UUID) (*FullProfile, error) {
	profile, err := r.GetOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	full := &FullProfile{Profile: *profile}

	if full.Images, err = r.Images(ctx, id); err != nil {
		return nil, err
	}
	if full.Interests, err = r.Interests(ctx, id); err != nil {
		return nil, err
	}
	if full.InterestRating, err = r.InterestRatings(ctx, id); err != nil {
		return nil, err
	}
	if full.Prompts, err = r.Prompts(ctx, id); err != nil {
		return nil, err
	}
	if full.SavedPlaylists, err = r.SavedPlaylists(ctx, id); err != nil {
		return nil, err
	}

	metrics := &MetricRepository{pool: r.pool}
	if full.TopArtists, err = metrics.TopArtists(ctx, id, TimeRangeShort, TopMetricLimit); err != nil {
		return nil, err
	}
	if full.TopSongs, err = metrics.TopTracks(ctx, id, TimeRangeShort, TopMetricLimit); err != nil {
		return nil, err
	}

	return full, nil
}
