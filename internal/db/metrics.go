package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TopMetricLimit is the number of rows surfaced per (profile, time range).
const TopMetricLimit = 5

// MetricRepository reads the time-scoped listening metrics (top artists,
// top tracks). The tables are repopulated by an external sync process and
// are read-only here.
type MetricRepository struct {
	pool *pgxpool.Pool
}

// TopArtists retrieves a profile's top artists for a time range, ordered by
// popularity descending.
func (r *MetricRepository) TopArtists(ctx context.Context, profileID uuid.UUID, timeRange string, limit int) ([]TopArtist, error) {
	query := `
		SELECT id, profile_id, name, uri, image_url, popularity, time_range
		FROM top_artists
		WHERE profile_id = $1 AND time_range = $2
		ORDER BY popularity DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, profileID, timeRange, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	artists := []TopArtist{}
	for rows.Next() {
		var a TopArtist
		if err := rows.Scan(&a.ID, &a.ProfileID, &a.Name, &a.URI, &a.ImageURL, &a.Popularity, &a.TimeRange); err != nil {
			return nil, fmt.Errorf("scanning top artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// TopTracks retrieves a profile's top tracks for a time range, ordered by
// popularity descending.
func (r *MetricRepository) TopTracks(ctx context.Context, profileID uuid.UUID, timeRange string, limit int) ([]TopTrack, error) {
	query := `
		SELECT id, profile_id, name, artist, uri, image_url, popularity, time_range
		FROM top_tracks
		WHERE profile_id = $1 AND time_range = $2
		ORDER BY popularity DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, profileID, timeRange, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top tracks: %w", err)
	}
	defer rows.Close()

	tracks := []TopTrack{}
	for rows.Next() {
		var t TopTrack
		if err := rows.Scan(&t.ID, &t.ProfileID, &t.Name, &t.Artist, &t.URI, &t.ImageURL, &t.Popularity, &t.TimeRange); err != nil {
			return nil, fmt.Errorf("scanning top track: %w", err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}
