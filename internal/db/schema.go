package db

import (
	"context"
	"fmt"
)

// schema is applied idempotently at startup. The top_artists, top_tracks,
// and saved_playlists tables are written by the external sync process; the
// definitions here only guarantee local and test databases have them.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id UUID PRIMARY KEY,
    name TEXT,
    university_name TEXT,
    work JSONB,
    home_town TEXT,
    height TEXT,
    age TEXT,
    zodiac TEXT,
    gender TEXT,
    dating_preference TEXT,
    "birthdayInUnix" BIGINT,
    currently_playing TEXT,
    last_played_song JSONB,
    user_last_active_at BIGINT,
    spotify_access_token TEXT,
    spotify_refresh_token TEXT,
    spotify_token_expiry TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS interests (
    id UUID PRIMARY KEY,
    profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    UNIQUE (profile_id, name)
);

CREATE TABLE IF NOT EXISTS interest_ratings (
    id UUID PRIMARY KEY,
    profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    rating INT NOT NULL,
    UNIQUE (profile_id, name)
);

CREATE TABLE IF NOT EXISTS prompts (
    id UUID PRIMARY KEY,
    profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    position INT NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS images (
    id UUID PRIMARY KEY,
    profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    position INT NOT NULL,
    data BYTEA NOT NULL
);

CREATE TABLE IF NOT EXISTS saved_playlists (
    id UUID PRIMARY KEY,
    profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    position INT NOT NULL DEFAULT 0,
    name TEXT NOT NULL,
    uri TEXT NOT NULL,
    image_url TEXT
);

CREATE TABLE IF NOT EXISTS top_artists (
    id UUID PRIMARY KEY,
    profile_id UUID NOT NULL,
    name TEXT NOT NULL,
    uri TEXT NOT NULL,
    image_url TEXT,
    popularity INT NOT NULL DEFAULT 0,
    time_range TEXT NOT NULL DEFAULT 'short_term',
    UNIQUE (profile_id, time_range, uri)
);

CREATE TABLE IF NOT EXISTS top_tracks (
    id UUID PRIMARY KEY,
    profile_id UUID NOT NULL,
    name TEXT NOT NULL,
    artist TEXT NOT NULL DEFAULT '',
    uri TEXT NOT NULL,
    image_url TEXT,
    popularity INT NOT NULL DEFAULT 0,
    time_range TEXT NOT NULL DEFAULT 'short_term',
    UNIQUE (profile_id, time_range, uri)
);

CREATE INDEX IF NOT EXISTS idx_top_artists_profile_range
    ON top_artists (profile_id, time_range, popularity DESC);

CREATE INDEX IF NOT EXISTS idx_top_tracks_profile_range
    ON top_tracks (profile_id, time_range, popularity DESC);
`

// EnsureSchema applies the schema to the connected database.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
