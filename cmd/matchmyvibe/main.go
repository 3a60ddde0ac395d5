// Command matchmyvibe runs the MatchMyVibe backend API server.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/matchmyvibe/backend/internal/config"
	"github.com/matchmyvibe/backend/internal/db"
	"github.com/matchmyvibe/backend/internal/identity"
	"github.com/matchmyvibe/backend/internal/spotify"
	"github.com/matchmyvibe/backend/internal/web"
	webfs "github.com/matchmyvibe/backend/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	// Prefer local token verification when the signing secret is available;
	// fall back to resolving every token against the auth service.
	var resolver web.IdentityResolver
	if cfg.JWTSecret != "" {
		resolver = identity.NewVerifier(cfg.JWTSecret)
	} else {
		resolver = identity.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	}

	var player web.Player
	if cfg.SpotifyID != "" && cfg.SpotifySecret != "" {
		player = spotify.New(cfg.SpotifyID, cfg.SpotifySecret)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:     cfg.Addr(),
		Resolver: resolver,
		Profiles: database.Profiles(),
		Metrics:  database.Metrics(),
		Player:   player,
		StaticFS: static,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
