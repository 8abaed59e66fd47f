package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/heydj/internal/models"
	"github.com/desertthunder/heydj/internal/shared"
)

// Catalog is the music catalog a [models.PlaylistPlan] is handed to.
//
// heydj does not ship an implementation; search and playlist creation belong to the
// catalog integration (e.g. Spotify search, Genius lyrics lookup, Last.fm tags).
type Catalog interface {
	// SearchSongs performs a free-text track search and returns track URIs.
	SearchSongs(ctx context.Context, query string, limit int) ([]string, error)

	// SearchSongsByLyrics finds tracks whose lyrics contain query.
	SearchSongsByLyrics(ctx context.Context, query string, limit int) ([]string, error)

	// SearchSongsByTag finds top tracks for a genre, mood or theme tag.
	SearchSongsByTag(ctx context.Context, query string, limit int) ([]string, error)

	// CreatePlaylist creates a playlist holding tracks and returns its URL.
	CreatePlaylist(ctx context.Context, name, description string, tracks []string) (string, error)
}

// SearchTracks dispatches plan.SearchQuery to the catalog operation selected by plan.SearchFunction.
func SearchTracks(ctx context.Context, c Catalog, plan models.PlaylistPlan, limit int) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: catalog not configured", shared.ErrInvalidArgument)
	}

	label, ok := models.ParseRouteLabel(plan.SearchFunction)
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrRouting, plan.SearchFunction)
	}

	switch label {
	case models.SearchSongs:
		return c.SearchSongs(ctx, plan.SearchQuery, limit)
	case models.SearchSongsByLyrics:
		return c.SearchSongsByLyrics(ctx, plan.SearchQuery, limit)
	default:
		return c.SearchSongsByTag(ctx, plan.SearchQuery, limit)
	}
}

// PublishPlan searches for tracks and creates a playlist from plan on c.
func PublishPlan(ctx context.Context, c Catalog, plan models.PlaylistPlan, limit int) (string, error) {
	tracks, err := SearchTracks(ctx, c, plan, limit)
	if err != nil {
		return "", fmt.Errorf("failed to search tracks: %w", err)
	}

	url, err := c.CreatePlaylist(ctx, plan.PlaylistName, plan.Description, tracks)
	if err != nil {
		return "", fmt.Errorf("failed to create playlist: %w", err)
	}

	return url, nil
}
