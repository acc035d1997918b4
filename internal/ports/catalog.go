// Package ports defines the catalog interface for browsing surfaces.
package ports

import (
	"context"

	"github.com/songifyapp/songify/internal/domain"
)

// Chart holds the catalog's current chart data for the home and trending views.
type Chart struct {
	Tracks  []domain.Track
	Artists []domain.Artist
	Albums  []domain.Album
}

// Catalog is the external music catalog the browsing surfaces fetch from.
// The playback core never calls it; only presentation glue does.
//
// Implementations log failures for diagnostics and return errors without
// retrying; a failed fetch simply yields nothing to display.
type Catalog interface {
	// Chart fetches the current top tracks, artists and albums.
	Chart(ctx context.Context) (*Chart, error)

	// SearchTracks searches tracks by free-text query.
	SearchTracks(ctx context.Context, query string) ([]domain.Track, error)

	// SearchArtists searches artists by free-text query.
	SearchArtists(ctx context.Context, query string) ([]domain.Artist, error)
}
