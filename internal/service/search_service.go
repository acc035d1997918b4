// Package service provides business logic for the Songify application.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/ports"
)

// SearchService fronts the catalog for discovery: the popularity chart and
// track/artist search. The most recent query is persisted so the UI can
// restore it on the next start.
type SearchService struct {
	logger  *slog.Logger
	catalog ports.Catalog
	prefs   ports.PreferencesRepository
}

// NewSearchService creates a new search service.
func NewSearchService(
	logger *slog.Logger,
	catalog ports.Catalog,
	prefs ports.PreferencesRepository,
) *SearchService {
	return &SearchService{
		logger:  logger,
		catalog: catalog,
		prefs:   prefs,
	}
}

// Chart returns the popularity chart: top tracks, artists and albums.
func (s *SearchService) Chart(ctx context.Context) (*ports.Chart, error) {
	return s.catalog.Chart(ctx)
}

// SearchTracks searches the catalog for playable tracks matching query and
// remembers the query. A blank query returns no results without a request.
func (s *SearchService) SearchTracks(ctx context.Context, query string) ([]domain.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if err := s.prefs.SaveLastQuery(query); err != nil {
		s.logger.Warn("failed to persist search query", slog.Any("error", err))
	}

	return s.catalog.SearchTracks(ctx, query)
}

// SearchArtists searches the catalog for artists matching query.
func (s *SearchService) SearchArtists(ctx context.Context, query string) ([]domain.Artist, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	return s.catalog.SearchArtists(ctx, query)
}

// LastQuery returns the most recently persisted search query, "" when none.
func (s *SearchService) LastQuery() string {
	query, err := s.prefs.LoadLastQuery()
	if err != nil {
		s.logger.Warn("failed to load last search query", slog.Any("error", err))
		return ""
	}
	return query
}
