package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songifyapp/songify/internal/adapter/repository/kv"
	"github.com/songifyapp/songify/internal/adapter/storage/memory"
	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/logger"
	"github.com/songifyapp/songify/internal/ports"
)

// stubCatalog records queries and returns canned results.
type stubCatalog struct {
	tracks  []domain.Track
	artists []domain.Artist
	queries []string
}

func (c *stubCatalog) Chart(context.Context) (*ports.Chart, error) {
	return &ports.Chart{Tracks: c.tracks}, nil
}

func (c *stubCatalog) SearchTracks(_ context.Context, query string) ([]domain.Track, error) {
	c.queries = append(c.queries, query)
	return c.tracks, nil
}

func (c *stubCatalog) SearchArtists(_ context.Context, query string) ([]domain.Artist, error) {
	c.queries = append(c.queries, query)
	return c.artists, nil
}

func newTestSearchService() (*SearchService, *stubCatalog) {
	catalog := &stubCatalog{
		tracks:  []domain.Track{testTrack(0)},
		artists: []domain.Artist{{Name: "Test Artist"}},
	}
	service := NewSearchService(logger.NewTestLogger(), catalog,
		kv.NewPreferencesRepository(memory.NewStore()))
	return service, catalog
}

func TestSearchService_SearchTracks_RemembersQuery(t *testing.T) {
	service, catalog := newTestSearchService()

	tracks, err := service.SearchTracks(context.Background(), "  daft punk  ")
	require.NoError(t, err)
	assert.Len(t, tracks, 1)

	// Query is trimmed before use and persisted.
	assert.Equal(t, []string{"daft punk"}, catalog.queries)
	assert.Equal(t, "daft punk", service.LastQuery())
}

func TestSearchService_SearchTracks_BlankQuery(t *testing.T) {
	service, catalog := newTestSearchService()

	tracks, err := service.SearchTracks(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, tracks)
	assert.Empty(t, catalog.queries)
	assert.Empty(t, service.LastQuery())
}

func TestSearchService_SearchArtists(t *testing.T) {
	service, _ := newTestSearchService()

	artists, err := service.SearchArtists(context.Background(), "daft")
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "Test Artist", artists[0].Name)

	// Artist searches do not overwrite the remembered track query.
	assert.Empty(t, service.LastQuery())
}

func TestSearchService_Chart(t *testing.T) {
	service, _ := newTestSearchService()

	chart, err := service.Chart(context.Background())
	require.NoError(t, err)
	assert.Len(t, chart.Tracks, 1)
}
