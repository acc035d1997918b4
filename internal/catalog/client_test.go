package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/logger"
)

const chartBody = `{
	"tracks": {"data": [
		{"id": 1, "title": "One More Time", "preview": "https://cdn.example.com/1.mp3",
		 "artist": {"name": "Daft Punk"}, "album": {"cover_medium": "https://cdn.example.com/c1.jpg"}},
		{"id": 2, "title": "No Preview Here", "preview": "",
		 "artist": {"name": "Silence"}, "album": {"cover_medium": ""}}
	]},
	"artists": {"data": [{"id": 10, "name": "Daft Punk", "picture_medium": "https://cdn.example.com/a.jpg"}]},
	"albums": {"data": [{"id": 20, "title": "Discovery", "cover_medium": "https://cdn.example.com/d.jpg",
		"artist": {"name": "Daft Punk"}}]}
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{BaseURL: server.URL}, logger.NewTestLogger())
	return client, server
}

func TestClient_Chart(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chart", r.URL.Path)
		fmt.Fprint(w, chartBody)
	}))

	chart, err := client.Chart(context.Background())
	require.NoError(t, err)

	// The preview-less track is dropped; it could never play.
	require.Len(t, chart.Tracks, 1)
	assert.Equal(t, domain.Track{
		ID:         "1",
		Title:      "One More Time",
		Artist:     "Daft Punk",
		ArtworkURL: "https://cdn.example.com/c1.jpg",
		MediaURL:   "https://cdn.example.com/1.mp3",
	}, chart.Tracks[0])

	require.Len(t, chart.Artists, 1)
	assert.Equal(t, "Daft Punk", chart.Artists[0].Name)

	require.Len(t, chart.Albums, 1)
	assert.Equal(t, "Discovery", chart.Albums[0].Title)
}

func TestClient_SearchTracks(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "daft punk", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"data": [{"id": 1, "title": "One More Time", "preview": "https://cdn.example.com/1.mp3",
			"artist": {"name": "Daft Punk"}, "album": {"cover_medium": ""}}]}`)
	}))

	tracks, err := client.SearchTracks(context.Background(), "daft punk")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "One More Time", tracks[0].Title)
}

func TestClient_SearchArtists(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/artist", r.URL.Path)
		fmt.Fprint(w, `{"data": [{"id": 10, "name": "Daft Punk", "picture_medium": ""}]}`)
	}))

	artists, err := client.SearchArtists(context.Background(), "daft")
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "10", artists[0].ID)
}

func TestClient_CachesResponses(t *testing.T) {
	var hits atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, chartBody)
	}))

	_, err := client.Chart(context.Background())
	require.NoError(t, err)
	_, err = client.Chart(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), hits.Load())
}

func TestClient_ErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))

	_, err := client.Chart(context.Background())
	require.Error(t, err)

	var catalogErr *domain.CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, http.StatusTooManyRequests, catalogErr.StatusCode)
	assert.Equal(t, "chart", catalogErr.Op)
}

func TestClient_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))

	_, err := client.SearchTracks(context.Background(), "anything")
	require.Error(t, err)
}

func TestClient_ProxyPrefix(t *testing.T) {
	// With a proxy prefix the request goes to the proxy, which sees the
	// full upstream URL appended to its own.
	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.String()
		fmt.Fprint(w, `{"data": []}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:     "/upstream",
		ProxyPrefix: server.URL,
	}, logger.NewTestLogger())

	_, err := client.SearchTracks(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "/upstream/search?q=x", requested)
}
