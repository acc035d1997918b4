// Package catalog provides the HTTP client for the public music catalog API.
//
// The catalog serves chart data (top tracks, artists, albums) and free-text
// search. The playback core never talks to it; browsing surfaces fetch from
// here and hand individual tracks to the player.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"
	"github.com/songifyapp/songify/internal/domain"
	"github.com/songifyapp/songify/internal/ports"
)

const (
	// DefaultBaseURL is the public catalog endpoint.
	DefaultBaseURL = "https://api.deezer.com"

	// defaultTimeout bounds a single catalog request.
	defaultTimeout = 15 * time.Second

	// cacheSize bounds the response cache. Chart plus a browsing session's
	// worth of searches fits comfortably.
	cacheSize = 128

	// chartLimit caps how many chart entries the views consume.
	chartLimit = 20
)

// Config holds catalog client configuration.
type Config struct {
	// BaseURL is the catalog API root, e.g. https://api.deezer.com.
	BaseURL string

	// ProxyPrefix, when set, is prepended to every request URL. The public
	// catalog blocks cross-origin browser calls, so the original client
	// routed through a relay; native callers normally leave this empty.
	ProxyPrefix string

	// Timeout bounds a single request. Zero means a sensible default.
	Timeout time.Duration
}

// Client fetches and maps catalog payloads.
// Responses are cached in-process with an LRU keyed by request URL: chart
// and repeated searches are hot paths while browsing.
type Client struct {
	baseURL     string
	proxyPrefix string
	httpClient  *http.Client
	logger      *slog.Logger
	cache       *lru.Cache[string, []byte]
}

// NewClient creates a catalog client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	cache, _ := lru.New[string, []byte](cacheSize)

	return &Client{
		baseURL:     cfg.BaseURL,
		proxyPrefix: cfg.ProxyPrefix,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
		cache:       cache,
	}
}

// payload shapes, matching the catalog's JSON.

type trackPayload struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Preview string `json:"preview"`
	Artist  struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		CoverMedium string `json:"cover_medium"`
	} `json:"album"`
}

type artistPayload struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	PictureMedium string `json:"picture_medium"`
}

type albumPayload struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	CoverMedium string `json:"cover_medium"`
	Artist      struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type chartPayload struct {
	Tracks struct {
		Data []trackPayload `json:"data"`
	} `json:"tracks"`
	Artists struct {
		Data []artistPayload `json:"data"`
	} `json:"artists"`
	Albums struct {
		Data []albumPayload `json:"data"`
	} `json:"albums"`
}

type listPayload[T any] struct {
	Data []T `json:"data"`
}

// Chart fetches the current top tracks, artists and albums.
func (c *Client) Chart(ctx context.Context) (*ports.Chart, error) {
	body, err := c.get(ctx, "chart", "/chart")
	if err != nil {
		return nil, err
	}

	var payload chartPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewCatalogError("chart", 0, err)
	}

	chart := &ports.Chart{
		Tracks:  mapTracks(lo.Subset(payload.Tracks.Data, 0, chartLimit)),
		Artists: lo.Map(lo.Subset(payload.Artists.Data, 0, chartLimit), mapArtist),
		Albums:  lo.Map(lo.Subset(payload.Albums.Data, 0, chartLimit), mapAlbum),
	}
	return chart, nil
}

// SearchTracks searches tracks by free-text query.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]domain.Track, error) {
	body, err := c.get(ctx, "search", "/search?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	var payload listPayload[trackPayload]
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewCatalogError("search", 0, err)
	}

	return mapTracks(payload.Data), nil
}

// SearchArtists searches artists by free-text query.
func (c *Client) SearchArtists(ctx context.Context, query string) ([]domain.Artist, error) {
	body, err := c.get(ctx, "search_artist", "/search/artist?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	var payload listPayload[artistPayload]
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewCatalogError("search_artist", 0, err)
	}

	return lo.Map(payload.Data, mapArtist), nil
}

// get performs one GET against the catalog, consulting the cache first.
func (c *Client) get(ctx context.Context, op, path string) ([]byte, error) {
	requestURL := c.proxyPrefix + c.baseURL + path

	if body, ok := c.cache.Get(requestURL); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, domain.NewCatalogError(op, 0, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed",
			slog.String("op", op),
			slog.Any("error", err))
		return nil, domain.NewCatalogError(op, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("catalog request rejected",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode))
		return nil, domain.NewCatalogError(op, resp.StatusCode, fmt.Errorf("unexpected status"))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewCatalogError(op, 0, err)
	}

	c.cache.Add(requestURL, body)
	return body, nil
}

// mapTracks converts track payloads, dropping entries without a playable
// preview: a track the output cannot load has no place in a play queue.
func mapTracks(payloads []trackPayload) []domain.Track {
	playable := lo.Filter(payloads, func(p trackPayload, _ int) bool {
		return p.Preview != ""
	})
	return lo.Map(playable, func(p trackPayload, _ int) domain.Track {
		return domain.Track{
			ID:         strconv.FormatInt(p.ID, 10),
			Title:      p.Title,
			Artist:     p.Artist.Name,
			ArtworkURL: p.Album.CoverMedium,
			MediaURL:   p.Preview,
		}
	})
}

func mapArtist(p artistPayload, _ int) domain.Artist {
	return domain.Artist{
		ID:         strconv.FormatInt(p.ID, 10),
		Name:       p.Name,
		PictureURL: p.PictureMedium,
	}
}

func mapAlbum(p albumPayload, _ int) domain.Album {
	return domain.Album{
		ID:       strconv.FormatInt(p.ID, 10),
		Title:    p.Title,
		Artist:   p.Artist.Name,
		CoverURL: p.CoverMedium,
	}
}

// Verify that Client implements the Catalog interface
var _ ports.Catalog = (*Client)(nil)
