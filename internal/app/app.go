// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/songifyapp/songify/internal/adapter/audio/beep"
	"github.com/songifyapp/songify/internal/adapter/audio/mock"
	"github.com/songifyapp/songify/internal/adapter/eventbus"
	"github.com/songifyapp/songify/internal/adapter/repository/kv"
	"github.com/songifyapp/songify/internal/adapter/storage/memory"
	"github.com/songifyapp/songify/internal/adapter/storage/sqlite"
	"github.com/songifyapp/songify/internal/catalog"
	"github.com/songifyapp/songify/internal/config"
	"github.com/songifyapp/songify/internal/logger"
	"github.com/songifyapp/songify/internal/ports"
	"github.com/songifyapp/songify/internal/queue"
	"github.com/songifyapp/songify/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	logger *slog.Logger
	config *config.Config

	// Infrastructure
	eventBus ports.EventBus
	output   ports.AudioOutput
	store    ports.KeyValueStore
	catalog  ports.Catalog

	// Repositories
	playlistRepo    ports.PlaylistRepository
	preferencesRepo ports.PreferencesRepository

	// Services
	player   *service.PlayerService
	playlist *service.PlaylistService
	search   *service.SearchService
}

// Options tweak the wiring, mainly for tests.
type Options struct {
	// UseMockAudio swaps the speaker-backed output for the in-memory mock.
	UseMockAudio bool

	// UseMemoryStore keeps all persisted state in memory instead of SQLite.
	UseMemoryStore bool
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(cfg *config.Config, opts Options) (*Application, error) {
	app := &Application{config: cfg}

	// Step 1: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	app.logger.Info("initializing application",
		slog.String("catalog_url", cfg.Catalog.BaseURL),
		slog.String("state_db", cfg.State.DBPath))

	// Step 2: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(app.logger.With(slog.String("component", "eventbus")))

	// Step 3: Create the audio output
	if opts.UseMockAudio {
		app.output = mock.NewOutput()
	} else {
		app.output = beep.NewOutput(app.logger.With(slog.String("component", "audio")))
	}

	// Step 4: Open the key-value store
	if opts.UseMemoryStore {
		app.store = memory.NewStore()
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.State.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		store, err := sqlite.Open(cfg.State.DBPath, app.logger.With(slog.String("component", "store")))
		if err != nil {
			return nil, fmt.Errorf("failed to open state database: %w", err)
		}
		app.store = store
	}

	// Step 5: Create repositories
	app.playlistRepo = kv.NewPlaylistRepository(app.store, app.logger)
	prefsRepo := kv.NewPreferencesRepository(app.store)
	prefsRepo.SetDefaultVolume(cfg.Player.DefaultVolume)
	app.preferencesRepo = prefsRepo

	// Step 6: Create the catalog client
	app.catalog = catalog.NewClient(catalog.Config{
		BaseURL:     cfg.Catalog.BaseURL,
		ProxyPrefix: cfg.Catalog.ProxyPrefix,
		Timeout:     cfg.Catalog.Timeout,
	}, app.logger.With(slog.String("component", "catalog")))

	// Step 7: Create services
	app.player = service.NewPlayerService(
		app.logger.With(slog.String("service", "player")),
		app.output,
		app.eventBus,
		queue.New(),
		app.preferencesRepo,
	)
	app.playlist = service.NewPlaylistService(
		app.logger.With(slog.String("service", "playlist")),
		app.playlistRepo,
		app.eventBus,
	)
	app.search = service.NewSearchService(
		app.logger.With(slog.String("service", "search")),
		app.catalog,
		app.preferencesRepo,
	)

	app.logger.Info("application initialized")

	return app, nil
}

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// EventBus returns the shared event bus.
func (a *Application) EventBus() ports.EventBus {
	return a.eventBus
}

// Player returns the playback service.
func (a *Application) Player() *service.PlayerService {
	return a.player
}

// Playlist returns the saved playlist service.
func (a *Application) Playlist() *service.PlaylistService {
	return a.playlist
}

// Search returns the catalog search service.
func (a *Application) Search() *service.SearchService {
	return a.search
}

// Shutdown stops playback and releases all resources in reverse order of
// construction. Individual failures are logged; shutdown always proceeds.
func (a *Application) Shutdown() {
	a.logger.Info("shutting down application")

	if err := a.player.Shutdown(); err != nil {
		a.logger.Warn("player shutdown failed", slog.Any("error", err))
	}
	if err := a.output.Close(); err != nil {
		a.logger.Warn("audio output close failed", slog.Any("error", err))
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("state store close failed", slog.Any("error", err))
	}
	if err := a.eventBus.Close(); err != nil {
		a.logger.Warn("event bus close failed", slog.Any("error", err))
	}

	a.logger.Info("application shutdown complete")
}
