// Package app wires the core components together for an embedding
// presentation layer: configuration, logging, durable storage, the
// catalog client, the library store and the playback engine.
package app

import (
	"context"
	"fmt"

	"EchoFM/catalog"
	"EchoFM/config"
	"EchoFM/hub"
	"EchoFM/library"
	"EchoFM/logger"
	"EchoFM/player"
	"EchoFM/storage"
)

// App holds the assembled core. The presentation layer mutates state
// only through the Library and Player operation sets and re-renders on
// Events notifications.
type App struct {
	Config  *config.Config
	Catalog *catalog.Client
	Search  *catalog.Dispatcher
	Library *library.Store
	Player  *player.Engine
	Events  *hub.Hub

	docs storage.Store
}

// New loads configuration, connects durable storage and restores the
// library and play history. The audio output is supplied by the caller
// since it is platform-specific.
func New(ctx context.Context, out player.Output) (*App, error) {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	docs, err := storage.OpenRedis(cfg)
	if err != nil {
		return nil, fmt.Errorf("app: opening durable storage: %w", err)
	}

	events := hub.New()
	client := catalog.NewClient(cfg)

	app := &App{
		Config:  cfg,
		Catalog: client,
		Search:  catalog.NewDispatcher(client),
		Library: library.Open(ctx, docs, events),
		Player:  player.New(ctx, out, docs, events, cfg.DefaultVolume),
		Events:  events,
		docs:    docs,
	}

	logger.Info("core initialized")
	return app, nil
}

// Close releases the storage connection and stops the search dispatcher.
func (a *App) Close() error {
	a.Search.Close()
	return a.docs.Close()
}
