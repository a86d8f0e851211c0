package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/serroba/whiteboard/internal/api"
	"github.com/serroba/whiteboard/internal/auth"
	"github.com/serroba/whiteboard/internal/config"
	"github.com/serroba/whiteboard/internal/presence"
	"github.com/serroba/whiteboard/internal/storage"
	"github.com/serroba/whiteboard/internal/ws"
)

func main() {
	cfg, err := config.Load(os.Getenv("WHITEBOARD_CONFIG"))
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Pick the operation log backend
	var store storage.Store

	switch cfg.Storage.Backend {
	case "mysql":
		gormStore, err := storage.NewGormStore(cfg.Storage.MysqlDSN)
		if err != nil {
			log.Fatalf("Storage error: %v", err)
		}

		store = gormStore
	default:
		store = storage.NewMemoryStore()
	}

	// Initialize the connection registry
	hub := ws.NewHub()

	var presenceStore api.PresenceReader

	if cfg.Redis.Enabled {
		// Heartbeats outlive one missed sweep, not two
		tracker := presence.NewRedisTracker(cfg.Redis.Addr, 2*cfg.Sweep.Interval)
		hub.SetTracker(tracker)
		presenceStore = tracker
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.RunSweeper(ctx, cfg.Sweep.Interval)

	// Initialize the relay server
	server := api.NewServer(api.ServerConfig{
		Hub:      hub,
		Store:    store,
		Verifier: auth.NewVerifier(cfg.Auth.Secret),
		Presence: presenceStore,
	})

	// Configure HTTP server with timeouts
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Starting relay on %s", cfg.Server.Addr)

	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
