package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetproof/fleet-engine/internal/archive"
	"github.com/fleetproof/fleet-engine/internal/chain"
)

func main() {
	log.Println("Starting Fleet Engine chain arbiter...")

	// ─── Configuration ──────────────────────────────────────────────────
	// DATABASE_URL is optional: without it the arbiter runs purely
	// in-memory and skips the audit archive.
	// ────────────────────────────────────────────────────────────────────

	port := getEnvOrDefault("CHAIN_PORT", "3001")
	dbURL := os.Getenv("DATABASE_URL")

	hub := chain.NewHub()

	var archiveStore *archive.Store
	if dbURL != "" {
		store, err := archive.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: failed to connect to PostgreSQL, continuing without the audit archive. Error: %v", err)
		} else {
			defer store.Close()
			if err := store.InitSchema(); err != nil {
				log.Printf("Warning: archive schema init failed: %v", err)
			}
			archiveStore = store
			hub.SetSink(store.EventSink())
		}
	}
	go hub.Run()

	store := chain.NewStore()
	node := chain.NewNode(store, hub)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var onFinal func(chain.FinalizedGame)
	if archiveStore != nil {
		onFinal = archiveStore.FinalSink()
	}
	reaper := chain.NewReaper(store, hub, onFinal)
	go reaper.Run(ctx)

	router := chain.SetupRouter(node, hub)
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Chain arbiter listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down chain arbiter...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
