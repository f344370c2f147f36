package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/battle-arena/internal/api"
	"github.com/dom/battle-arena/internal/config"
	"github.com/dom/battle-arena/internal/genai"
	"github.com/dom/battle-arena/internal/repository/postgres"
	"github.com/dom/battle-arena/internal/service"
	"github.com/dom/battle-arena/internal/storage"
	"github.com/dom/battle-arena/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Artifact storage
	store, artifactDir, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	// Generator client
	generator := genai.NewClient(cfg.GeminiAPIKey)

	// Change-nudge hub
	hub := ws.NewHub()

	// Initialize services
	services := service.NewServices(repos, generator, store, cfg)

	// Initialize router
	router := api.NewRouter(services, hub, api.RouterOptions{ArtifactDir: artifactDir})

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second, // battle generation waits on two renders
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func buildStore(cfg *config.Config) (storage.ArtifactStore, string, error) {
	switch cfg.StorageDriver {
	case "supabase":
		return storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket), "", nil
	case "disk":
		store, err := storage.NewDiskStore(cfg.StorageDir, cfg.PublicBaseURL+"/artifacts")
		if err != nil {
			return nil, "", err
		}
		return store, store.Root(), nil
	default:
		return nil, "", fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
