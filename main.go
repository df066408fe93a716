package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estately/config"
	"estately/db"
	infraredis "estately/infrastructure/redis"
	"estately/server"
	"estately/server/routes"
	"estately/services/accounts"
	"estately/services/collections"
	"estately/services/listings"
	"estately/services/search"
	"estately/services/sessions"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func run() error {
	// Load environment
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Println("✓ Configuration loaded and validated")
	cfg.PrintSummary()

	// Open the bucket store
	store, err := db.OpenBucketStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open bucket store: %w", err)
	}
	log.Println("✓ Opened bucket store")

	// Redis only mirrors session state and is entirely optional
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = infraredis.NewClient(cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		defer rdb.Close()
		log.Println("✓ Connected to Redis")
	}

	// Initialize session manager
	smngr := sessions.NewSessionManager(cfg.Session.TTL, rdb)
	log.Println("✓ Initialized session manager")

	// Wire up services
	udb := db.NewUsersDB(store)
	favorites := collections.NewFavorites(store)
	listed := collections.NewListings(store)

	svcs := routes.Services{
		Store:     store,
		Users:     udb,
		Accounts:  accounts.NewService(udb, smngr),
		Favorites: favorites,
		Listings:  listings.NewService(listed),
		Search:    search.NewService(favorites),
		Sessions:  smngr,
		Redis:     rdb,
	}

	// Create server
	srv, err := server.NewServer(cfg, svcs)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Printf("Received signal: %v. Shutting down gracefully...", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("✓ Server shutdown complete")
	return nil
}
