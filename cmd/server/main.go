/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the care scheduling engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Read environment config, then command-line flags (flags win)
  2. Initialize SQLite store
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start the month-end snapshot job
  6. Start server with graceful shutdown

CONFIGURATION:
  Environment variables (flags override):
    CARE_PORT               HTTP server port (default: 8080)
    CARE_DB                 SQLite database path (default: care.db)
                            Use ":memory:" for an in-memory database
    CARE_SNAPSHOT_ENABLED   Run the month-end snapshot job (default: true)
    CARE_SNAPSHOT_INTERVAL  Snapshot check interval (default: 1h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the snapshot job
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/care.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/warp/care-engine/api"
	"github.com/warp/care-engine/store/sqlite"
)

type config struct {
	Port             int           `env:"CARE_PORT" envDefault:"8080"`
	DBPath           string        `env:"CARE_DB" envDefault:"care.db"`
	SnapshotEnabled  bool          `env:"CARE_SNAPSHOT_ENABLED" envDefault:"true"`
	SnapshotInterval time.Duration `env:"CARE_SNAPSHOT_INTERVAL" envDefault:"1h"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	// Flags override environment
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store)
	router := api.NewRouter(handler)

	// Month-end snapshot job
	snapshots := api.NewSnapshotJob(store, handler)
	snapshots.Enabled = cfg.SnapshotEnabled
	snapshots.CheckInterval = cfg.SnapshotInterval
	snapshots.Start()
	defer snapshots.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
