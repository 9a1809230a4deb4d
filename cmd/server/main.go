package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jobtrail/jobtrail/api"
	dbfs "github.com/jobtrail/jobtrail/db"
	"github.com/jobtrail/jobtrail/internal/config"
	"github.com/jobtrail/jobtrail/internal/db"
	"github.com/jobtrail/jobtrail/internal/engine"
	"github.com/jobtrail/jobtrail/internal/notify"
	"github.com/jobtrail/jobtrail/internal/repository/docstore"
	"github.com/jobtrail/jobtrail/internal/store"
	"github.com/jobtrail/jobtrail/internal/validate"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	// Optional .env for local development; real deployments use the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	log.Printf("Starting jobtrail server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection and run migrations
	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	validator, err := validate.NewFromFS(dbfs.RequestSchemas)
	if err != nil {
		log.Fatalf("Failed to load request schemas: %v", err)
	}

	// Repositories share one document store.
	repo := docstore.New(store.NewSQLite(conn), logger)

	// Notification pipeline: persistent queue drained by workers, each
	// delivery posted to the configured webhook. No webhook URL means
	// notifications are dropped silently.
	var notifier notify.Notifier = notify.Nop{}
	var queue *notify.Queue
	if cfg.Notify.WebhookURL != "" {
		sender := notify.NewWebhookSender(cfg.Notify.WebhookURL, cfg.Notify.Timeout)
		queue = notify.NewQueue(notify.NewRepository(conn), sender, logger, cfg.Notify.Workers, cfg.Notify.MaxAttempts)
		queue.Start(ctx)
		notifier = queue
	}

	eng := engine.New(repo, repo, repo, notifier, logger)

	handler := api.SetupRoutes(cfg, version, buildTime, repo, validator, eng)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if queue != nil {
		queue.Stop()
	}

	// Close database connection
	if err := conn.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
