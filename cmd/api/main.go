package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/devnet/internal/config"
	"github.com/joshua-takyi/devnet/internal/connect"
	"github.com/joshua-takyi/devnet/internal/container"
	"github.com/joshua-takyi/devnet/internal/models"
	"github.com/joshua-takyi/devnet/internal/routes"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting devnet API server", "environment", cfg.Environment, "store", cfg.Store)
	if !cfg.GithubEnabled() {
		logger.Warn("GITHUB_CLIENT_ID or GITHUB_SECRET not set, github lookups will report no profile")
	}

	var (
		store       container.Store
		mongoClient *mongo.Client
	)
	switch cfg.Store {
	case config.StoreMemory:
		store = models.NewMemoryRepo()
		logger.Warn("Using in-memory store, data is lost on exit")
	default:
		mongoClient, err = connect.MongoDBConnect(context.Background(), cfg.MongoURI())
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)

		repo := models.MongodbNewRepo(mongoClient, cfg.MongoDBDatabase)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = repo.EnsureIndexes(ctx)
		cancel()
		if err != nil {
			logger.Error("Failed to create indexes", "error", err)
			os.Exit(1)
		}
		store = repo
	}

	appContainer := container.NewContainer(logger, cfg, store)
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.MongoDBDisconnect(mongoClient); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
