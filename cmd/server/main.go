package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"agritrack/backend/internal/api"
	"agritrack/backend/internal/config"
	"agritrack/backend/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		// A malformed .env should not stop the server; real deployments set
		// the environment directly.
		_, _ = os.Stderr.WriteString("warning: failed to load .env: " + err.Error() + "\n")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer migrateCancel()
	if err := database.EnsureSchema(migrateCtx, pool, cfg.SchemaPath); err != nil {
		logger.Fatal("schema migration failed", zap.Error(err))
	}

	srv, err := api.NewServer(pool, cfg, logger)
	if err != nil {
		logger.Fatal("server init failed", zap.Error(err))
	}

	logger.Info("agritrack backend listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, srv.Mux()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
