package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groblegark/linkpixel/internal/config"
	"github.com/groblegark/linkpixel/internal/geo"
	"github.com/groblegark/linkpixel/internal/imagestore"
	"github.com/groblegark/linkpixel/internal/pipeline"
	"github.com/groblegark/linkpixel/internal/registry"
	"github.com/groblegark/linkpixel/internal/server"
	"github.com/groblegark/linkpixel/internal/store"
	"github.com/groblegark/linkpixel/internal/store/postgres"
	"github.com/groblegark/linkpixel/internal/store/sqlite"
	"github.com/groblegark/linkpixel/internal/ua"
	"github.com/spf13/cobra"
)

// probeTimeout bounds the startup connectivity check against Postgres
// before falling back to SQLite.
const probeTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the linkpixel server",
	// Override PersistentPreRunE so serving doesn't build an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Select the storage backend, once, for the process lifetime.
		st, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		// Select the image store.
		images, err := openImageStore(cfg, logger)
		if err != nil {
			st.Close()
			return err
		}

		// Assemble the ingestion pipeline and the HTTP surface.
		resolver := geo.New(cfg.GeoURL, cfg.GeoToken, cfg.GeoTimeout, logger)
		pipe := pipeline.New(st, resolver, ua.NewParser(), cfg.IPAccuracyM, logger)
		reg := registry.New(st)
		srv := server.New(reg, st, pipe, images, logger)

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: srv.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Wait for shutdown signal.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown error", "err", err)
		}

		return nil
	},
}

// openStore picks the storage backend. Explicit configuration wins;
// otherwise Postgres is probed with a bounded connectivity check and
// SQLite is the fallback, announced with a one-time warning. The chosen
// backend is frozen for the process lifetime; there is no live
// failover.
func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		logger.Info("using postgres storage", "configured", true)
		return postgres.New(cfg.DatabaseURL)
	case config.StorageSQLite:
		logger.Info("using sqlite storage", "configured", true, "path", cfg.SQLitePath)
		return sqlite.New(cfg.SQLitePath)
	}

	// Auto: prefer Postgres when a URL is present and reachable.
	if cfg.DatabaseURL != "" {
		if err := postgres.Probe(cfg.DatabaseURL, probeTimeout); err == nil {
			logger.Info("using postgres storage", "configured", false)
			return postgres.New(cfg.DatabaseURL)
		} else {
			logger.Warn("postgres unreachable, falling back to sqlite",
				"err", err, "path", cfg.SQLitePath)
		}
	}
	return sqlite.New(cfg.SQLitePath)
}

// openImageStore picks local-directory or S3 image storage.
func openImageStore(cfg *config.Config, logger *slog.Logger) (imagestore.Store, error) {
	if cfg.ImageS3Bucket != "" {
		logger.Info("using S3 image storage", "bucket", cfg.ImageS3Bucket, "prefix", cfg.ImageS3Prefix)
		return imagestore.NewS3Store(context.Background(),
			cfg.ImageS3Bucket, cfg.ImageS3Prefix, cfg.ImageS3Region, cfg.ImageS3Endpoint)
	}
	logger.Info("using local image storage", "dir", cfg.ImageDir)
	return imagestore.NewLocalStore(cfg.ImageDir)
}
