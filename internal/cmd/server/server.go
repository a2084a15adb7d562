// Package server parses server command flags and launches the HTTP API
// runtime.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/framehq/frame/internal/api"
	"github.com/framehq/frame/internal/auth"
	"github.com/framehq/frame/internal/mail"
	"github.com/framehq/frame/internal/org"
	entrypoint "github.com/framehq/frame/internal/platform/cmd"
	"github.com/framehq/frame/internal/project"
	"github.com/framehq/frame/internal/storage/sqlite"
	"github.com/framehq/frame/internal/timetrack"
)

const shutdownTimeout = 10 * time.Second

// Config holds server command configuration.
type Config struct {
	Port    int    `env:"FRAME_SERVER_PORT" envDefault:"8080"`
	DBPath  string `env:"FRAME_DB_PATH" envDefault:"frame.db"`
	BaseURL string `env:"FRAME_BASE_URL" envDefault:"http://localhost:8080"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The SQLite database path")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "The public base URL used in emailed links")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the server runtime and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		return serve(ctx, cfg)
	})
}

func serve(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	magicLink, err := auth.LoadMagicLinkConfigFromEnv(nil)
	if err != nil {
		return err
	}

	sender := mail.NewLogSender()
	authSvc := auth.NewService(store, store, sender, magicLink, cfg.BaseURL)
	teamSvc := org.NewService(store, sender, cfg.BaseURL)
	projectSvc := project.NewService(store)
	timerSvc := timetrack.NewService(store, store)

	apiServer := api.NewServer(authSvc, teamSvc, projectSvc, timerSvc, store)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
