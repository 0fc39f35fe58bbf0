package main

import (
	"context"
	"fmt"

	"github.com/jonathan/humanizer/internal/config"
	"github.com/jonathan/humanizer/internal/db"
	"github.com/jonathan/humanizer/internal/humanizer"
	"github.com/jonathan/humanizer/internal/logger"
	"github.com/jonathan/humanizer/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort        int
	serveCORSOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the humanize, generate and score endpoints and the result history.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or 8080)")
	serveCmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origin", nil, "Allowed CORS origin (repeatable; default *)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(config.Config{Port: servePort}, true)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	svc, closeClient, err := newService(ctx, cfg, humanizer.WithStore(store))
	if err != nil {
		store.Close()
		return err
	}
	defer closeClient()

	srv := server.New(server.Config{Port: cfg.Port, CORSOrigins: serveCORSOrigins}, svc, store)
	return srv.Start()
}

// openStore connects to PostgreSQL when a database URL is configured and
// falls back to an in-memory history otherwise.
func openStore(ctx context.Context, cfg *config.Config) (db.Store, error) {
	log := logger.Named("serve")
	if cfg.DatabaseURL == "" {
		log.Info().Int("capacity", db.DefaultMemoryCapacity).Msg("DATABASE_URL not set, keeping results in memory")
		return db.NewMemoryStore(db.DefaultMemoryCapacity), nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to prepare database schema: %w", err)
	}
	log.Info().Msg("storing results in PostgreSQL")
	return database, nil
}
