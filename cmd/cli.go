package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

// NewRootCommand builds the fulfillment CLI.
func NewRootCommand(log *slog.Logger) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "fulfillment",
		Short:         "Order fulfillment lifecycle service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file read before the environment")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API and the outbox relay",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), envFile, log)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, _ []string) error {
				config, db, err := connect(envFile)
				if err != nil {
					return err
				}
				if err = postgres.Migrate(cmd.Context(), db); err != nil {
					return err
				}
				log.InfoContext(cmd.Context(), "schema migrated", "database", config.DBName)
				return nil
			},
		},
		&cobra.Command{
			Use:   "seed <catalogue-file>",
			Short: "Load actors, warehouses and products from a YAML or JSON file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return seed(cmd.Context(), envFile, args[0], log)
			},
		},
	)
	return root
}

func connect(envFile string) (Config, *gorm.DB, error) {
	config, err := LoadConfig(envFile)
	if err != nil {
		return Config{}, nil, err
	}
	db, err := gorm.Open(gorm_postgres.Open(config.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return Config{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return config, db, nil
}

func serve(ctx context.Context, envFile string, log *slog.Logger) error {
	config, db, err := connect(envFile)
	if err != nil {
		return err
	}

	root, err := NewCompositionRoot(config, db, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := root.Close(); closeErr != nil {
			log.Error("failed to close connections", "error", closeErr)
		}
	}()

	jobManager, err := root.CreateJobManager()
	if err != nil {
		return err
	}

	doc, err := http.LoadSwagger()
	if err != nil {
		return fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	e, err := http.NewRouter(root.CreateHTTPServer(), doc, log.With("component", "echo"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", "port", config.HTTPPort)
		serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
