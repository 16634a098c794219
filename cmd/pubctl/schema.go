package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"publications-backend/internal/config"
	"publications-backend/internal/infrastructure/database"
)

func newSchemaCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create the publications and authors tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				fmt.Fprint(cmd.OutOrStdout(), database.Schema)
				return nil
			}

			db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.EnsureSchema(cmd.Context(), db.Pool); err != nil {
				return err
			}
			log.Info().Str("database", db.Config.DBName).Msg("Schema is up to date")
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the DDL instead of applying it")

	return cmd
}

// connect loads the configuration and opens a pool.
func connect(ctx context.Context) (*database.PostgresDB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db := database.NewPostgresDB(config.LoadDatabaseConfig(cfg))

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
