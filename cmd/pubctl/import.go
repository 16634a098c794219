package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"publications-backend/internal/domains/publication/importer"
	"publications-backend/internal/domains/publication/repository"
	"publications-backend/internal/domains/publication/service"
	"publications-backend/internal/infrastructure/database"
)

// importTxTimeout bounds one publication's insert transaction.
const importTxTimeout = 30 * time.Second

func newImportCmd() *cobra.Command {
	var opts importer.Options

	cmd := &cobra.Command{
		Use:   "import <file.xml>",
		Short: "Load a DBLP-style XML dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var adder importer.Adder
			if !opts.DryRun {
				svc, cleanup, err := publicationService(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()
				adder = svc
			}

			report, err := importer.New(adder, opts).Run(cmd.Context(), f)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(report); encErr != nil {
				return encErr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.SkipExisting, "skip-existing", false, "skip publications whose id already exists")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "parse and validate without writing")

	return cmd
}

// publicationService wires the same write path the API uses.
func publicationService(ctx context.Context) (service.PublicationService, func(), error) {
	db, err := connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := database.EnsureSchema(ctx, db.Pool); err != nil {
		db.Close()
		return nil, nil, err
	}

	cfg := db.Config
	pubs := repository.NewPublicationRepository(db.Pool, cfg.StatementTimeout)
	authors := repository.NewAuthorRepository(db.Pool, cfg.StatementTimeout)
	tx := repository.NewTxManager(db.Pool, cfg.StatementTimeout, importTxTimeout)

	return service.NewPublicationService(pubs, authors, tx), func() { db.Close() }, nil
}
