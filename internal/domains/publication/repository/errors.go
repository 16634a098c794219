package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/internal/domains/publication/query"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgQueryCanceled       = "57014"
)

// classify converts a driver error into the domain taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w", op, model.ErrStorageTimeout)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, model.ErrDuplicateID)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, model.ErrPublicationNotFound)
		case pgQueryCanceled:
			// statement_timeout
			return fmt.Errorf("%s: %w", op, model.ErrStorageTimeout)
		}
	}

	return &model.StorageError{Op: op, Err: err}
}

// isClassified reports whether err already belongs to the domain taxonomy.
func isClassified(err error) bool {
	var storageErr *model.StorageError
	var cfgErr *query.ConfigurationError
	return errors.As(err, &storageErr) ||
		errors.As(err, &cfgErr) ||
		errors.Is(err, model.ErrStorageTimeout) ||
		errors.Is(err, model.ErrDuplicateID) ||
		errors.Is(err, model.ErrPublicationNotFound) ||
		errors.Is(err, model.ErrInvalidID)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
