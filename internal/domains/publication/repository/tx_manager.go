package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"publications-backend/pkg/database"
)

type pgTxManager struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
	txTimeout    time.Duration
}

// NewTxManager returns a TxManager over pool. queryTimeout bounds each statement,
// txTimeout bounds the whole transaction including commit.
func NewTxManager(pool *pgxpool.Pool, queryTimeout, txTimeout time.Duration) TxManager {
	return &pgTxManager{pool: pool, queryTimeout: queryTimeout, txTimeout: txTimeout}
}

func (m *pgTxManager) WithinTransaction(ctx context.Context, fn TxFunc) error {
	ctx, cancel := withTimeout(ctx, m.txTimeout)
	defer cancel()

	err := database.WithTransaction(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(ctx,
			NewPublicationRepository(tx, m.queryTimeout),
			NewAuthorRepository(tx, m.queryTimeout),
		)
	})
	if err == nil || isClassified(err) {
		return err
	}
	return classify("transaction", err)
}
