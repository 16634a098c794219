package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the publication and author tables.
// Authors reference publications with ON DELETE CASCADE so removing a publication removes its author rows.
const Schema = `
CREATE TABLE IF NOT EXISTS publications (
    pub_id  BIGINT PRIMARY KEY,
    title   VARCHAR(200) NOT NULL,
    year    INT NOT NULL,
    journal VARCHAR(200) NOT NULL DEFAULT '',
    pages   VARCHAR(100) NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS authors (
    author_id BIGSERIAL PRIMARY KEY,
    pub_id    BIGINT NOT NULL REFERENCES publications(pub_id) ON DELETE CASCADE,
    name      VARCHAR(100) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_authors_pub_id ON authors(pub_id);
CREATE INDEX IF NOT EXISTS idx_authors_name ON authors(name);
`

// EnsureSchema applies Schema. Every statement is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
