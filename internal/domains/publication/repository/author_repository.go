package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/pkg/database"
)

type postgresAuthorRepository struct {
	db      database.DBTX
	timeout time.Duration
}

func NewAuthorRepository(db database.DBTX, timeout time.Duration) AuthorRepository {
	return &postgresAuthorRepository{db: db, timeout: timeout}
}

func (r *postgresAuthorRepository) ListAuthors(ctx context.Context, pubID int64) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
        SELECT name
        FROM authors
        WHERE pub_id = $1
        GROUP BY name
        ORDER BY MIN(author_id)
    `
	rows, err := r.db.Query(ctx, query, pubID)
	if err != nil {
		return nil, classify("list authors", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, classify("scan author", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list authors", err)
	}

	return names, nil
}

// AttachAuthors loads the authors of every publication in one round trip.
// The result per publication matches ListAuthors.
func (r *postgresAuthorRepository) AttachAuthors(ctx context.Context, pubs []model.Publication) error {
	if len(pubs) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(pubs))
	for _, p := range pubs {
		ids = append(ids, p.PubID)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
        SELECT pub_id, name
        FROM authors
        WHERE pub_id = ANY($1)
        ORDER BY pub_id, author_id
    `
	rows, err := r.db.Query(ctx, query, pq.Array(ids))
	if err != nil {
		return classify("attach authors", err)
	}
	defer rows.Close()

	byPub := make(map[int64][]string, len(pubs))
	seen := make(map[int64]map[string]struct{}, len(pubs))
	for rows.Next() {
		var (
			pubID int64
			name  string
		)
		if err := rows.Scan(&pubID, &name); err != nil {
			return classify("scan author", err)
		}

		if seen[pubID] == nil {
			seen[pubID] = make(map[string]struct{})
		}
		if _, dup := seen[pubID][name]; dup {
			continue
		}
		seen[pubID][name] = struct{}{}
		byPub[pubID] = append(byPub[pubID], name)
	}
	if err := rows.Err(); err != nil {
		return classify("attach authors", err)
	}

	for i := range pubs {
		names := byPub[pubs[i].PubID]
		if names == nil {
			names = []string{}
		}
		pubs[i].Authors = names
	}

	return nil
}

func (r *postgresAuthorRepository) AddAuthor(ctx context.Context, pubID int64, name string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `INSERT INTO authors (pub_id, name) VALUES ($1, $2)`, pubID, name)
	return classify("add author", err)
}

// AddAuthors queues one insert per name in a single batch; pgx executes them in order
// so author_id follows the order of names.
func (r *postgresAuthorRepository) AddAuthors(ctx context.Context, pubID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue(`INSERT INTO authors (pub_id, name) VALUES ($1, $2)`, pubID, name)
	}

	br := r.db.SendBatch(ctx, batch)
	for range names {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return classify("add authors", err)
		}
	}
	return classify("add authors", br.Close())
}

func (r *postgresAuthorRepository) RenameAuthor(ctx context.Context, pubID int64, oldName, newName string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE authors SET name = $1 WHERE pub_id = $2 AND name = $3`,
		newName, pubID, oldName,
	)
	if err != nil {
		return 0, classify("rename author", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresAuthorRepository) RemoveAuthor(ctx context.Context, pubID int64, name string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM authors WHERE pub_id = $1 AND name = $2`, pubID, name)
	if err != nil {
		return 0, classify("remove author", err)
	}
	return tag.RowsAffected(), nil
}
