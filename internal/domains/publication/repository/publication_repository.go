package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/internal/domains/publication/query"
	"publications-backend/pkg/database"
)

// postgresPublicationRepository runs against the pool or a transaction.
// Every call is bounded by timeout.
type postgresPublicationRepository struct {
	db      database.DBTX
	timeout time.Duration
}

func NewPublicationRepository(db database.DBTX, timeout time.Duration) PublicationRepository {
	return &postgresPublicationRepository{db: db, timeout: timeout}
}

func (r *postgresPublicationRepository) Exists(ctx context.Context, pubID int64) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM publications WHERE pub_id = $1)`, pubID).Scan(&exists)
	if err != nil {
		return false, classify("check publication", err)
	}
	return exists, nil
}

func (r *postgresPublicationRepository) Insert(ctx context.Context, pub *model.Publication) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
        INSERT INTO publications (pub_id, title, year, journal, pages)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.db.Exec(ctx, query, pub.PubID, pub.Title, pub.Year, pub.Journal, pub.Pages)
	return classify("insert publication", err)
}

func (r *postgresPublicationRepository) GetByID(ctx context.Context, pubID int64) (*model.Publication, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
        SELECT pub_id, title, year, journal, pages
        FROM publications
        WHERE pub_id = $1
    `

	var p model.Publication
	err := r.db.QueryRow(ctx, query, pubID).Scan(&p.PubID, &p.Title, &p.Year, &p.Journal, &p.Pages)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPublicationNotFound
		}
		return nil, classify("get publication", err)
	}

	return &p, nil
}

func (r *postgresPublicationRepository) Search(ctx context.Context, s query.Search) ([]model.Publication, error) {
	stmt, err := query.BuildSearch(s)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, classify("search publications", err)
	}
	defer rows.Close()

	pubs := make([]model.Publication, 0)
	for rows.Next() {
		var p model.Publication
		if err := rows.Scan(&p.PubID, &p.Title, &p.Year, &p.Journal, &p.Pages); err != nil {
			return nil, classify("scan publication", err)
		}
		pubs = append(pubs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("search publications", err)
	}

	return pubs, nil
}

func (r *postgresPublicationRepository) Update(ctx context.Context, pubID int64, changes query.Changes) (int64, error) {
	stmt, ok := query.BuildUpdate(pubID, changes)
	if !ok {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, classify("update publication", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresPublicationRepository) DeleteByID(ctx context.Context, pubID int64) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM publications WHERE pub_id = $1`, pubID)
	if err != nil {
		return 0, classify("delete publication", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresPublicationRepository) CountByFilter(ctx context.Context, f query.Filter) (int64, error) {
	stmt, err := query.BuildCount(f)
	if err != nil {
		return 0, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	if err := r.db.QueryRow(ctx, stmt.SQL, stmt.Args...).Scan(&count); err != nil {
		return 0, classify("count publications", err)
	}
	return count, nil
}

func (r *postgresPublicationRepository) DeleteByFilter(ctx context.Context, f query.Filter) (int64, error) {
	stmt, err := query.BuildDelete(f)
	if err != nil {
		return 0, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, classify("delete publications", err)
	}
	return tag.RowsAffected(), nil
}
