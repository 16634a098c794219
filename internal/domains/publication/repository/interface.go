package repository

import (
	"context"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/internal/domains/publication/query"
)

// PublicationRepository reads and writes the publications table.
type PublicationRepository interface {
	Exists(ctx context.Context, pubID int64) (bool, error)
	Insert(ctx context.Context, pub *model.Publication) error
	// GetByID returns the publication without authors, or model.ErrPublicationNotFound.
	GetByID(ctx context.Context, pubID int64) (*model.Publication, error)
	// Search returns publications without authors, in the order the search asks for.
	Search(ctx context.Context, s query.Search) ([]model.Publication, error)
	// Update applies the scalar changes. It returns 0 without touching the database when there are none.
	Update(ctx context.Context, pubID int64, changes query.Changes) (int64, error)
	DeleteByID(ctx context.Context, pubID int64) (int64, error)
	CountByFilter(ctx context.Context, f query.Filter) (int64, error)
	DeleteByFilter(ctx context.Context, f query.Filter) (int64, error)
}

// AuthorRepository reads and writes the authors table.
type AuthorRepository interface {
	// ListAuthors returns the distinct names of a publication in first-insertion order.
	ListAuthors(ctx context.Context, pubID int64) ([]string, error)
	// AttachAuthors fills Authors on every publication with one query.
	AttachAuthors(ctx context.Context, pubs []model.Publication) error
	AddAuthor(ctx context.Context, pubID int64, name string) error
	// AddAuthors inserts names in order. Duplicates are kept.
	AddAuthors(ctx context.Context, pubID int64, names []string) error
	RenameAuthor(ctx context.Context, pubID int64, oldName, newName string) (int64, error)
	RemoveAuthor(ctx context.Context, pubID int64, name string) (int64, error)
}

// TxFunc receives repositories bound to the running transaction.
type TxFunc func(ctx context.Context, pubs PublicationRepository, authors AuthorRepository) error

// TxManager runs multi-statement writes atomically.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn TxFunc) error
}
