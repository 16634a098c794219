package service

import (
	"context"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/internal/domains/publication/query"
)

// PublicationService holds the write operations on publications and their authors.
type PublicationService interface {
	Add(ctx context.Context, req model.AddPublicationRequest) (*model.AddResult, error)
	Update(ctx context.Context, pubID int64, req model.UpdatePublicationRequest) (*model.UpdateResult, error)
	RemoveByID(ctx context.Context, pubID int64) (*model.RemoveByIDResult, error)
	RemoveByFilter(ctx context.Context, filter query.Filter) (*model.RemoveByFilterResult, error)
	RemoveAuthor(ctx context.Context, pubID int64, name string) (*model.RemoveAuthorResult, error)
}

// SearchService holds the read operations.
type SearchService interface {
	QueryByID(ctx context.Context, pubID int64) (*model.QueryByIDResult, error)
	QueryBy(ctx context.Context, s query.Search) (*model.SearchResult, error)
}
