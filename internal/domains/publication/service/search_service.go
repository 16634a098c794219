package service

import (
	"context"
	"errors"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/internal/domains/publication/query"
	"publications-backend/internal/domains/publication/repository"
)

type searchService struct {
	pubs    repository.PublicationRepository
	authors repository.AuthorRepository
}

func NewSearchService(pubs repository.PublicationRepository, authors repository.AuthorRepository) SearchService {
	return &searchService{pubs: pubs, authors: authors}
}

// QueryByID returns total_found 0 and no publication for an unknown id rather than an error.
func (s *searchService) QueryByID(ctx context.Context, pubID int64) (*model.QueryByIDResult, error) {
	pub, err := readPublication(ctx, s.pubs, s.authors, pubID)
	if errors.Is(err, model.ErrPublicationNotFound) {
		return &model.QueryByIDResult{TotalFound: 0}, nil
	}
	if err != nil {
		return nil, err
	}

	return &model.QueryByIDResult{TotalFound: 1, Publication: pub}, nil
}

func (s *searchService) QueryBy(ctx context.Context, search query.Search) (*model.SearchResult, error) {
	pubs, err := s.pubs.Search(ctx, search)
	if err != nil {
		return nil, err
	}

	if err := s.authors.AttachAuthors(ctx, pubs); err != nil {
		return nil, err
	}

	return &model.SearchResult{TotalFound: len(pubs), Publications: pubs}, nil
}

// readPublication loads a publication with its authors.
func readPublication(ctx context.Context, pubs repository.PublicationRepository, authors repository.AuthorRepository, pubID int64) (*model.Publication, error) {
	pub, err := pubs.GetByID(ctx, pubID)
	if err != nil {
		return nil, err
	}

	names, err := authors.ListAuthors(ctx, pubID)
	if err != nil {
		return nil, err
	}
	pub.Authors = names

	return pub, nil
}
