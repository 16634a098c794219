package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/internal/domains/publication/query"
	"publications-backend/internal/domains/publication/repository"
)

type publicationService struct {
	pubs    repository.PublicationRepository
	authors repository.AuthorRepository
	tx      repository.TxManager
}

// NewPublicationService wires the service. pubs and authors serve the reads after commit;
// every multi-statement write goes through tx.
func NewPublicationService(
	pubs repository.PublicationRepository,
	authors repository.AuthorRepository,
	tx repository.TxManager,
) PublicationService {
	return &publicationService{pubs: pubs, authors: authors, tx: tx}
}

// Add inserts the publication and its authors atomically, then returns the stored row.
func (s *publicationService) Add(ctx context.Context, req model.AddPublicationRequest) (*model.AddResult, error) {
	pub := req.ToPublication()
	if pub.PubID <= 0 {
		return nil, model.ErrInvalidID
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, pubs repository.PublicationRepository, authors repository.AuthorRepository) error {
		exists, err := pubs.Exists(ctx, pub.PubID)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrDuplicateID
		}

		if err := pubs.Insert(ctx, pub); err != nil {
			return err
		}
		return authors.AddAuthors(ctx, pub.PubID, pub.Authors)
	})
	if err != nil {
		return nil, fmt.Errorf("add publication %d: %w", pub.PubID, err)
	}

	stored, err := readPublication(ctx, s.pubs, s.authors, pub.PubID)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("pub_id", pub.PubID).Int("authors", len(pub.Authors)).Msg("Publication added")
	return &model.AddResult{Added: true, Publication: stored}, nil
}

// Update applies scalar changes and at most one author change in one transaction.
// A new author without an old one is added; with an old one every matching row is renamed.
func (s *publicationService) Update(ctx context.Context, pubID int64, req model.UpdatePublicationRequest) (*model.UpdateResult, error) {
	if pubID <= 0 {
		return nil, model.ErrInvalidID
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, pubs repository.PublicationRepository, authors repository.AuthorRepository) error {
		exists, err := pubs.Exists(ctx, pubID)
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrPublicationNotFound
		}

		if _, err := pubs.Update(ctx, pubID, req.Changes()); err != nil {
			return err
		}

		if req.Author == nil || req.Author.NewAuthor == nil {
			return nil
		}
		if req.Author.OldAuthor == nil {
			return authors.AddAuthor(ctx, pubID, *req.Author.NewAuthor)
		}

		renamed, err := authors.RenameAuthor(ctx, pubID, *req.Author.OldAuthor, *req.Author.NewAuthor)
		if err != nil {
			return err
		}
		if renamed == 0 {
			log.Debug().Int64("pub_id", pubID).Str("old_author", *req.Author.OldAuthor).Msg("Rename matched no author")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update publication %d: %w", pubID, err)
	}

	stored, err := readPublication(ctx, s.pubs, s.authors, pubID)
	if err != nil {
		return nil, err
	}

	return &model.UpdateResult{Updated: true, Publication: stored}, nil
}

// RemoveByID deletes one publication. Its authors go with it through the cascade.
func (s *publicationService) RemoveByID(ctx context.Context, pubID int64) (*model.RemoveByIDResult, error) {
	if pubID <= 0 {
		return nil, model.ErrInvalidID
	}

	deleted, err := s.pubs.DeleteByID(ctx, pubID)
	if err != nil {
		return nil, fmt.Errorf("remove publication %d: %w", pubID, err)
	}
	if deleted == 0 {
		return nil, model.ErrPublicationNotFound
	}

	log.Info().Int64("pub_id", pubID).Msg("Publication removed")
	return &model.RemoveByIDResult{Removed: true, ID: pubID}, nil
}

// RemoveByFilter counts the matches first and only deletes when there are any.
// An empty filter is rejected before any statement runs.
func (s *publicationService) RemoveByFilter(ctx context.Context, filter query.Filter) (*model.RemoveByFilterResult, error) {
	if filter.IsEmpty() {
		return nil, model.ErrNoFilterFields
	}

	result := &model.RemoveByFilterResult{}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, pubs repository.PublicationRepository, _ repository.AuthorRepository) error {
		count, err := pubs.CountByFilter(ctx, filter)
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}

		deleted, err := pubs.DeleteByFilter(ctx, filter)
		if err != nil {
			return err
		}
		result.Removed = deleted > 0
		result.TotalDeletions = deleted
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("remove publications: %w", err)
	}

	log.Info().Int64("total_deletions", result.TotalDeletions).Msg("Publications removed by filter")
	return result, nil
}

// RemoveAuthor deletes every author row of the publication with exactly this name.
func (s *publicationService) RemoveAuthor(ctx context.Context, pubID int64, name string) (*model.RemoveAuthorResult, error) {
	if pubID <= 0 {
		return nil, model.ErrInvalidID
	}

	var removed int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, pubs repository.PublicationRepository, authors repository.AuthorRepository) error {
		exists, err := pubs.Exists(ctx, pubID)
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrPublicationNotFound
		}

		removed, err = authors.RemoveAuthor(ctx, pubID, name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("remove author from %d: %w", pubID, err)
	}

	stored, err := readPublication(ctx, s.pubs, s.authors, pubID)
	if err != nil {
		return nil, err
	}

	return &model.RemoveAuthorResult{
		Removed:      removed > 0,
		Name:         name,
		RemovedCount: removed,
		Publication:  stored,
	}, nil
}
