package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"publications-backend/internal/domains/publication/query"
)

const (
	maxTitleLength   = 200
	maxJournalLength = 200
	maxPagesLength   = 100
	maxAuthorLength  = 100
)

// AddPublicationRequest - POST /publications/add
type AddPublicationRequest struct {
	ID      Number   `json:"id" form:"id" binding:"required"`
	Title   string   `json:"title" form:"title"`
	Year    Number   `json:"year" form:"year"`
	Journal string   `json:"journal" form:"journal"`
	Pages   string   `json:"pages" form:"pages"`
	Authors []string `json:"authors" form:"authors"`
}

func (r AddPublicationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID,
			validation.Required.Error("id is required"),
			validation.Min(Number(1)).Error("id must be a positive integer"),
		),
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, maxTitleLength),
		),
		validation.Field(&r.Year,
			validation.Required.Error("year is required"),
		),
		validation.Field(&r.Journal, validation.Length(0, maxJournalLength)),
		validation.Field(&r.Pages, validation.Length(0, maxPagesLength)),
		validation.Field(&r.Authors,
			validation.Each(
				validation.Required.Error("author name must not be empty"),
				validation.Length(1, maxAuthorLength),
			),
		),
	)
}

// ToPublication converts the request into the entity to insert.
func (r AddPublicationRequest) ToPublication() *Publication {
	authors := make([]string, len(r.Authors))
	copy(authors, r.Authors)

	return &Publication{
		PubID:   r.ID.Int64(),
		Title:   r.Title,
		Year:    r.Year.Int(),
		Journal: r.Journal,
		Pages:   r.Pages,
		Authors: authors,
	}
}

// AuthorChange adds NewAuthor, or renames OldAuthor to NewAuthor when OldAuthor is present.
type AuthorChange struct {
	OldAuthor *string `json:"old_author" form:"old_author"`
	NewAuthor *string `json:"new_author" form:"new_author"`
}

// UpdatePublicationRequest - PUT /publications/update/:pub_id
type UpdatePublicationRequest struct {
	Title   *string       `json:"title" form:"title"`
	Year    *Number       `json:"year" form:"year"`
	Journal *string       `json:"journal" form:"journal"`
	Author  *AuthorChange `json:"author" form:"-"`
}

func (r UpdatePublicationRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, maxTitleLength)),
		validation.Field(&r.Journal, validation.Length(0, maxJournalLength)),
	); err != nil {
		return err
	}

	if r.Author == nil {
		return nil
	}
	a := *r.Author
	return validation.ValidateStruct(&a,
		validation.Field(&a.NewAuthor,
			validation.When(a.NewAuthor != nil,
				validation.Required.Error("new_author must not be empty"),
				validation.Length(1, maxAuthorLength),
			),
		),
		validation.Field(&a.OldAuthor, validation.Length(0, maxAuthorLength)),
	)
}

// Changes returns the scalar part of the update.
func (r UpdatePublicationRequest) Changes() query.Changes {
	c := query.Changes{Title: r.Title, Journal: r.Journal}
	if r.Year != nil {
		y := r.Year.Int()
		c.Year = &y
	}
	return c
}

// RemoveFilterRequest - DELETE /publications/remove
type RemoveFilterRequest struct {
	Title   *string `json:"title" form:"title"`
	Author  *string `json:"author" form:"author"`
	Year    *Number `json:"year" form:"year"`
	Journal *string `json:"journal" form:"journal"`
}

func (r RemoveFilterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, maxTitleLength)),
		validation.Field(&r.Author, validation.Length(0, maxAuthorLength)),
		validation.Field(&r.Journal, validation.Length(0, maxJournalLength)),
	)
}

// Filter converts the request into a removal filter. Year is always compared with "=".
func (r RemoveFilterRequest) Filter() query.Filter {
	f := query.Filter{Title: r.Title, Author: r.Author, Journal: r.Journal}
	if r.Year != nil {
		y := r.Year.Int()
		f.Year = &y
	}
	return f
}

// SearchRequest - GET /publications/search
type SearchRequest struct {
	Title      *string `form:"title"`
	Year       *int    `form:"year"`
	YearOp     *int    `form:"year_op"`
	Journal    *string `form:"journal"`
	Author     *string `form:"author"`
	SortBy     *string `form:"sort_by"`
	Descending *bool   `form:"descending"`
	Limit      *int    `form:"limit"`
}

func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, maxTitleLength)),
		validation.Field(&r.Author, validation.Length(0, maxAuthorLength)),
		validation.Field(&r.Journal, validation.Length(0, maxJournalLength)),
	)
}

// Search converts the request. A missing year_op means "=".
func (r SearchRequest) Search() query.Search {
	s := query.Search{
		Filter: query.Filter{
			Title:   r.Title,
			Author:  r.Author,
			Journal: r.Journal,
			Year:    r.Year,
		},
		SortBy: r.SortBy,
		Limit:  r.Limit,
	}
	if r.YearOp != nil {
		s.YearOp = query.YearOp(*r.YearOp)
	}
	if r.Descending != nil {
		s.Descending = *r.Descending
	}
	return s
}
