package query

import (
	"fmt"
	"strings"
)

// YearOp selects the comparison applied to the year field.
type YearOp int

const (
	YearEQ YearOp = iota
	YearLT
	YearGT
	YearLE
	YearGE
)

// SQL returns the comparison operator. Unknown values compare with "=".
func (op YearOp) SQL() string {
	switch op {
	case YearLT:
		return "<"
	case YearGT:
		return ">"
	case YearLE:
		return "<="
	case YearGE:
		return ">="
	default:
		return "="
	}
}

// PatternMode controls how title, journal and author values are bound to LIKE.
type PatternMode int

const (
	// PatternAsGiven binds the caller's value verbatim (removal paths).
	PatternAsGiven PatternMode = iota
	// PatternWrapped binds %value% so the value matches as a substring (search paths).
	PatternWrapped
)

func (m PatternMode) apply(v string) string {
	if m == PatternWrapped {
		return "%" + v + "%"
	}
	return v
}

// AuthorMatch controls how the author predicate reaches the authors table.
type AuthorMatch int

const (
	// AuthorJoin expects the statement to join authors as "a".
	AuthorJoin AuthorMatch = iota
	// AuthorSubquery restricts pub_id with a subquery, for statements that cannot join (DELETE).
	AuthorSubquery
)

// Field names a filterable publication attribute.
type Field string

const (
	FieldAuthor  Field = "author"
	FieldYear    Field = "year"
	FieldTitle   Field = "title"
	FieldJournal Field = "journal"
)

// Filter is a sparse set of optional criteria. A nil field does not participate;
// an empty string is a present value.
type Filter struct {
	Author  *string
	Title   *string
	Journal *string
	Year    *int
	YearOp  YearOp
}

// IsEmpty reports whether no field is present.
func (f Filter) IsEmpty() bool {
	return f.Author == nil && f.Title == nil && f.Journal == nil && f.Year == nil
}

// Predicate is one tagged WHERE fragment before placeholders are assigned.
type Predicate struct {
	Field Field
	Op    string
	Arg   any
}

// Predicates returns the present fields in author, year, title, journal order.
func (f Filter) Predicates(mode PatternMode) []Predicate {
	preds := make([]Predicate, 0, 4)

	if f.Author != nil {
		preds = append(preds, Predicate{Field: FieldAuthor, Op: "LIKE", Arg: mode.apply(*f.Author)})
	}
	if f.Year != nil {
		preds = append(preds, Predicate{Field: FieldYear, Op: f.YearOp.SQL(), Arg: *f.Year})
	}
	if f.Title != nil {
		preds = append(preds, Predicate{Field: FieldTitle, Op: "LIKE", Arg: mode.apply(*f.Title)})
	}
	if f.Journal != nil {
		preds = append(preds, Predicate{Field: FieldJournal, Op: "LIKE", Arg: mode.apply(*f.Journal)})
	}

	return preds
}

// params hands out positional placeholders in the order values are bound.
type params struct {
	args []any
}

func (p *params) add(v any) string {
	p.args = append(p.args, v)
	return fmt.Sprintf("$%d", len(p.args))
}

func (p *params) render(pred Predicate, author AuthorMatch) string {
	ph := p.add(pred.Arg)

	switch pred.Field {
	case FieldAuthor:
		if author == AuthorSubquery {
			return fmt.Sprintf("p.pub_id IN (SELECT a.pub_id FROM authors a WHERE a.name %s %s)", pred.Op, ph)
		}
		return fmt.Sprintf("a.name %s %s", pred.Op, ph)
	default:
		return fmt.Sprintf("p.%s %s %s", pred.Field, pred.Op, ph)
	}
}

func (p *params) where(preds []Predicate, author AuthorMatch) string {
	conditions := make([]string, 0, len(preds))
	for _, pred := range preds {
		conditions = append(conditions, p.render(pred, author))
	}
	return strings.Join(conditions, " AND ")
}

// Where renders the filter as a WHERE body (without the keyword) and its arguments.
// It returns an empty clause when no field is present.
func Where(f Filter, mode PatternMode, author AuthorMatch) (string, []any) {
	p := &params{}
	clause := p.where(f.Predicates(mode), author)
	return clause, p.args
}

// Statement is a parameterized SQL statement.
type Statement struct {
	SQL  string
	Args []any
}

// sortColumns is the allow-list for sort_by.
var sortColumns = map[string]string{
	"pub_id":  "p.pub_id",
	"title":   "p.title",
	"year":    "p.year",
	"journal": "p.journal",
}

// Search is a filter plus ordering and limit.
type Search struct {
	Filter
	SortBy     *string
	Descending bool
	Limit      *int
}

const selectColumns = "p.pub_id, p.title, p.year, p.journal, p.pages"

// BuildSearch builds the publication search. Patterns are wrapped as %value%.
// Results are ordered by pub_id unless sort_by names another column, in which case
// pub_id breaks ties.
func BuildSearch(s Search) (Statement, error) {
	orderBy, err := orderClause(s.SortBy, s.Descending)
	if err != nil {
		return Statement{}, err
	}
	if s.Limit != nil && *s.Limit <= 0 {
		return Statement{}, ErrInvalidLimit
	}

	p := &params{}
	preds := s.Filter.Predicates(PatternWrapped)

	parts := make([]string, 0, 6)
	if s.Author != nil {
		parts = append(parts,
			"SELECT DISTINCT "+selectColumns,
			"FROM publications p JOIN authors a ON a.pub_id = p.pub_id",
		)
	} else {
		parts = append(parts,
			"SELECT "+selectColumns,
			"FROM publications p",
		)
	}

	if len(preds) > 0 {
		parts = append(parts, "WHERE "+p.where(preds, AuthorJoin))
	}

	parts = append(parts, "ORDER BY "+orderBy)

	if s.Limit != nil {
		parts = append(parts, "LIMIT "+p.add(*s.Limit))
	}

	return Statement{SQL: strings.Join(parts, " "), Args: p.args}, nil
}

func orderClause(sortBy *string, descending bool) (string, error) {
	direction := "ASC"
	if descending {
		direction = "DESC"
	}

	if sortBy == nil || *sortBy == "" {
		return "p.pub_id " + direction, nil
	}

	column, ok := sortColumns[*sortBy]
	if !ok {
		return "", ErrInvalidSortField
	}
	if column == "p.pub_id" {
		return column + " " + direction, nil
	}
	return column + " " + direction + ", p.pub_id ASC", nil
}

// BuildCount counts the publications a removal filter matches. Patterns are used as given.
func BuildCount(f Filter) (Statement, error) {
	return buildRemoval("SELECT COUNT(*) FROM publications p", f)
}

// BuildDelete deletes the publications a removal filter matches. Patterns are used as given.
// An empty filter is rejected so the table is never deleted unconditionally.
func BuildDelete(f Filter) (Statement, error) {
	return buildRemoval("DELETE FROM publications p", f)
}

func buildRemoval(head string, f Filter) (Statement, error) {
	if f.IsEmpty() {
		return Statement{}, ErrNoFilterFields
	}

	clause, args := Where(f, PatternAsGiven, AuthorSubquery)
	return Statement{SQL: head + " WHERE " + clause, Args: args}, nil
}
