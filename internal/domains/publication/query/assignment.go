package query

import "strings"

// Changes holds the scalar publication fields an update may set.
type Changes struct {
	Title   *string
	Year    *int
	Journal *string
}

func (c Changes) IsEmpty() bool {
	return c.Title == nil && c.Year == nil && c.Journal == nil
}

func (p *params) assignments(c Changes) string {
	sets := make([]string, 0, 3)
	if c.Title != nil {
		sets = append(sets, "title = "+p.add(*c.Title))
	}
	if c.Year != nil {
		sets = append(sets, "year = "+p.add(*c.Year))
	}
	if c.Journal != nil {
		sets = append(sets, "journal = "+p.add(*c.Journal))
	}
	return strings.Join(sets, ", ")
}

// Assignments renders the SET list in title, year, journal order.
func Assignments(c Changes) (string, []any) {
	p := &params{}
	list := p.assignments(c)
	return list, p.args
}

// BuildUpdate builds the scalar update for one publication.
// ok is false when there is nothing to set; callers must skip the statement.
func BuildUpdate(pubID int64, c Changes) (stmt Statement, ok bool) {
	if c.IsEmpty() {
		return Statement{}, false
	}

	p := &params{}
	list := p.assignments(c)
	where := p.add(pubID)

	return Statement{
		SQL:  "UPDATE publications SET " + list + " WHERE pub_id = " + where,
		Args: p.args,
	}, true
}
