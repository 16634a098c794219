package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignments(t *testing.T) {
	tests := []struct {
		name     string
		changes  Changes
		wantList string
		wantArgs []any
	}{
		{"title only", Changes{Title: strPtr("New")}, "title = $1", []any{"New"}},
		{"year only", Changes{Year: intPtr(2020)}, "year = $1", []any{2020}},
		{"journal and title keep order", Changes{Journal: strPtr("J"), Title: strPtr("T")}, "title = $1, journal = $2", []any{"T", "J"}},
		{"all", Changes{Title: strPtr("T"), Year: intPtr(1), Journal: strPtr("J")}, "title = $1, year = $2, journal = $3", []any{"T", 1, "J"}},
		{"empty title still assigned", Changes{Title: strPtr("")}, "title = $1", []any{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, args := Assignments(tt.changes)
			assert.Equal(t, tt.wantList, list)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildUpdate(t *testing.T) {
	stmt, ok := BuildUpdate(42, Changes{Title: strPtr("Renamed"), Year: intPtr(2018)})
	assert.True(t, ok)
	assert.Equal(t, "UPDATE publications SET title = $1, year = $2 WHERE pub_id = $3", stmt.SQL)
	assert.Equal(t, []any{"Renamed", 2018, int64(42)}, stmt.Args)
}

func TestBuildUpdate_NoFieldsIsNoop(t *testing.T) {
	stmt, ok := BuildUpdate(42, Changes{})
	assert.False(t, ok)
	assert.Empty(t, stmt.SQL)
	assert.Nil(t, stmt.Args)
}
