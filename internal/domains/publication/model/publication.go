package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Publication is a stored publication with its authors attached at read time.
type Publication struct {
	PubID   int64    `json:"pub_id"`
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Journal string   `json:"journal"`
	Pages   string   `json:"pages"`
	Authors []string `json:"authors"`
}

// Number accepts a JSON number or a numeric string ("2017" and 2017 decode the same).
type Number int64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return n.UnmarshalParam(s)
	}

	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("expected an integer, got %s", data)
	}
	*n = Number(v)
	return nil
}

// UnmarshalParam lets gin bind Number from query strings and form values.
func (n *Number) UnmarshalParam(param string) error {
	v, err := strconv.ParseInt(strings.TrimSpace(param), 10, 64)
	if err != nil {
		return fmt.Errorf("expected an integer, got %q", param)
	}
	*n = Number(v)
	return nil
}

func (n Number) Int() int { return int(n) }

func (n Number) Int64() int64 { return int64(n) }

// AddResult is returned by Add.
type AddResult struct {
	Added       bool         `json:"added"`
	Publication *Publication `json:"publication"`
}

// UpdateResult is returned by Update.
type UpdateResult struct {
	Updated     bool         `json:"updated"`
	Publication *Publication `json:"publication"`
}

type RemoveByIDResult struct {
	Removed bool  `json:"removed"`
	ID      int64 `json:"id"`
}

type RemoveByFilterResult struct {
	Removed        bool  `json:"removed"`
	TotalDeletions int64 `json:"total_deletions"`
}

type RemoveAuthorResult struct {
	Removed      bool         `json:"removed"`
	Name         string       `json:"name"`
	RemovedCount int64        `json:"removed_count"`
	Publication  *Publication `json:"publication"`
}

// QueryByIDResult has TotalFound 0 and a nil Publication when the id is unknown.
type QueryByIDResult struct {
	TotalFound  int          `json:"total_found"`
	Publication *Publication `json:"publication"`
}

type SearchResult struct {
	TotalFound   int           `json:"total_found"`
	Publications []Publication `json:"publications"`
}
