package query

// ConfigurationError reports input a statement cannot be built from.
// Nothing is sent to the database when a builder returns one.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

var (
	ErrNoFilterFields   = &ConfigurationError{Message: "at least one of title, author, year or journal is required"}
	ErrInvalidSortField = &ConfigurationError{Field: "sort_by", Message: "must be one of pub_id, title, year, journal"}
	ErrInvalidLimit     = &ConfigurationError{Field: "limit", Message: "must be a positive integer"}
)
