package model

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"publications-backend/internal/domains/publication/query"
	"publications-backend/internal/shared/response"
)

var (
	ErrPublicationNotFound = errors.New("publication not found")
	ErrDuplicateID         = errors.New("a publication with this id already exists")
	ErrInvalidID           = errors.New("pub_id must be a positive integer")
	ErrStorageTimeout      = errors.New("storage operation timed out")

	// Builder errors. All of them are *query.ConfigurationError.
	ErrNoFilterFields   = query.ErrNoFilterFields
	ErrInvalidSortField = query.ErrInvalidSortField
	ErrInvalidLimit     = query.ErrInvalidLimit
)

// StorageError wraps a failure reported by the database engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

var publicationErrorMap = []struct {
	Err     error
	Status  int
	Code    string
	Message string
}{
	{ErrPublicationNotFound, http.StatusNotFound, "PUB_NOT_FOUND", "The specified publication does not exist"},
	{ErrDuplicateID, http.StatusConflict, "PUB_DUPLICATE_ID", "A publication with this id already exists"},
	{ErrInvalidID, http.StatusBadRequest, "PUB_INVALID_ID", "pub_id must be a positive integer"},
	{ErrNoFilterFields, http.StatusBadRequest, "PUB_NO_FILTER", ErrNoFilterFields.Error()},
	{ErrInvalidSortField, http.StatusBadRequest, "PUB_INVALID_SORT", ErrInvalidSortField.Error()},
	{ErrInvalidLimit, http.StatusBadRequest, "PUB_INVALID_LIMIT", ErrInvalidLimit.Error()},
	{ErrStorageTimeout, http.StatusGatewayTimeout, "STORAGE_TIMEOUT", "The database did not answer in time"},
}

// ToHTTPStatus maps a service error to its HTTP status code.
func ToHTTPStatus(err error) int {
	for _, e := range publicationErrorMap {
		if errors.Is(err, e.Err) {
			return e.Status
		}
	}
	var cfgErr *query.ConfigurationError
	if errors.As(err, &cfgErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// HandlePublicationError writes the error response for err and reports whether it did.
func HandlePublicationError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for _, e := range publicationErrorMap {
		if errors.Is(err, e.Err) {
			response.ErrorResponse(c, e.Status, e.Code, e.Message)
			return true
		}
	}

	var cfgErr *query.ConfigurationError
	if errors.As(err, &cfgErr) {
		response.ErrorResponse(c, http.StatusBadRequest, "PUB_INVALID_REQUEST", cfgErr.Error())
		return true
	}

	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Str("op", storageErr.Op).Msg("Storage error")
		response.ErrorResponse(c, http.StatusInternalServerError, "STORAGE_ERROR", "The database rejected the operation")
		return true
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Unhandled publication error")
	response.InternalServerError(c, "Internal server error")
	return true
}
