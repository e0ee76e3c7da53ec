package repositories

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCredentials is returned by Authenticate for a bad email/password
// pair or an inactive account. It is deliberately indistinct between the two.
var ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")

// NotFoundError represents an entity not found error. Rows owned by another
// user surface as this same error so existence is never leaked.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", nfe.Entity, nfe.ID)
}

// ValidationError represents a malformed field rejected before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", ve.Field, ve.Message)
}

// ConflictError represents a data conflict error.
type ConflictError struct {
	Entity string
	Field  string
	Value  interface{}
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %v already exists", ce.Entity, ce.Field, ce.Value)
}

// isUniqueViolation sniffs driver errors for unique constraint failures.
// Covers pgdriver ("duplicate key value violates unique constraint") and
// modernc sqlite ("UNIQUE constraint failed").
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
