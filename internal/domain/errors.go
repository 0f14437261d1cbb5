package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is; every typed error below matches exactly one of them.
var (
	ErrConnection = errors.New("store connection failed")
	ErrStorage    = errors.New("store operation failed")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid review")
)

// ConnectionError means the store could not be reached, authenticated against,
// or answered within the timeout. Callers may retry after a backoff.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrConnection, e.Err)
}
func (e *ConnectionError) Unwrap() error        { return e.Err }
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// StorageError means the store rejected or failed a read or write for a
// reason other than connectivity.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStorage, e.Err)
}
func (e *StorageError) Unwrap() error        { return e.Err }
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

type NotFoundError struct {
	ID ReviewID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("review %q: %v", string(e.ID), ErrNotFound)
}
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// FieldError describes one rejected field, named as it is persisted.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a single-field ValidationError.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}
