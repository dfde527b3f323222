// Package services holds the storefront's business rules. Controllers,
// the GraphQL schema and the CLI all go through these types.
package services

import (
	"errors"
	"fmt"

	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/pkg/validate"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError is a rejected input. Message is shown to the user;
// Fields maps JSON field names to per-field messages.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// UploadRejectedError explains why an upload was refused.
type UploadRejectedError struct {
	Reason string
}

func (e *UploadRejectedError) Error() string { return e.Reason }

// invalid builds a ValidationError from validate.Struct output. An empty
// message falls back to the first field message.
func invalid(message string, fields map[string]string) error {
	if message == "" {
		message = validate.Summary(fields)
	}
	return &ValidationError{Message: message, Fields: fields}
}

// check validates v and returns a *ValidationError, or nil.
func check(v interface{}, message string) error {
	if errs := validate.Struct(v); validate.HasErrors(errs) {
		return invalid(message, errs)
	}
	return nil
}

// notFound maps the repository sentinel onto ErrNotFound with context.
func notFound(err error, what, key string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s %q: %w", what, key, ErrNotFound)
	}
	return err
}
