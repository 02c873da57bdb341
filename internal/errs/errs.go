// Package errs defines the domain error taxonomy shared by services and
// handlers. Handlers map these to HTTP status codes with errors.Is.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a referenced entity that is absent on get/update/delete
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument marks a structurally invalid request, e.g. an update
	// with no fields to change or a malformed recurrence rule
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyExists marks duplicate creation, e.g. a second trial for a profile
	ErrAlreadyExists = errors.New("already exists")
)

// NotFound wraps ErrNotFound with the entity name and id
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

// InvalidArgument wraps ErrInvalidArgument with a reason
func InvalidArgument(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInvalidArgument)
}

// PartialFailure collects non-fatal side-effect failures attached to an
// otherwise successful operation, e.g. stock decrements that could not be
// applied while the alarm log itself was persisted. It is reported as a
// warning, never as a rejected request.
type PartialFailure struct {
	Warnings []string
}

func (e *PartialFailure) Error() string {
	return "partial failure: " + strings.Join(e.Warnings, "; ")
}

// Add records one failed side effect
func (e *PartialFailure) Add(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}
