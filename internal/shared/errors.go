package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the caller's role does not permit the action.
	ErrForbidden = errors.New("forbidden")
)

// ConfigurationError reports missing required settings, such as the company
// GSTIN or state code. It is surfaced to the user and never retried.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("configuration incomplete: %s is not set", e.Setting)
}

// NewConfigurationError builds a ConfigurationError for a named setting.
func NewConfigurationError(setting, message string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Message: message}
}

// InvalidStateError reports an operation attempted against an entity in the
// wrong state, e.g. sending an already-sent purchase order. The caller must
// change state before retrying.
type InvalidStateError struct {
	Entity string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
}

// NewInvalidStateError builds an InvalidStateError with a readable reason.
func NewInvalidStateError(entity, reason string) *InvalidStateError {
	return &InvalidStateError{Entity: entity, Reason: reason}
}

// ValidationError aggregates field-level messages so imports and forms can
// report every problem at once instead of failing on the first.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Add appends a formatted message to the aggregate.
func (e *ValidationError) Add(format string, args ...any) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any message was collected.
func (e *ValidationError) HasErrors() bool {
	return len(e.Messages) > 0
}

// OrNil returns the aggregate as an error, or nil when empty.
func (e *ValidationError) OrNil() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}

// PersistenceError wraps a storage failure. The original error is preserved
// for errors.Is/As.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// WrapPersistence annotates err with the failed operation, passing nil and
// not-found through unchanged.
func WrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// UserSafeMessage maps internal errors onto messages safe to show users.
func UserSafeMessage(err error) string {
	var cfgErr *ConfigurationError
	var stateErr *InvalidStateError
	var valErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The requested record was not found."
	case errors.Is(err, ErrForbidden):
		return "You do not have permission to perform this action."
	case errors.As(err, &cfgErr):
		return cfgErr.Error()
	case errors.As(err, &stateErr):
		return stateErr.Error()
	case errors.As(err, &valErr):
		return valErr.Error()
	default:
		return "Something went wrong. Please try again."
	}
}
