package discover

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrEmptyUsername     = errors.New("username is empty")
	ErrIsOriginal        = errors.New("username is the original constellation")
	ErrAlreadyDiscovered = errors.New("username already discovered")
	ErrNoOriginal        = errors.New("original constellation not loaded")
	ErrNotFound          = errors.New("constellation not found")
	ErrInvalidKind       = errors.New("invalid constellation kind")
	ErrInvalidFusion     = errors.New("invalid fusion type")
	ErrStore             = errors.New("store operation failed")
)

// OpError provides structured error information for catalog and store
// operations.
type OpError struct {
	Op    string // Operation that failed (e.g., "AddDiscovered", "Save")
	Kind  Kind   // Entry kind, if applicable
	Key   string // Entry key, if applicable
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s:%s: %v", e.Op, e.Kind, e.Key, e.Cause)
	}
	if e.Kind != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *OpError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *OpError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func opError(op string, kind Kind, key string, cause error) error {
	return &OpError{Op: op, Kind: kind, Key: key, Cause: cause}
}
