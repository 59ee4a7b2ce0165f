package types

import (
	"errors"
	"fmt"
)

// Operation errors. Callers test for them with errors.Is; the structured
// error types below match the corresponding sentinel.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicateIdentity = errors.New("identity already exists")
	ErrNoOp              = errors.New("no fields to update")
	ErrValidation        = errors.New("invalid field value")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrStoreFailure      = errors.New("store failure")
)

// ValidationError names the first field that violated its rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError names the missing entity, so that an upsert can tell the
// caller which half of the key was absent.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateError reports a create with an identity that is already taken.
type DuplicateError struct {
	Entity string
	ID     string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Entity, e.ID)
}

// Is matches ErrDuplicateIdentity.
func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicateIdentity }

// StoreError wraps an engine error. Error() never includes the engine text;
// the cause stays reachable through Unwrap for logging.
type StoreError struct {
	Op          string
	Unavailable bool
	Err         error
}

func (e *StoreError) Error() string {
	if e.Unavailable {
		return fmt.Sprintf("%s: %s", e.Op, ErrStoreUnavailable)
	}
	return fmt.Sprintf("%s: %s", e.Op, ErrStoreFailure)
}

// Unwrap returns the engine error.
func (e *StoreError) Unwrap() error { return e.Err }

// Is matches ErrStoreUnavailable or ErrStoreFailure depending on the kind.
func (e *StoreError) Is(target error) bool {
	if e.Unavailable {
		return target == ErrStoreUnavailable
	}
	return target == ErrStoreFailure
}

// IsCallerError reports whether err was caused by the request rather than by
// the store: validation, missing entity, duplicate identity or an empty update.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateIdentity) ||
		errors.Is(err, ErrNoOp)
}
