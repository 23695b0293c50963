// Package errs defines the typed failures shared by every layer.
// Each concrete error matches one sentinel kind via errors.Is so callers can
// branch on the kind without knowing the concrete type.
package errs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel kinds.
var (
	ErrValidation  = errors.New("validation failed")
	ErrUniqueness  = errors.New("uniqueness conflict")
	ErrReferential = errors.New("referential integrity violation")
	ErrFormat      = errors.New("format error")
	ErrTransient   = errors.New("transient storage error")
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
)

// ValidationError reports a required field that was blank or missing.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "is required"
	}
	return fmt.Sprintf("%s %s %s", e.Entity, e.Field, reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UniquenessConflict reports a natural-key collision the upsert logic did not resolve.
// Existing lists the ids of the colliding rows when they are known.
type UniquenessConflict struct {
	Entity   string
	Key      string
	Value    string
	Existing []int64
	Err      error
}

func (e *UniquenessConflict) Error() string {
	msg := fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Key, e.Value)
	if len(e.Existing) == 0 {
		return msg
	}
	ids := make([]string, len(e.Existing))
	for i, id := range e.Existing {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s (ids: %s)", msg, strings.Join(ids, ", "))
}

func (e *UniquenessConflict) Is(target error) bool { return target == ErrUniqueness }

func (e *UniquenessConflict) Unwrap() error { return e.Err }

// ReferentialIntegrityViolation reports a delete blocked by referencing service orders.
// References is -1 when the storage layer refused without a count.
type ReferentialIntegrityViolation struct {
	Entity     string
	ID         int64
	References int
	Err        error
}

func (e *ReferentialIntegrityViolation) Error() string {
	if e.References < 0 {
		return fmt.Sprintf("%s %d is still referenced", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s %d is referenced by %d service order(s)", e.Entity, e.ID, e.References)
}

func (e *ReferentialIntegrityViolation) Is(target error) bool { return target == ErrReferential }

func (e *ReferentialIntegrityViolation) Unwrap() error { return e.Err }

// FormatError reports a date or amount string that does not parse.
type FormatError struct {
	Entity   string
	Field    string
	Value    string
	Expected string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s %s: cannot parse %q (expected %s)", e.Entity, e.Field, e.Value, e.Expected)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// TransientStorageError wraps lock contention; callers may retry.
type TransientStorageError struct {
	Op  string
	Err error
}

func (e *TransientStorageError) Error() string {
	return fmt.Sprintf("%s: database busy: %v", e.Op, e.Err)
}

func (e *TransientStorageError) Is(target error) bool { return target == ErrTransient }

func (e *TransientStorageError) Unwrap() error { return e.Err }

// NotFoundError reports a missing row looked up by a natural or surrogate key.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ForbiddenError reports an action the acting consultant may not perform.
type ForbiddenError struct {
	Action string
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Action, e.Reason)
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// IsRetryable reports whether err is a transient storage failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}
