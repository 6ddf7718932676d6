package errors

import (
	"errors"
	"fmt"
)

type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// ErrDuplicateAction is returned when an open scheduled action already exists
// for the same (actor, kind, target).
var ErrDuplicateAction = errors.New("duplicate scheduled action")

// ErrInvalidTransition is the sentinel matched by ErrInvalidStateTransition.
var ErrInvalidTransition = errors.New("invalid state transition")

type ErrInvalidStateTransition struct {
	ID   string
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("action %s: cannot transition from %s to %s", e.ID, e.From, e.To)
}

func (e *ErrInvalidStateTransition) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ErrInsufficientBalance rejects a delta that would drive a balance below zero.
type ErrInsufficientBalance struct {
	UserID    string
	Attempted int64
	Available int64
}

func (e *ErrInsufficientBalance) Error() string {
	return fmt.Sprintf("insufficient balance for user %s: attempted %d, available %d", e.UserID, e.Attempted, e.Available)
}

type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return e.Entity + " not found: " + e.ID
}

type ErrOutOfStock struct {
	PrizeID string
}

func (e *ErrOutOfStock) Error() string {
	return "prize out of stock: " + e.PrizeID
}

// GenerationKind classifies a failed text generation. The string value is
// what gets recorded as the failure reason of a scheduled action.
type GenerationKind string

const (
	GenerationTimeout         GenerationKind = "GenerationTimeout"
	GenerationRateLimited     GenerationKind = "GenerationRateLimited"
	GenerationInvalidResponse GenerationKind = "GenerationInvalidResponse"
	GenerationUnavailable     GenerationKind = "GenerationUnavailable"
)

type GenerationError struct {
	Kind GenerationKind
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// GenerationReason returns the recorded failure reason for err, or
// GenerationUnavailable when err is not a GenerationError.
func GenerationReason(err error) string {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return string(ge.Kind)
	}
	return string(GenerationUnavailable)
}
