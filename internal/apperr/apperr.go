// Package apperr defines the failure kinds shared by every ShopLite service.
//
// Services return (possibly wrapped) sentinel errors from this package, or one
// of the structured errors below, which match their sentinel through errors.Is.
// The HTTP layer turns them into a status code and a machine-checkable kind.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrOrderLocked       = errors.New("order is locked")
	ErrConflict          = errors.New("conflict")
	ErrBusy              = errors.New("store busy")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Kind is the machine-checkable failure category reported to clients.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidStatus     Kind = "invalid_status"
	KindOrderLocked       Kind = "order_locked"
	KindConflict          Kind = "conflict"
	KindBusy              Kind = "busy"
	KindUnauthorized      Kind = "unauthorized"
	KindInternal          Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrNotFound, KindNotFound},
	{ErrValidation, KindValidation},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrInvalidStatus, KindInvalidStatus},
	{ErrOrderLocked, KindOrderLocked},
	{ErrConflict, KindConflict},
	{ErrBusy, KindBusy},
	{ErrUnauthorized, KindUnauthorized},
}

// KindOf classifies err. Anything not built from this package is internal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindInternal
}

// Retryable reports whether the failed unit of work may be run again.
func Retryable(err error) bool {
	return errors.Is(err, ErrBusy)
}

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InsufficientStockError identifies the product whose stock could not cover a request.
type InsufficientStockError struct {
	Barcode   string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.Name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }
