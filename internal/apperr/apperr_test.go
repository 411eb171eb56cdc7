package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{name: "NotFoundWrapped", err: fmt.Errorf("product 123: %w", apperr.ErrNotFound), want: apperr.KindNotFound},
		{name: "ValidationStruct", err: apperr.Invalid("quantity", "must be positive"), want: apperr.KindValidation},
		{name: "InsufficientStock", err: &apperr.InsufficientStockError{Name: "Milk"}, want: apperr.KindInsufficientStock},
		{name: "OrderLocked", err: apperr.ErrOrderLocked, want: apperr.KindOrderLocked},
		{name: "Busy", err: fmt.Errorf("begin: %w", apperr.ErrBusy), want: apperr.KindBusy},
		{name: "Unknown", err: errors.New("boom"), want: apperr.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.KindOf(tt.err))
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, apperr.Retryable(fmt.Errorf("x: %w", apperr.ErrBusy)))
	assert.False(t, apperr.Retryable(&apperr.InsufficientStockError{Name: "Milk"}))
	assert.False(t, apperr.Retryable(apperr.ErrOrderLocked))
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := &apperr.InsufficientStockError{Barcode: "520", Name: "Feta 400g", Available: 2, Requested: 3}

	assert.Equal(t, "insufficient stock for Feta 400g: available 2, requested 3", err.Error())
	assert.ErrorIs(t, fmt.Errorf("sale: %w", err), apperr.ErrInsufficientStock)
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "barcode: is required", apperr.Invalid("barcode", "is required").Error())
	assert.Equal(t, "cart is empty", apperr.Invalid("", "cart is empty").Error())
}
