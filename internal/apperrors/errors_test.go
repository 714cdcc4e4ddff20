package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorIsKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewAppError(http.StatusInternalServerError, "failed to insert journal", cause)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal error: failed to insert journal: connection reset", err.Error())
}

func TestAppErrorFieldsSurviveWrapping(t *testing.T) {
	base := NewValidationError("journal is not balanced").WithField("imbalance", "0.05")
	wrapped := fmt.Errorf("create journal: %w", base)

	assert.ErrorIs(t, wrapped, ErrValidation)
	var appErr *AppError
	if assert.ErrorAs(t, wrapped, &appErr) {
		v, ok := appErr.Field("imbalance")
		assert.True(t, ok)
		assert.Equal(t, "0.05", v)
	}
	assert.Equal(t, "validation error: journal is not balanced (imbalance=0.05)", base.Error())
}

func TestInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError("p-1", 10, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "available=4")
	assert.Contains(t, err.Error(), "product=p-1")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"not found", NewNotFoundError("loan", "l-1"), http.StatusNotFound},
		{"state", NewStateError("already posted"), http.StatusConflict},
		{"conflict", NewConflictError("run in progress"), http.StatusConflict},
		{"stock", NewInsufficientStockError("p", 2, 1), http.StatusUnprocessableEntity},
		{"convergence", NewConvergenceError(200, "0"), http.StatusUnprocessableEntity},
		{"wrapped not found", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
