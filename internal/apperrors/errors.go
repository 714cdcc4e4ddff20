package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrState indicates an operation that is not allowed in the entity's current state
// (posting an already posted journal, reversing twice, an illegal loan transition).
var ErrState = errors.New("invalid state")

// ErrInsufficientStock indicates a stock deduction larger than the quantity on hand.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrConvergence indicates that an iterative solver exhausted its budget.
var ErrConvergence = errors.New("solver did not converge")

// ErrConflict indicates a concurrent operation already holds the resource.
var ErrConflict = errors.New("conflict")

// ErrForbidden indicates the caller may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected failure in a lower layer.
var ErrInternal = errors.New("internal error")

// AppError carries an error kind (one of the sentinels above), a message and
// optional context fields such as amounts or entity ids.
type AppError struct {
	Kind    error
	Message string
	Fields  map[string]string
	Err     error
}

// Error renders "kind: message (k=v, ...): cause".
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + e.Fields[k]
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// WithField attaches a context value and returns the same error for chaining.
func (e *AppError) WithField(key string, value any) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[key] = fmt.Sprint(value)
	return e
}

// Field returns a context value previously attached with WithField.
func (e *AppError) Field(key string) (string, bool) {
	v, ok := e.Fields[key]
	return v, ok
}

func newKind(kind error, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewAppError wraps a lower-level failure. Status 404 and 400 map to the
// not-found and validation kinds; everything else is internal.
func NewAppError(status int, message string, err error) *AppError {
	kind := ErrInternal
	switch status {
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusBadRequest:
		kind = ErrValidation
	case http.StatusConflict:
		kind = ErrConflict
	}
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NewValidationError(format string, args ...any) *AppError {
	return newKind(ErrValidation, format, args...)
}

func NewStateError(format string, args ...any) *AppError {
	return newKind(ErrState, format, args...)
}

func NewConflictError(format string, args ...any) *AppError {
	return newKind(ErrConflict, format, args...)
}

// NewNotFoundError reports a missing entity of the given kind and id.
func NewNotFoundError(entity, id string) *AppError {
	return newKind(ErrNotFound, "%s not found", entity).WithField("id", id)
}

// NewInsufficientStockError reports the requested and available quantities.
func NewInsufficientStockError(productID string, requested, available int64) *AppError {
	return newKind(ErrInsufficientStock, "cannot take %d units", requested).
		WithField("product", productID).
		WithField("available", available)
}

// NewConvergenceError reports the solver budget spent and the best bound found.
func NewConvergenceError(iterations int, bound string) *AppError {
	return newKind(ErrConvergence, "no root within bracket").
		WithField("iterations", iterations).
		WithField("bound", bound)
}

// HTTPStatus maps an error to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrState), errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrConvergence):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
