// Package apperror defines the error kinds shared by the booking core and
// the HTTP layer. Concrete errors wrap one of the kind sentinels with %w so
// callers can classify them with errors.Is.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
	KindUnavailable       Kind = "unavailable"
	KindInvalid           Kind = "invalid"
	KindInternal          Kind = "internal"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
	ErrUnavailable       = errors.New("dependency unavailable")
	ErrInvalid           = errors.New("invalid input")
)

var kinds = []struct {
	sentinel error
	kind     Kind
	status   int
}{
	{ErrNotFound, KindNotFound, http.StatusNotFound},
	{ErrForbidden, KindForbidden, http.StatusForbidden},
	{ErrInvalidTransition, KindInvalidTransition, http.StatusConflict},
	{ErrConflict, KindConflict, http.StatusConflict},
	{ErrUnavailable, KindUnavailable, http.StatusServiceUnavailable},
	{ErrInvalid, KindInvalid, http.StatusBadRequest},
}

// KindOf reports the kind of err, or KindInternal when it wraps no known sentinel.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}

// HTTPStatus maps err to the response status the API answers with.
func HTTPStatus(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// Unavailable marks err as a failure of an external dependency.
// A nil err stays nil.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// IsTimeout reports whether err came from an expired or cancelled context.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
