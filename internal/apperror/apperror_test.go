package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfAndHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   Kind
		status int
	}{
		{"not found", fmt.Errorf("booking %w", ErrNotFound), KindNotFound, http.StatusNotFound},
		{"forbidden", fmt.Errorf("not your booking: %w", ErrForbidden), KindForbidden, http.StatusForbidden},
		{"invalid transition", fmt.Errorf("completed to cancelled: %w", ErrInvalidTransition), KindInvalidTransition, http.StatusConflict},
		{"conflict", fmt.Errorf("technician busy: %w", ErrConflict), KindConflict, http.StatusConflict},
		{"unavailable", Unavailable(errors.New("dial tcp: refused")), KindUnavailable, http.StatusServiceUnavailable},
		{"invalid", fmt.Errorf("bad date: %w", ErrInvalid), KindInvalid, http.StatusBadRequest},
		{"unknown", errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestUnavailable(t *testing.T) {
	assert.NoError(t, Unavailable(nil))

	cause := errors.New("connection reset")
	err := Unavailable(cause)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)

	// Wrapping twice keeps a single marker.
	assert.Equal(t, err, Unavailable(err))
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.True(t, IsTimeout(context.Canceled))
	assert.False(t, IsTimeout(ErrConflict))
}
