package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		total int64
		pages int
	}{
		{"exact pages", 10, 30, 3},
		{"partial last page", 10, 31, 4},
		{"empty", 10, 0, 0},
		{"zero limit", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(1, tt.limit, tt.total)
			assert.Equal(t, tt.pages, meta.TotalPages)
		})
	}
}

func TestConflictEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, "technician has 2 active bookings")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "technician has 2 active bookings", body.Message)
}
