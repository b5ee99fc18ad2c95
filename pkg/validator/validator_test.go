package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	Date    string `json:"scheduled_date" validate:"required,booking_date"`
	Time    string `json:"scheduled_time" validate:"required,slot_time"`
	Urgency string `json:"urgency" validate:"omitempty,oneof=normal high emergency"`
}

func TestCustomTags(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     slotRequest
		invalid []string
	}{
		{"valid", slotRequest{Date: "2024-05-01", Time: "10:00"}, nil},
		{"single digit hour", slotRequest{Date: "2024-05-01", Time: "9:00"}, []string{"scheduled_time"}},
		{"out of range time", slotRequest{Date: "2024-05-01", Time: "24:00"}, []string{"scheduled_time"}},
		{"bad date", slotRequest{Date: "2024-02-30", Time: "10:00"}, []string{"scheduled_date"}},
		{"unpadded date", slotRequest{Date: "2024-5-1", Time: "10:00"}, []string{"scheduled_date"}},
		{"bad urgency", slotRequest{Date: "2024-05-01", Time: "10:00", Urgency: "asap"}, []string{"urgency"}},
		{"missing", slotRequest{}, []string{"scheduled_date", "scheduled_time"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if len(tt.invalid) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			formatted := v.FormatValidationErrors(err)
			for _, field := range tt.invalid {
				assert.Contains(t, formatted, field)
			}
		})
	}
}

func TestFormatMessages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&slotRequest{Date: "tomorrow", Time: "10:00"})
	require.Error(t, err)

	assert.Equal(t, "scheduled_date must be a date in YYYY-MM-DD format", v.FormatValidationErrors(err)["scheduled_date"])
}
