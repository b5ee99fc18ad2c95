package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrenchway-api/internal/domain/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func booking(tech uuid.UUID, status entity.BookingStatus, date time.Time, slot string) entity.Booking {
	tid := tech
	return entity.Booking{
		ID:            uuid.New(),
		TechnicianID:  &tid,
		Status:        status,
		ScheduledDate: date,
		ScheduledTime: slot,
	}
}

func TestDayWindow(t *testing.T) {
	start, end := DayWindow(time.Date(2024, 5, 1, 15, 4, 5, 0, time.UTC))

	assert.Equal(t, day(2024, 5, 1), start)
	assert.Equal(t, time.Date(2024, 5, 1, 23, 59, 59, int(999*time.Millisecond), time.UTC), end)
}

func TestFindAvailableScenario(t *testing.T) {
	t1 := entity.User{ID: uuid.New(), Name: "Ana", Role: entity.RoleTechnician}
	t2 := entity.User{ID: uuid.New(), Name: "Budi", Role: entity.RoleTechnician}
	t3 := entity.User{ID: uuid.New(), Name: "Citra", Role: entity.RoleTechnician}
	pool := []entity.User{t1, t2, t3}

	date := day(2024, 5, 1)
	bookings := []entity.Booking{
		booking(t1.ID, entity.BookingStatusConfirmed, date, "10:00"),
		booking(t2.ID, entity.BookingStatusCompleted, date, "10:00"),
		booking(t3.ID, entity.BookingStatusInProgress, date, "11:00"),
	}

	got := FindAvailable(pool, bookings, date, "10:00")

	require.Len(t, got, 2)
	assert.Equal(t, t2.ID, got[0].ID)
	assert.Equal(t, t3.ID, got[1].ID)
}

func TestFindAvailableIgnoresOtherDaysAndStatuses(t *testing.T) {
	tech := entity.User{ID: uuid.New(), Name: "Dewi"}
	date := day(2024, 5, 1)

	tests := []struct {
		name     string
		booking  entity.Booking
		expected int
	}{
		{"pending does not block", booking(tech.ID, entity.BookingStatusPending, date, "10:00"), 1},
		{"cancelled does not block", booking(tech.ID, entity.BookingStatusCancelled, date, "10:00"), 1},
		{"previous day does not block", booking(tech.ID, entity.BookingStatusConfirmed, day(2024, 4, 30), "10:00"), 1},
		{"next day does not block", booking(tech.ID, entity.BookingStatusConfirmed, day(2024, 5, 2), "10:00"), 1},
		{"different time string does not block", booking(tech.ID, entity.BookingStatusConfirmed, date, "10:30"), 1},
		{"confirmed same slot blocks", booking(tech.ID, entity.BookingStatusConfirmed, date, "10:00"), 0},
		{"in-progress same slot blocks", booking(tech.ID, entity.BookingStatusInProgress, date, "10:00"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindAvailable([]entity.User{tech}, []entity.Booking{tt.booking}, date, "10:00")
			assert.Len(t, got, tt.expected)
		})
	}
}

func TestFindAvailableIsSubsetOfPool(t *testing.T) {
	pool := []entity.User{{ID: uuid.New()}, {ID: uuid.New()}}
	outsider := uuid.New()
	date := day(2024, 5, 1)

	got := FindAvailable(pool, []entity.Booking{booking(outsider, entity.BookingStatusConfirmed, date, "09:00")}, date, "09:00")

	assert.Equal(t, pool, got)
}

func TestIsAvailableExcludesOwnBooking(t *testing.T) {
	tech := uuid.New()
	date := day(2024, 5, 1)
	own := booking(tech, entity.BookingStatusConfirmed, date, "10:00")

	assert.True(t, IsAvailable(tech, []entity.Booking{own}, date, "10:00", own.ID))
	assert.False(t, IsAvailable(tech, []entity.Booking{own}, date, "10:00", uuid.New()))
}
