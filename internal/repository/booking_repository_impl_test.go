package repository

import (
	"context"
	"testing"
	"time"

	"wrenchway-api/internal/domain/availability"
	"wrenchway-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type capturedQuery struct {
	sql  string
	vars []interface{}
}

// dryRunDB builds statements against a Jakarta session without a server and
// records every query it would have sent.
func dryRunDB(t *testing.T) (*gorm.DB, *[]capturedQuery) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=app dbname=app sslmode=disable TimeZone=Asia/Jakarta",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	var queries []capturedQuery
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		queries = append(queries, capturedQuery{
			sql:  tx.Statement.SQL.String(),
			vars: append([]interface{}(nil), tx.Statement.Vars...),
		})
	})
	require.NoError(t, err)

	return db, &queries
}

func assertNoTimestamps(t *testing.T, vars []interface{}) {
	t.Helper()
	for _, v := range vars {
		_, isTime := v.(time.Time)
		assert.False(t, isTime, "scheduled_date must be bound as a date, got %v", v)
	}
}

func TestFindActiveInWindowBindsCalendarDates(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		wantDate string
	}{
		{"utc midnight", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), "2024-05-02"},
		{"late evening utc", time.Date(2024, 5, 2, 23, 30, 0, 0, time.UTC), "2024-05-02"},
		{"year boundary", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, queries := dryRunDB(t)
			repo := NewBookingRepository(db)

			from, to := availability.DayWindow(tt.date)
			_, err := repo.FindActiveInWindow(context.Background(), from, to, "10:00")
			require.NoError(t, err)

			require.Len(t, *queries, 1)
			q := (*queries)[0]
			assert.Contains(t, q.sql, "scheduled_date BETWEEN")
			require.GreaterOrEqual(t, len(q.vars), 3)
			assert.Equal(t, tt.wantDate, q.vars[0])
			assert.Equal(t, tt.wantDate, q.vars[1])
			assert.Equal(t, "10:00", q.vars[2])
			assertNoTimestamps(t, q.vars)
		})
	}
}

func TestFindAllBindsDateRangeAsCalendarDates(t *testing.T) {
	db, queries := dryRunDB(t)
	repo := NewBookingRepository(db)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	_, _, err := repo.FindAll(context.Background(), entity.BookingFilter{DateFrom: &from, DateTo: &to}, 10, 0)
	require.NoError(t, err)

	require.NotEmpty(t, *queries)
	for _, q := range *queries {
		assert.Contains(t, q.vars, "2024-05-01")
		assert.Contains(t, q.vars, "2024-05-31")
		assertNoTimestamps(t, q.vars)
	}
}

func TestDateParamUsesUTCCalendarDay(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	assert.Equal(t, "2024-05-02", dateParam(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-01", dateParam(time.Date(2024, 5, 2, 3, 0, 0, 0, jakarta)))
}
