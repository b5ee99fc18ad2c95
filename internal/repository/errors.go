package repository

import (
	"database/sql/driver"
	"errors"
	"net"

	"wrenchway-api/internal/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// classifyError marks connectivity failures as Unavailable and leaves the
// rest untouched. gorm.ErrRecordNotFound is handled by the callers.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if isConnectionError(err) {
		return apperror.Unavailable(err)
	}
	return err
}

func isConnectionError(err error) bool {
	if apperror.IsTimeout(err) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, gorm.ErrInvalidDB) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
