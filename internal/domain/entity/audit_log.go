package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Subject returns the audited entity name and id recorded in the metadata,
// or empty strings for events that do not target an entity.
func (a *AuditLog) Subject() (string, string) {
	name, _ := a.Metadata["entity"].(string)
	id, _ := a.Metadata["entity_id"].(string)
	return name, id
}

// AuditLogFilter narrows an audit log listing. Zero values match everything.
type AuditLogFilter struct {
	Action   string
	UserID   *uuid.UUID
	Entity   string
	EntityID string
}

func (f AuditLogFilter) Matches(a *AuditLog) bool {
	if f.Action != "" && a.Action != f.Action {
		return false
	}
	if f.UserID != nil && (a.UserID == nil || *a.UserID != *f.UserID) {
		return false
	}
	name, id := a.Subject()
	if f.Entity != "" && name != f.Entity {
		return false
	}
	return f.EntityID == "" || id == f.EntityID
}

// Common audit actions
const (
	AuditActionUserRegister      = "user.register"
	AuditActionUserLogin         = "user.login"
	AuditActionUserLogout        = "user.logout"
	AuditActionUserUpdate        = "user.update"
	AuditActionBookingCreate     = "booking.create"
	AuditActionBookingAssign     = "booking.assign"
	AuditActionBookingStatus     = "booking.status"
	AuditActionBookingCancel     = "booking.cancel"
	AuditActionBookingReschedule = "booking.reschedule"
	AuditActionTechnicianCreate  = "technician.create"
	AuditActionTechnicianUpdate  = "technician.update"
	AuditActionTechnicianDelete  = "technician.delete"
)
