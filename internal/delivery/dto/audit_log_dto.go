package dto

import (
	"time"

	"wrenchway-api/internal/domain/entity"

	"github.com/google/uuid"
)

// AuditLogListQuery carries the optional audit log filters
type AuditLogListQuery struct {
	Action   string
	UserID   *uuid.UUID
	Entity   string
	EntityID string
}

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	UserID    *uuid.UUID  `json:"user_id,omitempty"`
	Action    string      `json:"action"`
	Entity    string      `json:"entity,omitempty"`
	EntityID  string      `json:"entity_id,omitempty"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"created_at"`
}
