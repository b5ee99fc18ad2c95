package service

import (
	"context"
	"time"

	"wrenchway-api/internal/domain/entity"

	"github.com/google/uuid"
)

// Routing keys of the domain events published after a committed mutation
const (
	EventBookingCreated       = "booking.created"
	EventBookingConfirmed     = "booking.confirmed"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingRescheduled   = "booking.rescheduled"
	EventTechnicianDeleted    = "technician.deleted"
)

// Event is the envelope handed to the message broker
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	ActorID    string                 `json:"actor_id,omitempty"`
	Data       map[string]interface{} `json:"data"`
}

// EventPublisher hands domain events to a broker. Delivery to end users
// happens downstream.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

func NewEvent(eventType string, actor entity.Actor, occurredAt time.Time, data map[string]interface{}) Event {
	e := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt,
		Data:       data,
	}
	if actor.ID != uuid.Nil {
		e.ActorID = actor.ID.String()
	}
	return e
}

// NewBookingEvent builds an event carrying the booking's current state.
func NewBookingEvent(eventType string, b *entity.Booking, actor entity.Actor, occurredAt time.Time) Event {
	data := map[string]interface{}{
		"booking_id":     b.ID.String(),
		"customer_id":    b.CustomerID.String(),
		"service_id":     b.ServiceID.String(),
		"status":         string(b.Status),
		"scheduled_date": b.ScheduledDate.Format(entity.DateLayout),
		"scheduled_time": b.ScheduledTime,
		"urgency":        string(b.Urgency),
		"version":        b.Version,
	}
	if b.TechnicianID != nil {
		data["technician_id"] = b.TechnicianID.String()
	}
	return NewEvent(eventType, actor, occurredAt, data)
}
