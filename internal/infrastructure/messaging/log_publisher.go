package messaging

import (
	"context"

	"wrenchway-api/internal/service"

	"github.com/sirupsen/logrus"
)

// LogPublisher writes events to the application log. Used when no broker is
// configured or reachable.
type LogPublisher struct {
	log *logrus.Logger
}

func NewLogPublisher(log *logrus.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event service.Event) error {
	p.log.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"actor_id":   event.ActorID,
		"data":       event.Data,
	}).Info("Domain event")
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
