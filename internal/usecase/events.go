package usecase

import (
	"context"

	"wrenchway-api/internal/service"

	"github.com/sirupsen/logrus"
)

// publishEvent hands event to the broker after the mutation committed. The
// mutation already succeeded, so a failed publish is only logged.
func publishEvent(ctx context.Context, log *logrus.Logger, publisher service.EventPublisher, event service.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warnf("Failed to publish %s event %s: %+v", event.Type, event.ID, err)
	}
}
