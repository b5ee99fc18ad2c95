package messaging

import (
	"context"
	"testing"
	"time"

	"wrenchway-api/config"
	"wrenchway-api/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherSelectsDriver(t *testing.T) {
	log := logrus.New()

	p, err := NewPublisher(config.EventsConfig{Driver: DriverLog}, log)
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, p)

	p, err = NewPublisher(config.EventsConfig{Driver: DriverKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "bookings"}, log)
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)
	assert.NoError(t, p.Close())

	_, err = NewPublisher(config.EventsConfig{Driver: "carrier-pigeon"}, log)
	assert.Error(t, err)
}

func TestLogPublisherWritesEvent(t *testing.T) {
	log, hook := test.NewNullLogger()
	p := NewLogPublisher(log)

	event := service.Event{ID: "e1", Type: service.EventBookingCancelled, OccurredAt: time.Now(), Data: map[string]interface{}{"booking_id": "b1"}}
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, service.EventBookingCancelled, hook.LastEntry().Data["event_type"])
}

func TestMessageKeyPrefersEntityID(t *testing.T) {
	assert.Equal(t, "b1", messageKey(service.Event{ID: "e1", Data: map[string]interface{}{"booking_id": "b1"}}))
	assert.Equal(t, "t1", messageKey(service.Event{ID: "e1", Data: map[string]interface{}{"technician_id": "t1"}}))
	assert.Equal(t, "e1", messageKey(service.Event{ID: "e1"}))
}
