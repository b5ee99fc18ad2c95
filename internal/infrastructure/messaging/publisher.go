package messaging

import (
	"fmt"

	"wrenchway-api/config"
	"wrenchway-api/internal/service"

	"github.com/sirupsen/logrus"
)

const (
	DriverRabbitMQ = "rabbitmq"
	DriverKafka    = "kafka"
	DriverLog      = "log"
)

// NewPublisher builds the publisher selected by cfg.Driver. When the broker
// cannot be reached it falls back to logging events.
func NewPublisher(cfg config.EventsConfig, log *logrus.Logger) (service.EventPublisher, error) {
	switch cfg.Driver {
	case DriverRabbitMQ:
		p, err := NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Warnf("RabbitMQ unavailable, publishing events to log: %+v", err)
			return NewLogPublisher(log), nil
		}
		log.Infof("Publishing events to RabbitMQ exchange %s", cfg.RabbitMQExchange)
		return p, nil

	case DriverKafka:
		log.Infof("Publishing events to Kafka topic %s", cfg.KafkaTopic)
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil

	case DriverLog, "":
		return NewLogPublisher(log), nil
	}

	return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
}
