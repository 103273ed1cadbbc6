// Package transport carries the bridge's encoded method calls between the two
// surfaces. Each backend lives in its own sub-package and registers a Builder
// under the name accepted by Config.PubSubSystem.
package transport

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Transport is a publisher and subscriber pair. Backends such as the
// in-memory channel return the same value for both halves.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// Close closes both halves, once when they share an implementation.
func (t Transport) Close() error {
	var errs []error
	if t.Publisher != nil {
		errs = append(errs, t.Publisher.Close())
	}
	if t.Subscriber != nil {
		if pub, ok := t.Subscriber.(message.Publisher); !ok || pub != t.Publisher {
			errs = append(errs, t.Subscriber.Close())
		}
	}
	return errors.Join(errs...)
}

// Builder creates a transport from config.
type Builder func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error)

// Config exposes the keys backends read. The runtime config implements it.
type Config interface {
	GetPubSubSystem() string

	// GetChannelBuffer sizes in-memory output channels.
	GetChannelBuffer() int64

	GetKafkaBrokers() []string
	GetKafkaConsumerGroup() string

	GetRabbitMQURL() string

	GetNATSURL() string

	GetHTTPServerAddress() string
	GetHTTPPublisherURL() string

	GetAWSRegion() string
	GetAWSAccountID() string
	GetAWSAccessKeyID() string
	GetAWSSecretAccessKey() string
	GetAWSEndpoint() string
}

// CapabilitiesProvider is implemented by backends that describe themselves.
type CapabilitiesProvider interface {
	Capabilities() Capabilities
}
