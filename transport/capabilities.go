package transport

// Capabilities describes what a backend guarantees. The bridge relies on
// ordering: events for one ad must reach the host in the order they were
// dispatched.
type Capabilities struct {
	Name string

	// SupportsOrdering means messages published on one topic are consumed in
	// publish order.
	SupportsOrdering bool
	// SupportsAck means consumers acknowledge messages explicitly.
	SupportsAck bool
	// SupportsNack means a negative acknowledgement triggers redelivery.
	SupportsNack bool
	// SupportsTracing means message headers survive the round trip.
	SupportsTracing bool
	// SupportsPartitioning means topics are split into ordered partitions.
	SupportsPartitioning bool

	// MaxMessageSize in bytes, 0 when unbounded or unknown.
	MaxMessageSize int64
}

// SupportsReliableDelivery reports at-least-once delivery (ack and nack).
func (c Capabilities) SupportsReliableDelivery() bool {
	return c.SupportsAck && c.SupportsNack
}

// Accepts reports whether a payload of size bytes fits the backend.
func (c Capabilities) Accepts(size int) bool {
	return c.MaxMessageSize <= 0 || int64(size) <= c.MaxMessageSize
}

// Capability sets of the bundled backends.
var (
	ChannelCapabilities = Capabilities{
		Name:             "channel",
		SupportsOrdering: true,
		SupportsAck:      true,
		SupportsNack:     true,
		SupportsTracing:  true,
	}

	KafkaCapabilities = Capabilities{
		Name:                 "kafka",
		SupportsOrdering:     true,
		SupportsAck:          true,
		SupportsTracing:      true,
		SupportsPartitioning: true,
		MaxMessageSize:       1 << 20,
	}

	RabbitMQCapabilities = Capabilities{
		Name:             "rabbitmq",
		SupportsOrdering: true,
		SupportsAck:      true,
		SupportsNack:     true,
		SupportsTracing:  true,
	}

	NATSCapabilities = Capabilities{
		Name:            "nats",
		SupportsTracing: true,
		MaxMessageSize:  1 << 20,
	}

	// SNS standard topics fan out to SQS standard queues, neither of which
	// preserves order.
	AWSCapabilities = Capabilities{
		Name:            "aws",
		SupportsAck:     true,
		SupportsNack:    true,
		SupportsTracing: true,
		MaxMessageSize:  256 << 10,
	}

	HTTPCapabilities = Capabilities{
		Name:            "http",
		SupportsTracing: true,
	}
)

// CapabilitiesOf looks a backend up in the default registry.
func CapabilitiesOf(name string) Capabilities {
	return DefaultRegistry.Capabilities(name)
}
