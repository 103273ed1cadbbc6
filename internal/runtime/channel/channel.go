// Package channel implements named method channels. Each outbound call is
// encoded with the channel's method codec and handed to a Messenger, which
// puts it on the transport.
package channel

import (
	"context"
	"fmt"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/drblury/adbridge/internal/runtime/codec"
	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
	"github.com/drblury/adbridge/internal/runtime/ids"
	"github.com/drblury/adbridge/internal/runtime/metadata"
)

// Messenger delivers an encoded payload addressed to a channel.
type Messenger interface {
	Send(ctx context.Context, channel string, payload []byte, md metadata.Metadata) error
}

// MessengerFunc adapts a function to Messenger.
type MessengerFunc func(ctx context.Context, channel string, payload []byte, md metadata.Metadata) error

func (f MessengerFunc) Send(ctx context.Context, channel string, payload []byte, md metadata.Metadata) error {
	return f(ctx, channel, payload, md)
}

// MethodChannel sends method invocations to the host on one channel name.
type MethodChannel struct {
	name      string
	codec     codec.MethodCodec
	messenger Messenger
}

func NewMethodChannel(name string, c codec.MethodCodec, m Messenger) *MethodChannel {
	if name == "" {
		panic("adbridge: channel name cannot be empty")
	}
	if c == nil || m == nil {
		panic("adbridge: channel codec and messenger are required")
	}
	return &MethodChannel{name: name, codec: c, messenger: m}
}

func (c *MethodChannel) Name() string { return c.name }

func (c *MethodChannel) Codec() codec.MethodCodec { return c.codec }

// InvokeMethod encodes and sends a call. It does not wait for the host to
// answer.
func (c *MethodChannel) InvokeMethod(ctx context.Context, method string, args any) error {
	payload, err := c.codec.EncodeMethodCall(codec.MethodCall{Method: method, Arguments: args})
	if err != nil {
		return fmt.Errorf("encode %s on %s: %w", method, c.name, err)
	}
	md := metadata.New(
		metadata.KeyChannel, c.name,
		metadata.KeyMethod, method,
		metadata.KeyCodec, c.codec.Name(),
		metadata.KeyContentType, c.codec.ContentType(),
	)
	return c.messenger.Send(ctx, c.name, payload, md)
}

// PublisherMessenger publishes every payload as a watermill message on the
// topic derived from the channel name.
type PublisherMessenger struct {
	publisher message.Publisher
}

func NewPublisherMessenger(publisher message.Publisher) (*PublisherMessenger, error) {
	if publisher == nil {
		return nil, errspkg.ErrPublisherRequired
	}
	return &PublisherMessenger{publisher: publisher}, nil
}

func (p *PublisherMessenger) Send(ctx context.Context, channel string, payload []byte, md metadata.Metadata) error {
	topic := Topic(channel)
	if topic == "" {
		return errspkg.ErrTopicRequired
	}
	msg := message.NewMessage(ids.New(), payload)
	metadata.Apply(msg, md)
	if ctx != nil {
		msg.SetContext(ctx)
	}
	return p.publisher.Publish(topic, msg)
}

// Topic maps a channel name onto a topic every bundled transport accepts:
// "/" becomes "." and anything outside [A-Za-z0-9._-] becomes "_".
//
// The mapping is not injective. Placement ids "a/b" and "a.b" share the topic
// "flutter_vungle.videoAd_a.b", as do "a b" and "a_b". Hosts that route
// placement channels over a transport must keep such ids apart themselves.
func Topic(channel string) string {
	var b strings.Builder
	b.Grow(len(channel))
	for _, r := range channel {
		switch {
		case r == '/':
			b.WriteByte('.')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
