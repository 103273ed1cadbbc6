// Package http is the webhook transport. Messages are POSTed to
// <publisher URL>/<topic>; inbound messages arrive on /<topic> of the local
// server, which starts once the first route is subscribed.
package http

import (
	"context"
	"fmt"
	nethttp "net/http"
	"strings"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-http/v2/pkg/http"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/drblury/adbridge/transport"
)

const TransportName = "http"

var PublisherFactory = func(config http.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return http.NewPublisher(config, logger)
}

var SubscriberFactory = func(addr string, config http.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return http.NewSubscriber(addr, config, logger)
}

func init() {
	Register()
}

func Register() {
	transport.Register(TransportName, Build, transport.HTTPCapabilities)
}

// TopicURL joins the publisher base URL and a topic with exactly one slash.
func TopicURL(base, topic string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(topic, "/")
}

// Route is the local path a topic is served on.
func Route(topic string) string {
	return "/" + strings.TrimLeft(topic, "/")
}

func Build(_ context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Transport, error) {
	base := cfg.GetHTTPPublisherURL()

	publisher, err := PublisherFactory(http.PublisherConfig{
		MarshalMessageFunc: func(topic string, msg *message.Message) (*nethttp.Request, error) {
			return http.DefaultMarshalMessageFunc(TopicURL(base, topic), msg)
		},
	}, logger)
	if err != nil {
		return transport.Transport{}, fmt.Errorf("http publisher: %w", err)
	}

	subscriber, err := SubscriberFactory(cfg.GetHTTPServerAddress(), http.SubscriberConfig{
		UnmarshalMessageFunc: http.DefaultUnmarshalMessageFunc,
	}, logger)
	if err != nil {
		_ = publisher.Close()
		return transport.Transport{}, fmt.Errorf("http subscriber: %w", err)
	}

	return transport.Transport{
		Publisher:  publisher,
		Subscriber: &routeSubscriber{inner: subscriber, logger: logger},
	}, nil
}

func Capabilities() transport.Capabilities {
	return transport.HTTPCapabilities
}

type serverStarter interface {
	StartHTTPServer() error
}

// routeSubscriber maps topics to routes and starts the webhook server after
// the first route exists.
type routeSubscriber struct {
	inner  message.Subscriber
	logger watermill.LoggerAdapter
	start  sync.Once
}

func (s *routeSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	msgs, err := s.inner.Subscribe(ctx, Route(topic))
	if err != nil {
		return nil, err
	}
	s.start.Do(func() {
		starter, ok := s.inner.(serverStarter)
		if !ok {
			return
		}
		go func() {
			if err := starter.StartHTTPServer(); err != nil && err != nethttp.ErrServerClosed {
				s.logger.Error("HTTP subscriber server stopped", err, nil)
			}
		}()
	})
	return msgs, nil
}

func (s *routeSubscriber) Close() error {
	return s.inner.Close()
}
