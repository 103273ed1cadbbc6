// Package adbridge bridges a host application and an ad SDK over a message
// transport. The host sends method calls (init, loadAd, playAd,
// loadBannerAd and friends) on a command topic; the bridge drives the SDK and
// reports every outcome back as method calls on the host's channels.
//
// A Service owns the ad objects the host created, keyed by the integer
// handle the host chose. SDK callbacks arrive on arbitrary goroutines and are
// funnelled through a single control goroutine, so the host observes events
// in the order they were produced. After Detach, ads are disposed and later
// events are discarded.
//
// # Channels
//
// The main channel ("flutter_vungle" by default) carries init results and
// onAdEvent notifications for banners. Each placement id gets its own channel
// named "<prefix>_<placementId>", created the first time an event for it is
// sent.
//
// # Wire format
//
// Calls are encoded with the standard message codec, extended with AdSize
// (tag 128) and Exception (tag 129). JSON and protobuf method codecs are
// available for hosts that cannot speak the binary format.
//
// # Transports
//
// The transport is picked from Config.PubSubSystem:
//   - channel: in-memory Go channels for tests and embedded hosts
//   - kafka: ordered per partition, with consumer groups
//   - rabbitmq: AMQP durable queues
//   - nats: lightweight messaging
//   - http: webhook style delivery
//   - aws: SNS/SQS with LocalStack support
//
// Transports that do not guarantee ordering are accepted, with a warning in
// the log.
//
// # Middleware
//
// Commands go through correlation ID injection, debug logging,
// OpenTelemetry tracing, Prometheus metrics and panic recovery. Commands are
// never retried. Custom middleware can be added via
// ServiceDependencies.Middlewares.
package adbridge
