/*
Package runtime implements the ad bridge service.

# Architecture Overview

A Service sits between a host application and an ad SDK. The host sends
method calls on the command topic; the Service runs them against the SDK and
answers each with a reply envelope. Everything the SDK reports afterwards is
turned into method calls on the host's channels. Transport plumbing comes
from Watermill.

# Package Structure

## Core Service (service.go)

The Service struct wires together:
  - the Watermill router serving the command topic
  - the transport publisher and subscriber
  - the middleware chain
  - the handle registry of ad objects
  - the main channel and the per-placement channels
  - the dispatcher owning the control goroutine
  - HTTP servers for metrics and the inspect API

## Commands (commands.go)

HandleMethodCall maps method names onto SDK operations. HandleMessage wraps
it with the method codec and turns errors into error envelopes
(duplicateHandle, missingArgument, malformedMessage, notImplemented).

## Events (events.go)

SDK callbacks arrive on arbitrary goroutines. They never touch a channel
directly: each one is posted to the dispatcher, which delivers events one at
a time in the order they were posted.
  - init results go to the main channel
  - placement load and play results go to the placement's channel
  - banner lifecycle events go to the main channel as onAdEvent

## Middleware (middleware.go)

  - CorrelationID: every command and its reply share an id
  - LogMessages: debug logging of command metadata
  - Tracer: OpenTelemetry spans
  - Metrics: Prometheus router metrics
  - Recoverer: panic recovery

Commands are not retried.

## Metrics and Inspect (metrics.go, inspect.go)

BridgeMetrics counts commands and events and tracks queue depth. The inspect
API serves read-only JSON snapshots of tracked ads and placement channels.

# Sub-packages

  - ads/: banner ads, their state machine and the AdSize and Exception values
  - channel/: method channels and the messengers behind them
  - codec/: the standard message codec and the method codecs
  - config/: service configuration with validation and TOML loading
  - dispatch/: the single control goroutine
  - errors/: sentinel errors and error types
  - ids/: ULID generation for message ids and load tokens
  - jsoncodec/: JSON marshaling utilities
  - logging/: logger interface and adapters
  - metadata/: message metadata utilities
  - placement/: per-placement channel routing
  - registry/: the handle to ad table
  - sdk/: the ad SDK contract, error table and a simulated SDK
  - transport/: builds transports from configuration

# Usage Example

	cfg := &adbridge.Config{PubSubSystem: "channel"}

	svc := adbridge.NewService(cfg, logger, ctx, adbridge.ServiceDependencies{
		SDK: adbridge.NewSimulatedSDK(adbridge.SimulatedOptions{}),
	})

	svc.Start(ctx)
*/
package runtime
