package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/plugin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/drblury/adbridge/internal/runtime/ads"
	channelpkg "github.com/drblury/adbridge/internal/runtime/channel"
	codecpkg "github.com/drblury/adbridge/internal/runtime/codec"
	configpkg "github.com/drblury/adbridge/internal/runtime/config"
	"github.com/drblury/adbridge/internal/runtime/dispatch"
	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
	loggingpkg "github.com/drblury/adbridge/internal/runtime/logging"
	"github.com/drblury/adbridge/internal/runtime/metadata"
	"github.com/drblury/adbridge/internal/runtime/placement"
	"github.com/drblury/adbridge/internal/runtime/registry"
	"github.com/drblury/adbridge/internal/runtime/sdk"
	transportpkg "github.com/drblury/adbridge/internal/runtime/transport"
	"github.com/drblury/adbridge/transport"
)

var routerRun = func(router *message.Router, ctx context.Context) error {
	return router.Run(ctx)
}

// ServiceDependencies holds the collaborators of a Service. SDK is required;
// leave the rest zero for the defaults.
type ServiceDependencies struct {
	SDK sdk.SDK

	Middlewares               []MiddlewareRegistration // Appended after the default middleware chain.
	DisableDefaultMiddlewares bool                     // Skips registering the default middleware chain when true.
	TransportFactory          transportpkg.Factory

	// Messenger replaces the transport publisher for outbound method calls.
	Messenger channelpkg.Messenger
	// MetricsRegisterer defaults to prometheus.DefaultRegisterer.
	MetricsRegisterer prometheus.Registerer
}

// Service is the execution surface of the bridge. It owns the ad objects,
// drives the SDK and sends every notification to the host from a single
// control goroutine.
type Service struct {
	Conf   *configpkg.Config
	Logger loggingpkg.ServiceLogger

	sdk          sdk.SDK
	transport    transport.Transport
	capabilities transport.Capabilities
	router       *message.Router
	registerer   prometheus.Registerer

	methods    codecpkg.MethodCodec
	channel    *channelpkg.MethodChannel
	placements *placement.Router
	ads        *registry.Registry
	dispatcher *dispatch.Dispatcher
	metrics    *BridgeMetrics
	commands   map[string]commandFunc

	httpServers   map[int]*http.ServeMux
	httpServersMu sync.Mutex
	running       []*http.Server
}

// NewService is TryNewService that panics on error.
func NewService(conf *configpkg.Config, log loggingpkg.ServiceLogger, ctx context.Context, deps ServiceDependencies) *Service {
	s, err := TryNewService(conf, log, ctx, deps)
	if err != nil {
		panic(err)
	}
	return s
}

// TryNewService validates conf, builds the transport and wires the bridge.
// Call Start to begin serving commands and delivering events.
func TryNewService(conf *configpkg.Config, log loggingpkg.ServiceLogger, ctx context.Context, deps ServiceDependencies) (*Service, error) {
	if conf == nil {
		return nil, errspkg.ErrConfigRequired
	}
	if log == nil {
		return nil, errspkg.ErrLoggerRequired
	}
	if deps.SDK == nil {
		return nil, errspkg.ErrSDKRequired
	}
	resolved := conf.WithDefaults()
	if err := resolved.Validate(); err != nil {
		return nil, errspkg.NewConfigValidationError(err)
	}

	wmLogger := loggingpkg.NewWatermillAdapter(log)
	log.Info("Creating ad bridge service", loggingpkg.LogFields{
		"pubsub_system": resolved.PubSubSystem,
		"config":        resolved,
	})

	s := &Service{
		Conf:       &resolved,
		Logger:     log,
		sdk:        deps.SDK,
		registerer: deps.MetricsRegisterer,
		ads:        registry.New(),
	}
	if s.registerer == nil {
		s.registerer = prometheus.DefaultRegisterer
	}

	s.metrics = NewBridgeMetrics(s.registerer)
	if resolved.MetricsEnabled {
		if err := s.metrics.Register(); err != nil {
			return nil, fmt.Errorf("register bridge metrics: %w", err)
		}
	}

	methods, err := codecpkg.NewMethodCodec(resolved.MethodCodec, ads.NewMessageCodec())
	if err != nil {
		return nil, err
	}
	s.methods = methods

	factory := deps.TransportFactory
	if factory == nil {
		factory = transportpkg.DefaultFactory()
	}
	built, err := factory.Build(ctx, s.Conf, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("build %s transport: %w", resolved.PubSubSystem, err)
	}
	s.transport = built.Transport
	s.capabilities = built.Capabilities
	if !s.capabilities.SupportsOrdering {
		log.Info("Transport does not guarantee ordering; host may observe events out of order", loggingpkg.LogFields{
			"pubsub_system": resolved.PubSubSystem,
		})
	}

	messenger := deps.Messenger
	if messenger == nil {
		pm, err := channelpkg.NewPublisherMessenger(s.transport.Publisher)
		if err != nil {
			_ = s.transport.Close()
			return nil, err
		}
		messenger = pm
	}
	messenger = sizeLimitedMessenger{next: messenger, caps: s.capabilities}

	s.channel = channelpkg.NewMethodChannel(resolved.ChannelName, methods, messenger)
	s.placements = placement.NewRouter(resolved.PlacementChannelPrefix, func(name string) *channelpkg.MethodChannel {
		return channelpkg.NewMethodChannel(name, methods, messenger)
	})
	s.dispatcher = dispatch.New(log,
		dispatch.WithDeliver(s.deliver),
		dispatch.WithHooks(dispatch.Hooks{
			OnDelivered: func(ev dispatch.Event, err error, _ time.Duration) {
				if err == nil {
					s.metrics.RecordDispatched(ev.Channel(), ev.Method)
				}
			},
			OnDiscarded: func(ev dispatch.Event) {
				s.metrics.RecordDiscarded(ev.Channel())
			},
			OnQueueDepth: s.metrics.SetQueueDepth,
		}),
	)
	s.commands = s.commandTable()

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		_ = s.transport.Close()
		return nil, err
	}
	s.router = router
	s.router.AddPlugin(plugin.SignalsHandler)

	if err := s.registerConfiguredMiddlewares(deps); err != nil {
		_ = s.transport.Close()
		return nil, err
	}
	s.router.AddHandler(
		"adbridge_commands",
		channelpkg.Topic(resolved.CommandTopic),
		s.transport.Subscriber,
		channelpkg.Topic(resolved.ReplyTopic),
		s.transport.Publisher,
		s.handleCommandMessage,
	)

	if resolved.InspectEnabled {
		s.RegisterInspectHandlers(resolved.InspectPort)
	}
	return s, nil
}

// Start delivers events and serves commands until ctx is cancelled or the
// router stops. The control goroutine is torn down on return.
func (s *Service) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.startHTTPServers()
	defer s.stopHTTPServers()

	go func() {
		if err := s.dispatcher.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			s.Logger.Error("Control goroutine stopped", err, nil)
		}
	}()

	err := routerRun(s.router, runCtx)
	cancel()
	<-s.dispatcher.Done()
	return err
}

// Running is closed once the command router is ready.
func (s *Service) Running() chan struct{} {
	return s.router.Running()
}

// Detach tears down the host surface: every tracked ad is disposed and
// events produced afterwards are discarded.
func (s *Service) Detach() {
	n := s.ads.DisposeAll()
	s.dispatcher.Close()
	s.metrics.SetAdsTracked(0)
	s.Logger.Debug("Detached from host", loggingpkg.LogFields{"disposed": n})
}

// Close detaches, stops the router and closes the transport.
func (s *Service) Close() error {
	s.Detach()
	return errors.Join(s.router.Close(), s.transport.Close())
}

// Flush waits until every event posted so far reached the transport.
func (s *Service) Flush(ctx context.Context) error {
	return s.dispatcher.Flush(ctx)
}

// Capabilities describes the transport the service runs on.
func (s *Service) Capabilities() transport.Capabilities {
	return s.capabilities
}

// Publisher and Subscriber expose the transport so hosts sharing an
// in-memory transport can attach to it.
func (s *Service) Publisher() message.Publisher   { return s.transport.Publisher }
func (s *Service) Subscriber() message.Subscriber { return s.transport.Subscriber }

// MethodCodec is the codec every channel of this service uses.
func (s *Service) MethodCodec() codecpkg.MethodCodec { return s.methods }

// Registry is the handle table of tracked ads.
func (s *Service) Registry() *registry.Registry { return s.ads }

// Placements is the router holding one channel per placement id.
func (s *Service) Placements() *placement.Router { return s.placements }

func (s *Service) registerConfiguredMiddlewares(deps ServiceDependencies) error {
	var defaults []MiddlewareRegistration
	if !deps.DisableDefaultMiddlewares {
		defaults = DefaultMiddlewares()
	}
	registrations := make([]MiddlewareRegistration, 0, len(defaults)+len(deps.Middlewares))
	registrations = append(registrations, defaults...)
	registrations = append(registrations, deps.Middlewares...)

	for _, reg := range registrations {
		if err := s.RegisterMiddleware(reg); err != nil {
			name := reg.Name
			if name == "" {
				name = "anonymous_middleware"
			}
			return fmt.Errorf("failed to register middleware %s: %w", name, err)
		}
	}
	return nil
}

// post hands an event to the control goroutine without blocking.
func (s *Service) post(target *channelpkg.MethodChannel, method string, args any) {
	s.dispatcher.Post(dispatch.Event{Target: target, Method: method, Arguments: args})
}

// postPlacement sends on the placement's channel, creating it on first use.
func (s *Service) postPlacement(placementID, method string, args map[string]any) {
	if args == nil {
		args = make(map[string]any, 1)
	}
	args[argPlacementID] = placementID
	ch := s.placements.ChannelFor(placementID)
	s.metrics.SetPlacementChannels(s.placements.Len())
	s.post(ch, method, args)
}

func (s *Service) deliver(ctx context.Context, ev dispatch.Event) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "DeliverEvent", trace.WithAttributes(
		attribute.String("adbridge.channel", ev.Channel()),
		attribute.String("adbridge.method", ev.Method),
	))
	defer span.End()

	if ev.Target == nil {
		return fmt.Errorf("%w: event %q has no target", errspkg.ErrNotFound, ev.Method)
	}
	err := ev.Target.InvokeMethod(ctx, ev.Method, ev.Arguments)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// sizeLimitedMessenger refuses payloads the transport would reject.
type sizeLimitedMessenger struct {
	next channelpkg.Messenger
	caps transport.Capabilities
}

func (m sizeLimitedMessenger) Send(ctx context.Context, channel string, payload []byte, md metadata.Metadata) error {
	if !m.caps.Accepts(len(payload)) {
		return fmt.Errorf("payload of %d bytes on %s exceeds the %s limit of %d bytes",
			len(payload), channel, m.caps.Name, m.caps.MaxMessageSize)
	}
	return m.next.Send(ctx, channel, payload, md)
}

func (s *Service) RegisterHTTPHandler(port int, pattern string, handler http.Handler) {
	s.httpServersMu.Lock()
	defer s.httpServersMu.Unlock()

	if s.httpServers == nil {
		s.httpServers = make(map[int]*http.ServeMux)
	}

	mux, ok := s.httpServers[port]
	if !ok {
		mux = http.NewServeMux()
		s.httpServers[port] = mux
	}

	mux.Handle(pattern, handler)
}

func (s *Service) startHTTPServers() {
	s.httpServersMu.Lock()
	defer s.httpServersMu.Unlock()

	for port, mux := range s.httpServers {
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		s.running = append(s.running, srv)
		s.Logger.Info("Starting HTTP server", loggingpkg.LogFields{"address": srv.Addr})
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.Logger.Error("Failed to start HTTP server", err, loggingpkg.LogFields{"address": srv.Addr})
			}
		}()
	}
}

func (s *Service) stopHTTPServers() {
	s.httpServersMu.Lock()
	servers := s.running
	s.running = nil
	s.httpServersMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		_ = srv.Shutdown(ctx)
	}
}
