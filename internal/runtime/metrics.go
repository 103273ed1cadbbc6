package runtime

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// BridgeMetrics counts what crosses the bridge. Collectors work whether or
// not they were registered.
type BridgeMetrics struct {
	mu         sync.Mutex
	registerer prometheus.Registerer
	registered bool

	eventsDispatched  *prometheus.CounterVec
	eventsDiscarded   *prometheus.CounterVec
	commands          *prometheus.CounterVec
	adsTracked        prometheus.Gauge
	placementChannels prometheus.Gauge
	queueDepth        prometheus.Gauge
}

func newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adbridge",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "adbridge",
		Name:      name,
		Help:      help,
	})
}

// NewBridgeMetrics creates unregistered collectors. A nil registerer means
// prometheus.DefaultRegisterer.
func NewBridgeMetrics(registerer prometheus.Registerer) *BridgeMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &BridgeMetrics{
		registerer:        registerer,
		eventsDispatched:  newCounterVec("events_dispatched_total", "Events delivered to the host, by channel and method", []string{"channel", "method"}),
		eventsDiscarded:   newCounterVec("events_discarded_total", "Events dropped because the control channel was torn down", []string{"channel"}),
		commands:          newCounterVec("commands_total", "Method calls handled, by method and status", []string{"method", "status"}),
		adsTracked:        newGauge("ads_tracked", "Ad objects currently tracked by handle"),
		placementChannels: newGauge("placement_channels", "Placement channels created so far"),
		queueDepth:        newGauge("control_queue_depth", "Events waiting for the control goroutine"),
	}
}

// Register is safe to call more than once. When another BridgeMetrics
// already registered the same names, its collectors are adopted.
func (m *BridgeMetrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registered {
		return nil
	}

	var err error
	if m.eventsDispatched, err = registerOrExisting(m.registerer, m.eventsDispatched); err != nil {
		return err
	}
	if m.eventsDiscarded, err = registerOrExisting(m.registerer, m.eventsDiscarded); err != nil {
		return err
	}
	if m.commands, err = registerOrExisting(m.registerer, m.commands); err != nil {
		return err
	}
	if m.adsTracked, err = registerOrExisting(m.registerer, m.adsTracked); err != nil {
		return err
	}
	if m.placementChannels, err = registerOrExisting(m.registerer, m.placementChannels); err != nil {
		return err
	}
	if m.queueDepth, err = registerOrExisting(m.registerer, m.queueDepth); err != nil {
		return err
	}
	m.registered = true
	return nil
}

func registerOrExisting[C prometheus.Collector](r prometheus.Registerer, c C) (C, error) {
	err := r.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, err
}

func (m *BridgeMetrics) RecordDispatched(channel, method string) {
	m.eventsDispatched.WithLabelValues(channel, method).Inc()
}

func (m *BridgeMetrics) RecordDiscarded(channel string) {
	m.eventsDiscarded.WithLabelValues(channel).Inc()
}

func (m *BridgeMetrics) RecordCommand(method, status string) {
	m.commands.WithLabelValues(method, status).Inc()
}

func (m *BridgeMetrics) SetAdsTracked(n int) {
	m.adsTracked.Set(float64(n))
}

func (m *BridgeMetrics) SetPlacementChannels(n int) {
	m.placementChannels.Set(float64(n))
}

func (m *BridgeMetrics) SetQueueDepth(n int) {
	m.queueDepth.Set(float64(n))
}
