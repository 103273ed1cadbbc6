// Package dispatch serialises outbound events onto a single control
// goroutine. Producers post from any goroutine and never block; the control
// goroutine delivers in exactly the order events were posted.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
	"github.com/drblury/adbridge/internal/runtime/logging"
)

// Invoker is the channel an event is sent through.
type Invoker interface {
	Name() string
	InvokeMethod(ctx context.Context, method string, args any) error
}

// Event is a method invocation waiting for the control goroutine.
type Event struct {
	Target    Invoker
	Method    string
	Arguments any
}

// Channel names the event's target, "" when it has none.
func (e Event) Channel() string {
	if e.Target == nil {
		return ""
	}
	return e.Target.Name()
}

// DeliverFunc sends one event. The default invokes the target directly.
type DeliverFunc func(ctx context.Context, ev Event) error

// Hooks observe the dispatcher. Any of them may be nil. They run on the
// goroutine that triggered them and must not block.
type Hooks struct {
	OnDelivered  func(ev Event, err error, elapsed time.Duration)
	OnDiscarded  func(ev Event)
	OnQueueDepth func(depth int)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithDeliver(fn DeliverFunc) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.deliver = fn
		}
	}
}

func WithHooks(h Hooks) Option {
	return func(d *Dispatcher) { d.hooks = h }
}

var ErrAlreadyRunning = errors.New("adbridge: dispatcher is already running")

type item struct {
	ev      Event
	barrier chan struct{}
}

// Dispatcher owns the control goroutine started by Run. Once closed it
// discards every event posted to it.
type Dispatcher struct {
	log     logging.ServiceLogger
	deliver DeliverFunc
	hooks   Hooks

	notify  chan struct{}
	closing chan struct{}
	done    chan struct{}

	mu      sync.Mutex
	queue   []item
	closed  bool
	running bool
}

func New(log logging.ServiceLogger, opts ...Option) *Dispatcher {
	if log == nil {
		panic("adbridge: dispatcher logger cannot be nil")
	}
	d := &Dispatcher{
		log:     log.With(logging.LogFields{"component": "dispatch"}),
		deliver: invoke,
		notify:  make(chan struct{}, 1),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func invoke(ctx context.Context, ev Event) error {
	if ev.Target == nil {
		return fmt.Errorf("%w: event %q has no target", errspkg.ErrNotFound, ev.Method)
	}
	return ev.Target.InvokeMethod(ctx, ev.Method, ev.Arguments)
}

// Post enqueues ev and returns immediately. It reports false when the
// dispatcher is closed and the event was discarded.
func (d *Dispatcher) Post(ev Event) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.discard(ev)
		return false
	}
	d.queue = append(d.queue, item{ev: ev})
	depth := len(d.queue)
	d.mu.Unlock()

	d.signal()
	d.reportDepth(depth)
	return true
}

// Flush waits until every event posted before the call has been delivered.
func (d *Dispatcher) Flush(ctx context.Context) error {
	barrier := make(chan struct{})
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return errspkg.ErrChannelClosed
	}
	d.queue = append(d.queue, item{barrier: barrier})
	d.mu.Unlock()
	d.signal()

	select {
	case <-barrier:
	case <-ctx.Done():
		return ctx.Err()
	}
	if d.Closed() {
		return errspkg.ErrChannelClosed
	}
	return nil
}

// Len is the number of events waiting for delivery.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, it := range d.queue {
		if it.barrier == nil {
			n++
		}
	}
	return n
}

func (d *Dispatcher) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Done is closed when Run returns.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Close stops delivery. Events still queued are discarded. It is safe to
// call more than once and from any goroutine.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	pending := d.queue
	d.queue = nil
	close(d.closing)
	d.mu.Unlock()

	for _, it := range pending {
		if it.barrier != nil {
			close(it.barrier)
			continue
		}
		d.discard(it.ev)
	}
	d.reportDepth(0)
}

// Run delivers events until ctx is cancelled or Close is called. The
// dispatcher is closed when Run returns.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return ErrAlreadyRunning
	}
	d.running = true
	d.mu.Unlock()

	defer close(d.done)
	defer d.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		it, ok := d.next()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-d.closing:
				return nil
			case <-d.notify:
			}
			continue
		}
		if it.barrier != nil {
			close(it.barrier)
			continue
		}
		d.deliverOne(ctx, it.ev)
	}
}

func (d *Dispatcher) next() (item, bool) {
	d.mu.Lock()
	if d.closed || len(d.queue) == 0 {
		d.mu.Unlock()
		return item{}, false
	}
	it := d.queue[0]
	d.queue[0] = item{}
	d.queue = d.queue[1:]
	depth := len(d.queue)
	d.mu.Unlock()

	d.reportDepth(depth)
	return it, true
}

func (d *Dispatcher) deliverOne(ctx context.Context, ev Event) {
	start := time.Now()
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic delivering %s: %v", ev.Method, r)
			}
		}()
		err = d.deliver(ctx, ev)
	}()

	if err != nil {
		d.log.Error("Event delivery failed", err, logging.LogFields{
			"channel": ev.Channel(),
			"method":  ev.Method,
		})
	}
	if d.hooks.OnDelivered != nil {
		d.hooks.OnDelivered(ev, err, time.Since(start))
	}
}

func (d *Dispatcher) discard(ev Event) {
	d.log.Debug("Discarding event after teardown", logging.LogFields{
		"channel": ev.Channel(),
		"method":  ev.Method,
	})
	if d.hooks.OnDiscarded != nil {
		d.hooks.OnDiscarded(ev)
	}
}

func (d *Dispatcher) signal() {
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) reportDepth(depth int) {
	if d.hooks.OnQueueDepth != nil {
		d.hooks.OnQueueDepth(depth)
	}
}
