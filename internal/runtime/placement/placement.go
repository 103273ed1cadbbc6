// Package placement keeps one method channel per placement id.
package placement

import (
	"sort"
	"sync"

	"github.com/drblury/adbridge/internal/runtime/channel"
)

// ChannelFactory builds the channel for a full channel name.
type ChannelFactory func(name string) *channel.MethodChannel

// Router creates placement channels on first use and hands out the same
// channel for every later request.
type Router struct {
	prefix  string
	factory ChannelFactory

	mu       sync.Mutex
	channels map[string]*channel.MethodChannel
}

func NewRouter(prefix string, factory ChannelFactory) *Router {
	if factory == nil {
		panic("adbridge: placement channel factory cannot be nil")
	}
	return &Router{
		prefix:   prefix,
		factory:  factory,
		channels: make(map[string]*channel.MethodChannel),
	}
}

// ChannelName is "<prefix>_<placementID>".
func (r *Router) ChannelName(placementID string) string {
	return r.prefix + "_" + placementID
}

func (r *Router) ChannelFor(placementID string) *channel.MethodChannel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.channels[placementID]; ok {
		return ch
	}
	ch := r.factory(r.ChannelName(placementID))
	r.channels[placementID] = ch
	return ch
}

func (r *Router) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}

// Placements lists the placement ids with a channel, sorted.
func (r *Router) Placements() []string {
	r.mu.Lock()
	out := make([]string, 0, len(r.channels))
	for pid := range r.channels {
		out = append(out, pid)
	}
	r.mu.Unlock()
	sort.Strings(out)
	return out
}
