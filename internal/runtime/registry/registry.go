// Package registry maps the integer handles chosen by the host to live ad
// objects.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/drblury/adbridge/internal/runtime/ads"
	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
)

// Entry is one tracked ad.
type Entry struct {
	Handle int
	Ad     ads.AdObject
}

// Registry is safe for concurrent use. Ads are disposed outside the lock so
// Dispose implementations may call back into the registry.
type Registry struct {
	mu  sync.RWMutex
	ads map[int]ads.AdObject
}

func New() *Registry {
	return &Registry{ads: make(map[int]ads.AdObject)}
}

// Track binds handle to ad. A handle that is already bound is rejected and
// the existing binding is kept.
func (r *Registry) Track(handle int, ad ads.AdObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ads[handle]; exists {
		return fmt.Errorf("%w: %d", errspkg.ErrDuplicateHandle, handle)
	}
	r.ads[handle] = ad
	return nil
}

func (r *Registry) Lookup(handle int) (ads.AdObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ad, ok := r.ads[handle]
	if !ok {
		return nil, fmt.Errorf("%w: ad %d", errspkg.ErrNotFound, handle)
	}
	return ad, nil
}

// ReverseLookup finds the handle ad is tracked under.
func (r *Registry) ReverseLookup(ad ads.AdObject) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for handle, tracked := range r.ads {
		if tracked == ad {
			return handle, true
		}
	}
	return 0, false
}

// Dispose untracks and disposes the ad under handle. It reports false when
// nothing was tracked.
func (r *Registry) Dispose(handle int) bool {
	r.mu.Lock()
	ad, ok := r.ads[handle]
	delete(r.ads, handle)
	r.mu.Unlock()
	if !ok {
		return false
	}
	ad.Dispose()
	return true
}

// DisposeAll empties the registry and disposes every ad it held.
func (r *Registry) DisposeAll() int {
	r.mu.Lock()
	held := r.ads
	r.ads = make(map[int]ads.AdObject)
	r.mu.Unlock()

	for _, ad := range held {
		ad.Dispose()
	}
	return len(held)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ads)
}

// Snapshot lists tracked ads ordered by handle.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.ads))
	for handle, ad := range r.ads {
		entries = append(entries, Entry{Handle: handle, Ad: ad})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Handle < entries[j].Handle })
	return entries
}
