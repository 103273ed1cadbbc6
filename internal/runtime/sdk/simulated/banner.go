package simulated

import (
	"sync"

	"github.com/drblury/adbridge/internal/runtime/sdk"
)

// Banner records how the bridge drives a banner view. The first render
// reports start and impression through the play callback.
type Banner struct {
	sdk         *SDK
	placementID string
	size        sdk.AdSize
	cb          sdk.PlayCallback

	mu                sync.Mutex
	lifecycleDisabled bool
	renders           int
	visible           bool
	destroyed         int
	started           bool
}

func (b *Banner) DisableLifecycleManagement(disabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lifecycleDisabled = disabled
}

func (b *Banner) RenderAd() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renders++
	if b.started || b.destroyed > 0 {
		return
	}
	b.started = true
	pid, cb := b.placementID, b.cb
	b.sdk.async(func() {
		cb.OnAdStart(pid)
		cb.OnAdViewed(pid)
	})
}

func (b *Banner) SetAdVisibility(visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = visible
}

func (b *Banner) DestroyAd() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyed++
	b.visible = false
}

func (b *Banner) PlacementID() string { return b.placementID }
func (b *Banner) Size() sdk.AdSize    { return b.size }

func (b *Banner) LifecycleDisabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lifecycleDisabled
}

func (b *Banner) Renders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renders
}

func (b *Banner) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// Destroyed counts DestroyAd calls.
func (b *Banner) Destroyed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyed
}
