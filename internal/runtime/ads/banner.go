package ads

import (
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/drblury/adbridge/internal/runtime/ids"
	"github.com/drblury/adbridge/internal/runtime/sdk"
)

// BannerAd is a banner bound to a handle. Each Load hands the SDK a callback
// carrying a fresh token; Dispose clears the token so callbacks that arrive
// afterwards do nothing.
type BannerAd struct {
	handle      int
	placementID string
	size        AdSize
	sdk         sdk.SDK
	sink        EventSink

	mu      sync.Mutex
	state   State
	pending ulid.ULID
	view    sdk.Banner
}

var _ AdObject = (*BannerAd)(nil)

func NewBannerAd(handle int, placementID string, size AdSize, s sdk.SDK, sink EventSink) *BannerAd {
	return &BannerAd{
		handle:      handle,
		placementID: placementID,
		size:        size,
		sdk:         s,
		sink:        sink,
	}
}

func (b *BannerAd) Handle() int         { return b.handle }
func (b *BannerAd) PlacementID() string { return b.placementID }
func (b *BannerAd) Size() AdSize        { return b.size }

func (b *BannerAd) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Load is a no-op unless the banner is freshly created.
func (b *BannerAd) Load() {
	b.mu.Lock()
	if b.state != StateCreated {
		b.mu.Unlock()
		return
	}
	token := ids.NewToken()
	b.pending = token
	b.state = StateLoading
	b.mu.Unlock()

	b.sdk.LoadBanner(b.placementID, b.size.Resolved(), &bannerLoadCallback{ad: b, token: token})
}

// settle moves a loading banner to next if token is still current.
func (b *BannerAd) settle(token ulid.ULID, next State) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateLoading || b.pending != token {
		return false
	}
	b.pending = ulid.ULID{}
	b.state = next
	return true
}

func (b *BannerAd) onLoaded(token ulid.ULID) {
	if !b.settle(token, StateReady) {
		return
	}
	b.sink.OnAdLoad(b.handle)

	size := b.size.Resolved()
	if !b.sdk.CanPlayBanner(b.placementID, size) {
		return
	}
	view := b.sdk.GetBanner(b.placementID, size, &bannerPlayCallback{ad: b})
	if view == nil {
		return
	}

	b.mu.Lock()
	if b.state == StateDisposed {
		b.mu.Unlock()
		view.DestroyAd()
		return
	}
	b.view = view
	b.mu.Unlock()
}

func (b *BannerAd) onLoadFailed(token ulid.ULID, err *sdk.Error) {
	if !b.settle(token, StateFailed) {
		return
	}
	b.sink.OnAdLoadError(b.handle, ExceptionFromError(err))
}

func (b *BannerAd) active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state != StateDisposed
}

// Surface renders and shows the banner on every call while it is ready.
func (b *BannerAd) Surface() (Surface, bool) {
	b.mu.Lock()
	view := b.view
	ready := b.state == StateReady
	b.mu.Unlock()
	if !ready || view == nil {
		return nil, false
	}

	view.DisableLifecycleManagement(true)
	view.RenderAd()
	view.SetAdVisibility(true)
	return view, true
}

// Dispose hides and destroys the banner view, if one was obtained.
func (b *BannerAd) Dispose() {
	b.mu.Lock()
	if b.state == StateDisposed {
		b.mu.Unlock()
		return
	}
	b.state = StateDisposed
	b.pending = ulid.ULID{}
	view := b.view
	b.view = nil
	b.mu.Unlock()

	if view != nil {
		view.SetAdVisibility(false)
		view.DestroyAd()
	}
}

type bannerLoadCallback struct {
	ad    *BannerAd
	token ulid.ULID
}

func (c *bannerLoadCallback) OnAdLoad(string) {
	c.ad.onLoaded(c.token)
}

func (c *bannerLoadCallback) OnError(_ string, err *sdk.Error) {
	c.ad.onLoadFailed(c.token, err)
}

// bannerPlayCallback forwards view events by handle until the banner is
// disposed.
type bannerPlayCallback struct {
	ad *BannerAd
}

func (c *bannerPlayCallback) forward(fn func(handle int)) {
	if c.ad.active() {
		fn(c.ad.handle)
	}
}

func (c *bannerPlayCallback) CreativeID(string)          {}
func (c *bannerPlayCallback) OnAdRewarded(string)        {}
func (c *bannerPlayCallback) OnAdStart(string)           { c.forward(c.ad.sink.OnAdStart) }
func (c *bannerPlayCallback) OnAdViewed(string)          { c.forward(c.ad.sink.OnAdViewed) }
func (c *bannerPlayCallback) OnAdEnd(string)             { c.forward(c.ad.sink.OnAdEnd) }
func (c *bannerPlayCallback) OnAdClick(string)           { c.forward(c.ad.sink.OnAdClick) }
func (c *bannerPlayCallback) OnAdLeftApplication(string) { c.forward(c.ad.sink.OnAdLeftApplication) }

func (c *bannerPlayCallback) OnError(_ string, err *sdk.Error) {
	exc := ExceptionFromError(err)
	c.forward(func(handle int) { c.ad.sink.OnAdPlayError(handle, exc) })
}
