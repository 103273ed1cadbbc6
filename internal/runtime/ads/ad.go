// Package ads holds the ad objects the bridge tracks by handle and the value
// types they exchange with the host.
package ads

// Surface is a renderable view owned by an ad.
type Surface interface {
	RenderAd()
	SetAdVisibility(visible bool)
}

// AdObject is anything the registry can track. Load reports its outcome
// through an EventSink, never synchronously. Dispose is called at most once.
type AdObject interface {
	Load()
	Dispose()
	// Surface returns the view once the ad is ready to show one.
	Surface() (Surface, bool)
}

// EventSink receives lifecycle notifications addressed by handle. Calls may
// come from any goroutine.
type EventSink interface {
	OnAdLoad(handle int)
	OnAdLoadError(handle int, err Exception)
	OnAdStart(handle int)
	OnAdViewed(handle int)
	OnAdEnd(handle int)
	OnAdClick(handle int)
	OnAdLeftApplication(handle int)
	OnAdPlayError(handle int, err Exception)
}

// State tracks an ad through created, loading, ready or failed, and
// disposed.
type State int

const (
	StateCreated State = iota
	StateLoading
	StateReady
	StateFailed
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}
