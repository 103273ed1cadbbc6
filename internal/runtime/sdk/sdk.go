// Package sdk describes the external ad SDK the bridge drives. The SDK owns
// network fetches, rendering and consent storage; the bridge only relays its
// callbacks, which may arrive on any goroutine.
package sdk

// AdConfig carries per-play options.
type AdConfig struct {
	Muted   bool
	Ordinal int
}

// InitCallback receives the outcome of Init.
type InitCallback interface {
	OnSuccess()
	OnError(err *Error)
	OnAutoCacheAdAvailable(placementID string)
}

// LoadCallback receives the outcome of a load request.
type LoadCallback interface {
	OnAdLoad(placementID string)
	OnError(placementID string, err *Error)
}

// PlayCallback receives playback lifecycle notifications.
type PlayCallback interface {
	CreativeID(creativeID string)
	OnAdStart(placementID string)
	OnAdViewed(placementID string)
	OnAdEnd(placementID string)
	OnAdClick(placementID string)
	OnAdRewarded(placementID string)
	OnAdLeftApplication(placementID string)
	OnError(placementID string, err *Error)
}

// Banner is a loaded banner view.
type Banner interface {
	DisableLifecycleManagement(disabled bool)
	RenderAd()
	SetAdVisibility(visible bool)
	DestroyAd()
}

// SDK is the subset of the ad SDK the bridge calls into. Methods return
// immediately; outcomes arrive later through the callbacks.
type SDK interface {
	Init(appID string, cb InitCallback)
	LoadAd(placementID string, cb LoadCallback)
	PlayAd(placementID string, conf AdConfig, cb PlayCallback)
	CanPlayAd(placementID string) bool

	LoadBanner(placementID string, size AdSize, cb LoadCallback)
	CanPlayBanner(placementID string, size AdSize) bool
	// GetBanner returns nil when no banner is ready for the size.
	GetBanner(placementID string, size AdSize, cb PlayCallback) Banner

	UpdateConsentStatus(consent Consent, messageVersion string)
	// ConsentStatus reports false when no consent was ever recorded.
	ConsentStatus() (Consent, bool)
	ConsentMessageVersion() string

	Version() string
}
