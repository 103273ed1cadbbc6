package runtime

import (
	"github.com/drblury/adbridge/internal/runtime/ads"
	loggingpkg "github.com/drblury/adbridge/internal/runtime/logging"
	"github.com/drblury/adbridge/internal/runtime/sdk"
)

// Events sent on the main channel.
const (
	eventInitComplete    = "initComplete"
	eventInitFailed      = "initFailed"
	eventInitAutoCacheAd = "initAutoCacheAd"
	eventOnAdEvent       = "onAdEvent"
)

// Events sent on placement channels.
const (
	eventLoadAdComplete = "loadAdComplete"
	eventLoadAdFailed   = "loadAdFailed"
	eventPlayAdStart    = "playAdStart"
	eventPlayAdComplete = "playAdComplete"
	eventPlayAdFailed   = "playAdFailed"
	eventPlayAdClick    = "playAdClick"
	eventPlayAdRewarded = "playAdRewarded"
	eventPlayAdLeftApp  = "playAdLeftApp"
	eventPlayAdViewed   = "playAdViewed"
)

// Ad event names carried in onAdEvent.
const (
	AdEventLoad            = "onAdLoad"
	AdEventLoadError       = "onAdLoadError"
	AdEventStart           = "onAdStart"
	AdEventViewed          = "onAdViewed"
	AdEventEnd             = "onAdEnd"
	AdEventClick           = "onAdClick"
	AdEventLeftApplication = "onAdLeftApplication"
	AdEventPlayError       = "onAdPlayError"
)

func errorArgs(err *sdk.Error) map[string]any {
	if err == nil {
		err = sdk.NewError(sdk.CodeUnknownError)
	}
	return map[string]any{
		argErrorCode:    err.Identifier(),
		argErrorMessage: err.Message,
	}
}

// adInstanceManager turns ad callbacks into onAdEvent calls on the main
// channel. The host may receive events for a handle it already disposed.
type adInstanceManager struct {
	s *Service
}

var _ ads.EventSink = (*adInstanceManager)(nil)

func (m *adInstanceManager) send(handle int, name string, exc *ads.Exception) {
	args := map[string]any{argAdID: handle, "eventName": name}
	if exc != nil {
		args["error"] = *exc
	}
	m.s.post(m.s.channel, eventOnAdEvent, args)
}

func (m *adInstanceManager) OnAdLoad(handle int) { m.send(handle, AdEventLoad, nil) }

func (m *adInstanceManager) OnAdLoadError(handle int, err ads.Exception) {
	m.send(handle, AdEventLoadError, &err)
}

func (m *adInstanceManager) OnAdStart(handle int)  { m.send(handle, AdEventStart, nil) }
func (m *adInstanceManager) OnAdViewed(handle int) { m.send(handle, AdEventViewed, nil) }
func (m *adInstanceManager) OnAdEnd(handle int)    { m.send(handle, AdEventEnd, nil) }
func (m *adInstanceManager) OnAdClick(handle int)  { m.send(handle, AdEventClick, nil) }

func (m *adInstanceManager) OnAdLeftApplication(handle int) {
	m.send(handle, AdEventLeftApplication, nil)
}

func (m *adInstanceManager) OnAdPlayError(handle int, err ads.Exception) {
	m.send(handle, AdEventPlayError, &err)
}

type initCallback struct {
	s *Service
}

func (c *initCallback) OnSuccess() {
	c.s.post(c.s.channel, eventInitComplete, map[string]any{})
}

func (c *initCallback) OnError(err *sdk.Error) {
	c.s.Logger.Info("SDK initialisation failed", loggingpkg.LogFields{"error": err})
	c.s.post(c.s.channel, eventInitFailed, errorArgs(err))
}

func (c *initCallback) OnAutoCacheAdAvailable(placementID string) {
	c.s.post(c.s.channel, eventInitAutoCacheAd, map[string]any{argPlacementID: placementID})
}

type placementLoadCallback struct {
	s *Service
}

func (c *placementLoadCallback) OnAdLoad(placementID string) {
	c.s.postPlacement(placementID, eventLoadAdComplete, nil)
}

func (c *placementLoadCallback) OnError(placementID string, err *sdk.Error) {
	c.s.Logger.Info("Ad load failed", loggingpkg.LogFields{"placement_id": placementID, "error": err})
	c.s.postPlacement(placementID, eventLoadAdFailed, errorArgs(err))
}

type placementPlayCallback struct {
	s *Service
}

func (c *placementPlayCallback) CreativeID(string) {}

func (c *placementPlayCallback) OnAdStart(placementID string) {
	c.s.postPlacement(placementID, eventPlayAdStart, nil)
}

func (c *placementPlayCallback) OnAdViewed(placementID string) {
	c.s.postPlacement(placementID, eventPlayAdViewed, nil)
}

func (c *placementPlayCallback) OnAdEnd(placementID string) {
	c.s.postPlacement(placementID, eventPlayAdComplete, nil)
}

func (c *placementPlayCallback) OnAdClick(placementID string) {
	c.s.postPlacement(placementID, eventPlayAdClick, nil)
}

func (c *placementPlayCallback) OnAdRewarded(placementID string) {
	c.s.postPlacement(placementID, eventPlayAdRewarded, nil)
}

func (c *placementPlayCallback) OnAdLeftApplication(placementID string) {
	c.s.postPlacement(placementID, eventPlayAdLeftApp, nil)
}

func (c *placementPlayCallback) OnError(placementID string, err *sdk.Error) {
	c.s.Logger.Info("Ad playback failed", loggingpkg.LogFields{"placement_id": placementID, "error": err})
	c.s.postPlacement(placementID, eventPlayAdFailed, errorArgs(err))
}
