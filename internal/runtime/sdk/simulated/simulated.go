// Package simulated provides an in-process ad SDK. Every callback fires on
// its own goroutine, which is how the real SDK behaves and what the bridge's
// dispatch discipline has to cope with.
package simulated

import (
	"sync"
	"time"

	"github.com/drblury/adbridge/internal/runtime/sdk"
)

// DefaultVersion is reported by Version when Options.Version is empty.
const DefaultVersion = "6.12.1"

// Options shape the simulated inventory.
type Options struct {
	Version string
	// Latency delays every callback.
	Latency time.Duration
	// InitFailure makes Init fail with this code when non-zero.
	InitFailure int
	// AutoCachePlacement is reported as available right after Init.
	AutoCachePlacement string
	// LoadFailures and PlayFailures map placement ids to failure codes.
	LoadFailures map[string]int
	PlayFailures map[string]int
}

type bannerKey struct {
	placementID string
	size        sdk.AdSize
}

// SDK implements sdk.SDK.
type SDK struct {
	opts Options
	wg   sync.WaitGroup

	mu             sync.Mutex
	initialized    bool
	loaded         map[string]bool
	banners        map[bannerKey]bool
	issued         []*Banner
	consent        sdk.Consent
	consentSet     bool
	consentVersion string
}

var _ sdk.SDK = (*SDK)(nil)

func New(opts Options) *SDK {
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	return &SDK{
		opts:    opts,
		loaded:  make(map[string]bool),
		banners: make(map[bannerKey]bool),
	}
}

// Wait blocks until every callback scheduled so far has returned.
func (s *SDK) Wait() {
	s.wg.Wait()
}

func (s *SDK) async(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.opts.Latency > 0 {
			time.Sleep(s.opts.Latency)
		}
		fn()
	}()
}

func (s *SDK) isInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *SDK) Init(appID string, cb sdk.InitCallback) {
	s.async(func() {
		if appID == "" {
			cb.OnError(sdk.NewError(sdk.CodeMissingRequiredArgumentsInit))
			return
		}
		if s.opts.InitFailure != 0 {
			cb.OnError(sdk.NewError(s.opts.InitFailure))
			return
		}
		s.mu.Lock()
		s.initialized = true
		if s.opts.AutoCachePlacement != "" {
			s.loaded[s.opts.AutoCachePlacement] = true
		}
		s.mu.Unlock()

		cb.OnSuccess()
		if s.opts.AutoCachePlacement != "" {
			cb.OnAutoCacheAdAvailable(s.opts.AutoCachePlacement)
		}
	})
}

func (s *SDK) LoadAd(placementID string, cb sdk.LoadCallback) {
	s.async(func() {
		if err := s.loadError(placementID); err != nil {
			cb.OnError(placementID, err)
			return
		}
		s.mu.Lock()
		s.loaded[placementID] = true
		s.mu.Unlock()
		cb.OnAdLoad(placementID)
	})
}

func (s *SDK) loadError(placementID string) *sdk.Error {
	if !s.isInitialized() {
		return sdk.NewError(sdk.CodeNotInitialized)
	}
	if code := s.opts.LoadFailures[placementID]; code != 0 {
		return sdk.NewError(code)
	}
	return nil
}

func (s *SDK) PlayAd(placementID string, _ sdk.AdConfig, cb sdk.PlayCallback) {
	s.async(func() {
		if !s.isInitialized() {
			cb.OnError(placementID, sdk.NewError(sdk.CodeNotInitialized))
			return
		}
		if code := s.opts.PlayFailures[placementID]; code != 0 {
			cb.OnError(placementID, sdk.NewError(code))
			return
		}
		s.mu.Lock()
		ready := s.loaded[placementID]
		s.loaded[placementID] = false
		s.mu.Unlock()
		if !ready {
			cb.OnError(placementID, sdk.NewError(sdk.CodeAdUnableToPlay))
			return
		}

		cb.CreativeID("sim-" + placementID)
		cb.OnAdStart(placementID)
		cb.OnAdViewed(placementID)
		cb.OnAdRewarded(placementID)
		cb.OnAdEnd(placementID)
	})
}

func (s *SDK) CanPlayAd(placementID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized && s.loaded[placementID]
}

func (s *SDK) LoadBanner(placementID string, size sdk.AdSize, cb sdk.LoadCallback) {
	s.async(func() {
		if err := s.loadError(placementID); err != nil {
			cb.OnError(placementID, err)
			return
		}
		if !size.IsBanner() {
			cb.OnError(placementID, sdk.NewError(sdk.CodeInvalidSize))
			return
		}
		s.mu.Lock()
		s.banners[bannerKey{placementID, size}] = true
		s.mu.Unlock()
		cb.OnAdLoad(placementID)
	})
}

func (s *SDK) CanPlayBanner(placementID string, size sdk.AdSize) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banners[bannerKey{placementID, size}]
}

func (s *SDK) GetBanner(placementID string, size sdk.AdSize, cb sdk.PlayCallback) sdk.Banner {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := bannerKey{placementID, size}
	if !s.banners[key] {
		return nil
	}
	delete(s.banners, key)
	b := &Banner{sdk: s, placementID: placementID, size: size, cb: cb}
	s.issued = append(s.issued, b)
	return b
}

// Banners lists every banner handed out by GetBanner.
func (s *SDK) Banners() []*Banner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Banner(nil), s.issued...)
}

func (s *SDK) UpdateConsentStatus(consent sdk.Consent, messageVersion string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consent = consent
	s.consentSet = true
	s.consentVersion = messageVersion
}

func (s *SDK) ConsentStatus() (sdk.Consent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consent, s.consentSet
}

func (s *SDK) ConsentMessageVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consentVersion
}

func (s *SDK) Version() string {
	return s.opts.Version
}
