package runtime

import (
	"net/http"
	"net/http/httptest"
	"testing"

	configpkg "github.com/drblury/adbridge/internal/runtime/config"
	"github.com/drblury/adbridge/internal/runtime/jsoncodec"
)

func TestInspectAdsSnapshot(t *testing.T) {
	b := startBridge(t, withConfig(func(c *configpkg.Config) {
		c.InspectCORSAllowedOrigins = []string{"http://localhost:3000"}
	}))
	b.init(t)
	b.call(t, MethodLoadBannerAd, bannerArgs(2, "B2"))
	b.call(t, MethodLoadAd, map[string]any{"placementId": "P1"})
	b.settle(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ads", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	b.svc.handleGetAds(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}
	var infos []AdInfo
	if err := jsoncodec.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("ads = %+v", infos)
	}
	info := infos[0]
	if info.Handle != 2 || info.Kind != "banner" || info.PlacementID != "B2" || info.State != "ready" {
		t.Fatalf("unexpected ad info %+v", info)
	}
	if info.Size == nil || info.Size.Name != "banner" {
		t.Fatalf("unexpected size %+v", info.Size)
	}

	rec = httptest.NewRecorder()
	b.svc.handleGetPlacements(rec, httptest.NewRequest(http.MethodGet, "/api/placements", nil))
	var placements []PlacementInfo
	if err := jsoncodec.Unmarshal(rec.Body.Bytes(), &placements); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(placements) != 1 || placements[0].PlacementID != "P1" || placements[0].Channel != "flutter_vungle/videoAd_P1" {
		t.Fatalf("placements = %+v", placements)
	}
}

func TestInspectRejectsWrites(t *testing.T) {
	b := startBridge(t, withConfig(func(c *configpkg.Config) {
		c.InspectCORSAllowedOrigins = []string{"*"}
	}))

	rec := httptest.NewRecorder()
	b.svc.handleGetAds(rec, httptest.NewRequest(http.MethodPost, "/api/ads", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/ads", nil)
	req.Header.Set("Origin", "http://example.com")
	rec = httptest.NewRecorder()
	b.svc.handleGetAds(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("OPTIONS status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestGetAllowedCORSOrigin(t *testing.T) {
	s := &Service{Conf: &configpkg.Config{InspectCORSAllowedOrigins: []string{"https://Admin.example.com"}}}
	if got := s.getAllowedCORSOrigin("https://admin.example.com"); got != "https://admin.example.com" {
		t.Fatalf("allowed origin = %q", got)
	}
	if got := s.getAllowedCORSOrigin("https://evil.example.com"); got != "" {
		t.Fatalf("unexpected origin %q", got)
	}
	if got := (&Service{}).getAllowedCORSOrigin("x"); got != "" {
		t.Fatalf("unexpected origin %q without config", got)
	}
}

func TestRegisterInspectHandlersSharesPort(t *testing.T) {
	s := &Service{}
	s.RegisterInspectHandlers(8081)
	s.RegisterHTTPHandler(8081, "/metrics", http.NotFoundHandler())
	if len(s.httpServers) != 1 {
		t.Fatalf("servers = %d, want 1", len(s.httpServers))
	}
}
