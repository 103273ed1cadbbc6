package runtime

import (
	"net/http"
	"strings"

	"github.com/drblury/adbridge/internal/runtime/ads"
	"github.com/drblury/adbridge/internal/runtime/jsoncodec"
)

// AdInfo describes one tracked ad for the inspect API.
type AdInfo struct {
	Handle      int         `json:"handle"`
	Kind        string      `json:"kind"`
	PlacementID string      `json:"placement_id,omitempty"`
	State       string      `json:"state,omitempty"`
	Size        *ads.AdSize `json:"size,omitempty"`
}

// PlacementInfo describes one placement channel.
type PlacementInfo struct {
	PlacementID string `json:"placement_id"`
	Channel     string `json:"channel"`
}

// RegisterInspectHandlers serves read-only snapshots on port.
func (s *Service) RegisterInspectHandlers(port int) {
	s.RegisterHTTPHandler(port, "/api/ads", http.HandlerFunc(s.handleGetAds))
	s.RegisterHTTPHandler(port, "/api/placements", http.HandlerFunc(s.handleGetPlacements))
}

// Ads lists tracked ads ordered by handle.
func (s *Service) Ads() []AdInfo {
	entries := s.ads.Snapshot()
	out := make([]AdInfo, 0, len(entries))
	for _, e := range entries {
		info := AdInfo{Handle: e.Handle, Kind: "unknown"}
		if banner, ok := e.Ad.(*ads.BannerAd); ok {
			size := banner.Size()
			info.Kind = "banner"
			info.PlacementID = banner.PlacementID()
			info.State = banner.State().String()
			info.Size = &size
		}
		out = append(out, info)
	}
	return out
}

// PlacementChannels lists created placement channels ordered by id.
func (s *Service) PlacementChannels() []PlacementInfo {
	ids := s.placements.Placements()
	out := make([]PlacementInfo, 0, len(ids))
	for _, pid := range ids {
		out = append(out, PlacementInfo{PlacementID: pid, Channel: s.placements.ChannelName(pid)})
	}
	return out
}

func (s *Service) handleGetAds(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w, r, func() any { return s.Ads() })
}

func (s *Service) handleGetPlacements(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w, r, func() any { return s.PlacementChannels() })
}

func (s *Service) writeSnapshot(w http.ResponseWriter, r *http.Request, snapshot func() any) {
	w.Header().Set("Content-Type", "application/json")

	if s.Conf != nil && len(s.Conf.InspectCORSAllowedOrigins) > 0 {
		origin := r.Header.Get("Origin")
		allowedOrigin := s.getAllowedCORSOrigin(origin)
		if allowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
	}

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := jsoncodec.Marshal(snapshot())
	if err != nil {
		s.Logger.Error("Failed to encode snapshot", err, nil)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(body)
}

// getAllowedCORSOrigin returns the Access-Control-Allow-Origin value for
// requestOrigin, or "" when it is not allowed.
func (s *Service) getAllowedCORSOrigin(requestOrigin string) string {
	if s.Conf == nil {
		return ""
	}
	for _, allowed := range s.Conf.InspectCORSAllowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if strings.EqualFold(allowed, requestOrigin) {
			return requestOrigin
		}
	}
	return ""
}
