package sdk

import (
	"strings"
	"testing"
	"unicode"
)

func TestErrorIdentifier(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{CodeNoServe, "noServe"},
		{CodeUnknownError, "unknownError"},
		{CodeConfigurationError, "configurationError"},
		{CodeAdExpired, "adExpired"},
		{CodeMissingRequiredArgumentsInit, "missingRequiredArgumentsForInit"},
		{CodeNotInitialized, "vungleNotInitialized"},
		{CodePlacementNotFound, "placementNotFound"},
		{CodeNetworkError, "networkError"},
		{CodeOperationCanceled, "operationCanceled"},
		{CodeIncorrectDefaultAPIUsage, "incorrectDefaultApiUsage"},
		{CodeWebViewRenderUnresponsive, "webviewRenderUnresponsive"},
		{CodeMissingHBPEventID, "missingHbpEventId"},
		{CodeAdRenderNetworkError, "adRenderNetworkError"},
		{0, ""},
		{-1, ""},
		{99999, ""},
	}
	for _, tt := range tests {
		if got := ErrorIdentifier(tt.code); got != tt.want {
			t.Errorf("ErrorIdentifier(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestErrorTableIsComplete(t *testing.T) {
	seen := make(map[string]int)
	for code := CodeNoServe; code <= CodeAdRenderNetworkError; code++ {
		id := ErrorIdentifier(code)
		if id == "" {
			t.Fatalf("code %d has no identifier", code)
		}
		if !unicode.IsLower(rune(id[0])) || strings.ContainsAny(id, "_- ") {
			t.Errorf("identifier %q for code %d is not lowerCamelCase", id, code)
		}
		if prev, dup := seen[id]; dup {
			t.Errorf("identifier %q used by codes %d and %d", id, prev, code)
		}
		seen[id] = code
		if ErrorMessage(code) == "" {
			t.Errorf("code %d has no message", code)
		}
	}
}

func TestErrorMessageFallback(t *testing.T) {
	if ErrorMessage(99999) != ErrorMessage(CodeUnknownError) {
		t.Fatal("expected unknown codes to use the unknownError message")
	}
	if KnownCode(99999) || !KnownCode(CodeNoServe) {
		t.Fatal("KnownCode mismatch")
	}
}

func TestNewError(t *testing.T) {
	err := NewError(CodePlacementNotFound)
	if err.Message != "Placement is not valid" {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if err.Identifier() != "placementNotFound" {
		t.Fatalf("unexpected identifier %q", err.Identifier())
	}
	if !strings.Contains(err.Error(), "13") {
		t.Fatalf("expected code in error string, got %q", err.Error())
	}
}

func TestSizeFromName(t *testing.T) {
	tests := []struct {
		name          string
		want          AdSize
		width, height int
	}{
		{"mrec", SizeMREC, 300, 250},
		{"default", SizeDefault, -1, -1},
		{"banner", SizeBanner, 320, 50},
		{"banner_short", SizeBannerShort, 300, 50},
		{"banner_leaderboard", SizeBannerLeaderboard, 728, 90},
		{"billboard", SizeDefault, -1, -1},
		{"", SizeDefault, -1, -1},
	}
	for _, tt := range tests {
		got := SizeFromName(tt.name)
		if got != tt.want {
			t.Errorf("SizeFromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
		if got.Width() != tt.width || got.Height() != tt.height {
			t.Errorf("%v dimensions = %dx%d, want %dx%d", got, got.Width(), got.Height(), tt.width, tt.height)
		}
	}
	if !SizeBanner.IsBanner() || SizeMREC.IsBanner() {
		t.Fatal("IsBanner mismatch")
	}
	if AdSize(42).Name() != "default" {
		t.Fatal("expected out of range size to report default")
	}
}

func TestConsent(t *testing.T) {
	if c, ok := ParseConsent("Accepted"); !ok || c != ConsentOptedIn {
		t.Fatalf("Accepted = %v, %v", c, ok)
	}
	if c, ok := ParseConsent("Denied"); !ok || c != ConsentOptedOut {
		t.Fatalf("Denied = %v, %v", c, ok)
	}
	for _, s := range []string{"", "accepted", "Maybe"} {
		if _, ok := ParseConsent(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
	if ConsentOptedIn.String() != "Accepted" || ConsentOptedOut.String() != "Denied" || Consent(0).String() != "" {
		t.Fatal("Consent.String mismatch")
	}
}
