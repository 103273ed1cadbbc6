package adbridge

import (
	"context"
	"errors"
	"testing"
)

func TestLoggerExports(t *testing.T) {
	logger := NewEntryServiceLogger(&stubEntry{})
	logger.Info("boot", LogFields{"component": "test"})
	NewNopServiceLogger().Debug("quiet", nil)
}

func TestEncodingExportAliases(t *testing.T) {
	payload := map[string]string{"hello": "world"}
	if _, err := Marshal(payload); err != nil {
		t.Fatalf("marshal alias failed: %v", err)
	}
	if err := Unmarshal([]byte(`{"hello":"world"}`), &payload); err != nil {
		t.Fatalf("unmarshal alias failed: %v", err)
	}
}

func TestMetadataExport(t *testing.T) {
	md := NewMetadata(MetadataKeyCorrelationID, "value")
	if md[MetadataKeyCorrelationID] != "value" {
		t.Fatalf("expected metadata to contain key, got %#v", md)
	}
}

func TestMethodCodecExport(t *testing.T) {
	codec, err := NewMethodCodec(CodecStandard, NewMessageCodec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload, err := codec.EncodeMethodCall(MethodCall{
		Method:    MethodLoadBannerAd,
		Arguments: map[string]any{"adId": 1, "size": AdSize{Name: "banner", Width: 320, Height: 50}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, err := codec.DecodeMethodCall(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	size, _ := call.Argument("size")
	if size != (AdSize{Name: "banner", Width: 320, Height: 50}) {
		t.Fatalf("size = %#v", size)
	}
}

func TestErrorTableExports(t *testing.T) {
	if got := ErrorIdentifier(1); got != "noServe" {
		t.Fatalf("ErrorIdentifier(1) = %q", got)
	}
	if got := ExceptionFromCode(28).Identifier(); got != "invalidSize" {
		t.Fatalf("identifier = %q", got)
	}
	if consent, ok := ParseConsent(ConsentAccepted); !ok || consent.String() != ConsentAccepted {
		t.Fatalf("ParseConsent = %v, %v", consent, ok)
	}
	if SizeFromName("banner").Width() != 320 {
		t.Fatal("expected banner to be 320 wide")
	}
}

func TestTryNewServiceExport(t *testing.T) {
	_, err := TryNewService(&Config{}, NewNopServiceLogger(), context.Background(), ServiceDependencies{})
	if !errors.Is(err, ErrSDKRequired) {
		t.Fatalf("expected ErrSDKRequired, got %v", err)
	}
}

type stubEntry struct {
	fields LogFields
	err    error
}

func (s *stubEntry) Error(args ...any) {}
func (s *stubEntry) Info(args ...any)  {}
func (s *stubEntry) Debug(args ...any) {}
func (s *stubEntry) Trace(args ...any) {}

func (s *stubEntry) WithError(err error) *stubEntry {
	clone := *s
	clone.err = err
	return &clone
}

func (s *stubEntry) WithField(key string, value any) *stubEntry {
	clone := *s
	if clone.fields == nil {
		clone.fields = make(LogFields)
	}
	clone.fields[key] = value
	return &clone
}
