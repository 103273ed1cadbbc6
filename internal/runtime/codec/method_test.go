package codec

import (
	"errors"
	"math"
	"reflect"
	"testing"

	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
)

func TestNewMethodCodec(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{"", CodecStandard, false},
		{CodecStandard, CodecStandard, false},
		{CodecJSON, CodecJSON, false},
		{CodecProto, CodecProto, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		c, err := NewMethodCodec(tt.name, nil)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.name, err)
		}
		if c.Name() != tt.wantName {
			t.Fatalf("NewMethodCodec(%q).Name() = %q, want %q", tt.name, c.Name(), tt.wantName)
		}
	}
}

func TestStandardMethodCallRoundTrip(t *testing.T) {
	c := &StandardMethodCodec{Messages: NewMessageCodec()}
	call := MethodCall{Method: "loadAd", Arguments: map[any]any{"placementId": "P1"}}

	data, err := c.EncodeMethodCall(call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := c.DecodeMethodCall(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, call) {
		t.Fatalf("got %#v, want %#v", got, call)
	}
	if pid, ok := got.StringArgument("placementId"); !ok || pid != "P1" {
		t.Fatalf("StringArgument = %q, %v", pid, ok)
	}
}

func TestStandardMethodCallRejectsTrailingBytes(t *testing.T) {
	c := &StandardMethodCodec{Messages: NewMessageCodec()}
	data, err := c.EncodeMethodCall(MethodCall{Method: "init"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = c.DecodeMethodCall(append(data, 0))
	if !errors.Is(err, errspkg.ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}

	_, err = c.DecodeMethodCall([]byte{3, 1, 0, 0, 0, 0})
	if !errors.Is(err, errspkg.ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage for non-string method, got %v", err)
	}
}

func TestStandardEnvelopes(t *testing.T) {
	c := &StandardMethodCodec{Messages: NewMessageCodec()}

	ok, err := c.EncodeSuccessEnvelope(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []byte{0, 1}; !reflect.DeepEqual(ok, want) {
		t.Fatalf("success envelope = %v, want %v", ok, want)
	}
	result, err := c.DecodeEnvelope(ok)
	if err != nil || result != true {
		t.Fatalf("DecodeEnvelope = %v, %v", result, err)
	}

	failed, err := c.EncodeErrorEnvelope("notImplemented", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = c.DecodeEnvelope(failed)
	var methodErr *MethodError
	if !errors.As(err, &methodErr) {
		t.Fatalf("expected *MethodError, got %v", err)
	}
	if methodErr.Code != "notImplemented" || methodErr.Message != "" || methodErr.Details != nil {
		t.Fatalf("unexpected method error %#v", methodErr)
	}

	_, err = c.DecodeEnvelope([]byte{7})
	if !errors.Is(err, errspkg.ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage for bad flag, got %v", err)
	}
}

func TestJSONMethodCodec(t *testing.T) {
	c := JSONMethodCodec{}
	data, err := c.EncodeMethodCall(MethodCall{Method: "playAd", Arguments: map[any]any{"placementId": "P1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, err := c.DecodeMethodCall(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.Method != "playAd" {
		t.Fatalf("method = %q", call.Method)
	}
	if pid, _ := call.StringArgument("placementId"); pid != "P1" {
		t.Fatalf("placementId = %q", pid)
	}

	env, err := c.EncodeSuccessEnvelope(map[string]any{"width": 320})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := c.DecodeEnvelope(env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	width, ok := AsInt(result.(map[string]any)["width"])
	if !ok || width != 320 {
		t.Fatalf("width = %v, %v", width, ok)
	}

	env, err = c.EncodeErrorEnvelope("notImplemented", "nope", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = c.DecodeEnvelope(env)
	var methodErr *MethodError
	if !errors.As(err, &methodErr) || methodErr.Code != "notImplemented" || methodErr.Message != "nope" {
		t.Fatalf("unexpected error %v", err)
	}

	if _, err := c.DecodeMethodCall([]byte(`{"args":{}}`)); !errors.Is(err, errspkg.ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage for missing method, got %v", err)
	}
}

func TestProtoMethodCodec(t *testing.T) {
	c := ProtoMethodCodec{}
	data, err := c.EncodeMethodCall(MethodCall{Method: "getAdSize", Arguments: map[string]any{"adId": 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, err := c.DecodeMethodCall(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.Method != "getAdSize" {
		t.Fatalf("method = %q", call.Method)
	}
	if id, ok := call.IntArgument("adId"); !ok || id != 3 {
		t.Fatalf("adId = %d, %v", id, ok)
	}

	env, err := c.EncodeErrorEnvelope("invalidArgument", "bad", "details")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = c.DecodeEnvelope(env)
	var methodErr *MethodError
	if !errors.As(err, &methodErr) || methodErr.Details != "details" {
		t.Fatalf("unexpected error %v", err)
	}

	env, err = c.EncodeSuccessEnvelope("6.12.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := c.DecodeEnvelope(env)
	if err != nil || result != "6.12.0" {
		t.Fatalf("DecodeEnvelope = %v, %v", result, err)
	}
}

type sized struct{ w, h int32 }

func (s sized) ToMap() map[string]any {
	return map[string]any{"width": s.w, "height": s.h}
}

func TestPlainFlattensMappers(t *testing.T) {
	got, err := Plain([]any{sized{w: 320, h: 50}, map[any]any{int32(1): "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{
		map[string]any{"width": int32(320), "height": int32(50)},
		map[string]any{"1": "x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	if _, err := Plain(struct{}{}); !errors.Is(err, errspkg.ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue, got %v", err)
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{"int", 7, 7, true},
		{"int32", int32(-3), -3, true},
		{"int64", int64(1 << 40), 1 << 40, true},
		{"whole float", float64(320), 320, true},
		{"fraction", 1.5, 0, false},
		{"two to the 63", math.Pow(2, 63), 0, false},
		{"min int64", float64(math.MinInt64), math.MinInt64, true},
		{"below min int64", -math.Pow(2, 64), 0, false},
		{"string", "1", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsInt(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("AsInt(%v) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
