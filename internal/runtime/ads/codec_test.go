package ads

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
	"github.com/drblury/adbridge/internal/runtime/sdk"
)

func TestAdSizeWireFormat(t *testing.T) {
	c := NewMessageCodec()
	got, err := c.EncodeMessage(AdSize{Name: "banner", Width: 320, Height: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{
		128,
		7, 6, 'b', 'a', 'n', 'n', 'e', 'r',
		3, 0x40, 0x01, 0, 0,
		3, 50, 0, 0, 0,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeMessage = %v, want %v", got, want)
	}
}

func TestAdSizeRoundTrip(t *testing.T) {
	c := NewMessageCodec()
	in := SizeOf(sdk.SizeBannerLeaderboard)
	encoded, err := c.EncodeMessage(map[string]any{"size": &in})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := c.DecodeMessage(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[any]any{"size": in}
	if !reflect.DeepEqual(decoded, want) {
		t.Fatalf("got %#v, want %#v", decoded, want)
	}
}

func TestAdSizeEqualityIgnoresDimensions(t *testing.T) {
	a := AdSize{Name: "banner", Width: 320, Height: 50}
	b := AdSize{Name: "banner", Width: 1, Height: 1}
	if !a.Equal(b) {
		t.Fatal("sizes with the same name should be equal")
	}
	if a.Equal(AdSize{Name: "mrec", Width: 320, Height: 50}) {
		t.Fatal("sizes with different names should differ")
	}
	// Unknown names resolve to the default size.
	if !(AdSize{Name: "nope"}).Equal(AdSize{Name: "default"}) {
		t.Fatal("unknown name should resolve to the default size")
	}
}

func TestExceptionKeepsWireMessage(t *testing.T) {
	c := NewMessageCodec()
	in := ExceptionFromError(&sdk.Error{Code: sdk.CodeNetworkError, Message: "connection reset by peer"})
	encoded, err := c.EncodeMessage(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoded[0] != TagException {
		t.Fatalf("expected tag %d, got %d", TagException, encoded[0])
	}
	decoded, err := c.DecodeMessage(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exc := decoded.(Exception)
	if exc.Code != in.Code || exc.Message != "connection reset by peer" {
		t.Fatalf("got %#v, want %#v", exc, in)
	}
	if exc.Identifier() != "networkError" {
		t.Fatalf("identifier = %q", exc.Identifier())
	}
}

func TestExceptionEmptyMessageUsesTable(t *testing.T) {
	c := NewMessageCodec()
	// tag, int32 code, null message
	data := []byte{TagException, 3, byte(sdk.CodePlacementNotFound), 0, 0, 0, 0}
	decoded, err := c.DecodeMessage(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exc := decoded.(Exception)
	if exc.Code != sdk.CodePlacementNotFound || exc.Message != sdk.ErrorMessage(sdk.CodePlacementNotFound) {
		t.Fatalf("unexpected exception %#v", exc)
	}
	if exc.Identifier() != "placementNotFound" {
		t.Fatalf("identifier = %q", exc.Identifier())
	}
}

func TestExceptionUnknownCodeKeepsMessage(t *testing.T) {
	c := NewMessageCodec()
	encoded, err := c.EncodeMessage(&Exception{Code: 99999, Message: "custom"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := c.DecodeMessage(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := decoded.(Exception); got.Code != 99999 || got.Message != "custom" {
		t.Fatalf("unexpected exception %#v", got)
	}
}

func TestExceptionEqualityByCode(t *testing.T) {
	if !(Exception{Code: 10, Message: "a"}).Equal(Exception{Code: 10, Message: "b"}) {
		t.Fatal("exceptions with the same code should be equal")
	}
	if ExceptionFromError(nil).Code != sdk.CodeUnknownError {
		t.Fatal("nil SDK error should map to unknownError")
	}
}

func TestExtensionRejectsWrongFieldTypes(t *testing.T) {
	c := NewMessageCodec()
	tests := []struct {
		name string
		data []byte
	}{
		{"size name not string", []byte{128, 3, 1, 0, 0, 0, 3, 1, 0, 0, 0, 3, 1, 0, 0, 0}},
		{"size width not int32", []byte{128, 7, 1, 'x', 1, 3, 1, 0, 0, 0}},
		{"exception code not int32", []byte{129, 7, 1, 'x', 7, 1, 'y'}},
		{"truncated exception", []byte{129, 3, 1, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.DecodeMessage(tt.data)
			if !errors.Is(err, errspkg.ErrMalformedMessage) {
				t.Fatalf("expected ErrMalformedMessage, got %v", err)
			}
		})
	}
}

func TestSizeFromValue(t *testing.T) {
	want := AdSize{Name: "banner", Width: 320, Height: 50}
	tests := []struct {
		name  string
		value any
		ok    bool
	}{
		{"value", want, true},
		{"pointer", &want, true},
		{"json map", map[string]any{"name": "banner", "width": float64(320), "height": float64(50)}, true},
		{"standard map", map[any]any{"name": "banner", "width": int32(320), "height": int32(50)}, true},
		{"missing name", map[string]any{"width": 320}, false},
		{"nil pointer", (*AdSize)(nil), false},
		{"string", "banner", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SizeFromValue(tt.value)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != want {
				t.Fatalf("got %+v, want %+v", got, want)
			}
		})
	}
}
