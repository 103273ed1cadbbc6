package codec

import (
	"bytes"
	"errors"
	"math/big"
	"reflect"
	"strings"
	"testing"

	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
)

func TestEncodeMessageWireFormat(t *testing.T) {
	c := NewMessageCodec()
	tests := []struct {
		name  string
		value any
		want  []byte
	}{
		{"null", nil, []byte{0}},
		{"true", true, []byte{1}},
		{"false", false, []byte{2}},
		{"int32", int32(1), []byte{3, 1, 0, 0, 0}},
		{"small int is int32", 7, []byte{3, 7, 0, 0, 0}},
		{"negative int32", -1, []byte{3, 0xff, 0xff, 0xff, 0xff}},
		{"int64", int64(1) << 40, []byte{4, 0, 0, 0, 0, 0, 1, 0, 0}},
		{"string", "hi", []byte{7, 2, 'h', 'i'}},
		{"float64 aligned", 1.0, []byte{6, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xf0, 0x3f}},
		{"bytes", []byte{9, 8}, []byte{8, 2, 9, 8}},
		{"int32 list aligned", []int32{1}, []byte{9, 1, 0, 0, 1, 0, 0, 0}},
		{"list", []any{true, nil}, []byte{12, 2, 1, 0}},
		{"map", map[string]any{"a": 1}, []byte{13, 1, 7, 1, 'a', 3, 1, 0, 0, 0}},
		{"large int", big.NewInt(255), []byte{5, 2, 'f', 'f'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.EncodeMessage(tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("EncodeMessage(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestWriteSizePrefixes(t *testing.T) {
	tests := []struct {
		size int
		want []byte
	}{
		{253, []byte{253}},
		{254, []byte{254, 254, 0}},
		{300, []byte{254, 0x2c, 0x01}},
		{0x10000, []byte{255, 0, 0, 1, 0}},
	}
	for _, tt := range tests {
		w := NewWriter()
		w.WriteSize(tt.size)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Fatalf("WriteSize(%d) = %v, want %v", tt.size, w.Bytes(), tt.want)
		}
		got, err := NewReader(w.Bytes()).ReadSize()
		if err != nil || got != tt.size {
			t.Fatalf("ReadSize = %d, %v; want %d", got, err, tt.size)
		}
	}
}

func TestDecodeMessageRoundTrip(t *testing.T) {
	c := NewMessageCodec()
	values := []any{
		nil,
		true,
		int32(-42),
		int64(1) << 50,
		3.25,
		"héllo",
		strings.Repeat("x", 400),
		[]byte{1, 2, 3},
		[]int32{1, -2, 3},
		[]int64{1 << 40, -5},
		[]float32{1.5, -2.25},
		[]float64{0.5, 8},
		[]any{"a", int32(1), []any{false}},
		map[any]any{"k": int32(1), int32(2): "v", nil: nil},
	}

	for _, v := range values {
		encoded, err := c.EncodeMessage(v)
		if err != nil {
			t.Fatalf("encode %v: %v", v, err)
		}
		decoded, err := c.DecodeMessage(encoded)
		if err != nil {
			t.Fatalf("decode %v: %v", v, err)
		}
		if !reflect.DeepEqual(decoded, v) {
			t.Fatalf("round trip mismatch: got %#v, want %#v", decoded, v)
		}
	}
}

func TestEncodeTypedCollections(t *testing.T) {
	c := NewMessageCodec()
	encoded, err := c.EncodeMessage(map[string]string{"placementId": "P1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := c.DecodeMessage(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[any]any{"placementId": "P1"}
	if !reflect.DeepEqual(decoded, want) {
		t.Fatalf("got %#v, want %#v", decoded, want)
	}

	encoded, err = c.EncodeMessage([]string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, _ = c.DecodeMessage(encoded)
	if !reflect.DeepEqual(decoded, []any{"a", "b"}) {
		t.Fatalf("got %#v", decoded)
	}
}

func TestEncodeUnsupportedValue(t *testing.T) {
	c := NewMessageCodec()
	_, err := c.EncodeMessage(struct{ A int }{A: 1})
	if !errors.Is(err, errspkg.ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue, got %v", err)
	}
}

func TestDecodeMalformedMessages(t *testing.T) {
	c := NewMessageCodec()
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated int32", []byte{3, 1, 0}},
		{"truncated string", []byte{7, 5, 'a'}},
		{"truncated size prefix", []byte{7, 254, 1}},
		{"unknown tag", []byte{200}},
		{"trailing bytes", []byte{0, 0}},
		{"list longer than buffer", []byte{12, 9, 0}},
		{"unhashable map key", []byte{13, 1, 12, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.DecodeMessage(tt.data)
			if !errors.Is(err, errspkg.ErrMalformedMessage) {
				t.Fatalf("expected ErrMalformedMessage, got %v", err)
			}
			var decodeErr *errspkg.DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
		})
	}
}

func TestDecodeEmptyMessage(t *testing.T) {
	v, err := NewMessageCodec().DecodeMessage(nil)
	if err != nil || v != nil {
		t.Fatalf("expected nil, nil; got %v, %v", v, err)
	}
}

type pointExtension struct{}

type point struct{ X, Y int32 }

func (pointExtension) Tags() []byte { return []byte{130} }

func (pointExtension) WriteValue(c *MessageCodec, w *Writer, v any) (bool, error) {
	p, ok := v.(point)
	if !ok {
		return false, nil
	}
	_ = w.WriteByte(130)
	if err := c.WriteValue(w, p.X); err != nil {
		return true, err
	}
	return true, c.WriteValue(w, p.Y)
}

func (pointExtension) ReadValueOfType(c *MessageCodec, tag byte, r *Reader) (any, error) {
	x, err := c.ReadValue(r)
	if err != nil {
		return nil, err
	}
	y, err := c.ReadValue(r)
	if err != nil {
		return nil, err
	}
	return point{X: x.(int32), Y: y.(int32)}, nil
}

func TestExtensionRoundTrip(t *testing.T) {
	c := NewMessageCodec(pointExtension{})
	encoded, err := c.EncodeMessage([]any{point{X: 1, Y: 2}, "tail"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoded[2] != 130 {
		t.Fatalf("expected extension tag at offset 2, got %v", encoded)
	}
	decoded, err := c.DecodeMessage(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{point{X: 1, Y: 2}, "tail"}
	if !reflect.DeepEqual(decoded, want) {
		t.Fatalf("got %#v, want %#v", decoded, want)
	}
}

type reservedExtension struct{ pointExtension }

func (reservedExtension) Tags() []byte { return []byte{TagString} }

func TestExtensionCannotClaimReservedTags(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for reserved tag")
		}
	}()
	NewMessageCodec(reservedExtension{})
}

func TestExtensionCannotClaimTagTwice(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for duplicate tag")
		}
	}()
	NewMessageCodec(pointExtension{}, pointExtension{})
}
