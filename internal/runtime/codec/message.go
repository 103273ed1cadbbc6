// Package codec implements the binary value encoding shared with the host
// surface. The standard tags 0..14 follow the Flutter standard message codec
// byte for byte; domain types plug in through an Extension that owns tags
// above MaxReservedTag.
package codec

import (
	"fmt"
	"math"
	"math/big"
	"reflect"

	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
)

const (
	TagNull        byte = 0
	TagTrue        byte = 1
	TagFalse       byte = 2
	TagInt32       byte = 3
	TagInt64       byte = 4
	TagLargeInt    byte = 5
	TagFloat64     byte = 6
	TagString      byte = 7
	TagUint8List   byte = 8
	TagInt32List   byte = 9
	TagInt64List   byte = 10
	TagFloat64List byte = 11
	TagList        byte = 12
	TagMap         byte = 13
	TagFloat32List byte = 14

	// MaxReservedTag is the last tag owned by the standard codec. Extension
	// tags must be strictly greater.
	MaxReservedTag byte = 127
)

// Extension encodes values the standard codec does not know about.
type Extension interface {
	// Tags lists the tag bytes the extension owns.
	Tags() []byte
	// WriteValue reports false when v is not one of the extension's types.
	WriteValue(c *MessageCodec, w *Writer, v any) (bool, error)
	// ReadValueOfType decodes the payload that follows one of Tags().
	ReadValueOfType(c *MessageCodec, tag byte, r *Reader) (any, error)
}

// MessageCodec is the standard codec plus any registered extensions.
type MessageCodec struct {
	extensions []Extension
	byTag      map[byte]Extension
}

// NewMessageCodec panics when an extension claims a reserved tag or two
// extensions claim the same tag.
func NewMessageCodec(extensions ...Extension) *MessageCodec {
	c := &MessageCodec{byTag: make(map[byte]Extension)}
	for _, ext := range extensions {
		if ext == nil {
			continue
		}
		for _, tag := range ext.Tags() {
			if tag <= MaxReservedTag {
				panic(fmt.Sprintf("adbridge: extension tag %d collides with the standard codec range", tag))
			}
			if _, taken := c.byTag[tag]; taken {
				panic(fmt.Sprintf("adbridge: extension tag %d registered twice", tag))
			}
			c.byTag[tag] = ext
		}
		c.extensions = append(c.extensions, ext)
	}
	return c
}

// EncodeMessage encodes a single value.
func (c *MessageCodec) EncodeMessage(v any) ([]byte, error) {
	w := NewWriter()
	if err := c.WriteValue(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DecodeMessage decodes a single value. An empty message decodes to nil;
// trailing bytes are rejected so a bad frame never bleeds into the next.
func (c *MessageCodec) DecodeMessage(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	r := NewReader(data)
	v, err := c.ReadValue(r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() > 0 {
		return nil, errspkg.NewDecodeError(r.Pos(), -1, "message corrupted: trailing bytes")
	}
	return v, nil
}

// WriteValue writes the tag and payload for v.
func (c *MessageCodec) WriteValue(w *Writer, v any) error {
	for _, ext := range c.extensions {
		handled, err := ext.WriteValue(c, w, v)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	switch x := v.(type) {
	case nil:
		_ = w.WriteByte(TagNull)
	case bool:
		if x {
			_ = w.WriteByte(TagTrue)
		} else {
			_ = w.WriteByte(TagFalse)
		}
	case int8:
		writeInt(w, int64(x))
	case int16:
		writeInt(w, int64(x))
	case int32:
		writeInt(w, int64(x))
	case int:
		writeInt(w, int64(x))
	case int64:
		writeInt(w, x)
	case uint8:
		writeInt(w, int64(x))
	case uint16:
		writeInt(w, int64(x))
	case uint32:
		writeInt(w, int64(x))
	case uint:
		if uint64(x) > math.MaxInt64 {
			return fmt.Errorf("%w: %d overflows int64", errspkg.ErrUnsupportedValue, x)
		}
		writeInt(w, int64(x))
	case uint64:
		if x > math.MaxInt64 {
			return fmt.Errorf("%w: %d overflows int64", errspkg.ErrUnsupportedValue, x)
		}
		writeInt(w, int64(x))
	case *big.Int:
		if x == nil {
			_ = w.WriteByte(TagNull)
			return nil
		}
		_ = w.WriteByte(TagLargeInt)
		writeBlob(w, []byte(x.Text(16)))
	case float32:
		writeFloat64(w, float64(x))
	case float64:
		writeFloat64(w, x)
	case string:
		_ = w.WriteByte(TagString)
		writeBlob(w, []byte(x))
	case []byte:
		_ = w.WriteByte(TagUint8List)
		writeBlob(w, x)
	case []int32:
		_ = w.WriteByte(TagInt32List)
		w.WriteSize(len(x))
		w.WriteAlignment(4)
		for _, n := range x {
			w.WriteInt32(n)
		}
	case []int64:
		_ = w.WriteByte(TagInt64List)
		w.WriteSize(len(x))
		w.WriteAlignment(8)
		for _, n := range x {
			w.WriteInt64(n)
		}
	case []float32:
		_ = w.WriteByte(TagFloat32List)
		w.WriteSize(len(x))
		w.WriteAlignment(4)
		for _, f := range x {
			w.WriteFloat32(f)
		}
	case []float64:
		_ = w.WriteByte(TagFloat64List)
		w.WriteSize(len(x))
		w.WriteAlignment(8)
		for _, f := range x {
			w.WriteFloat64(f)
		}
	case []any:
		_ = w.WriteByte(TagList)
		w.WriteSize(len(x))
		for _, item := range x {
			if err := c.WriteValue(w, item); err != nil {
				return err
			}
		}
	case map[any]any:
		_ = w.WriteByte(TagMap)
		w.WriteSize(len(x))
		for k, item := range x {
			if err := c.WriteValue(w, k); err != nil {
				return err
			}
			if err := c.WriteValue(w, item); err != nil {
				return err
			}
		}
	case map[string]any:
		_ = w.WriteByte(TagMap)
		w.WriteSize(len(x))
		for k, item := range x {
			if err := c.WriteValue(w, k); err != nil {
				return err
			}
			if err := c.WriteValue(w, item); err != nil {
				return err
			}
		}
	default:
		return c.writeReflected(w, v)
	}
	return nil
}

// writeReflected covers typed slices and maps such as []string or
// map[string]string.
func (c *MessageCodec) writeReflected(w *Writer, v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		_ = w.WriteByte(TagList)
		w.WriteSize(rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if err := c.WriteValue(w, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		_ = w.WriteByte(TagMap)
		w.WriteSize(rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			if err := c.WriteValue(w, iter.Key().Interface()); err != nil {
				return err
			}
			if err := c.WriteValue(w, iter.Value().Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Pointer:
		if rv.IsNil() {
			_ = w.WriteByte(TagNull)
			return nil
		}
	}
	return fmt.Errorf("%w: %T", errspkg.ErrUnsupportedValue, v)
}

// ReadValue reads one tag and its payload.
func (c *MessageCodec) ReadValue(r *Reader) (any, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	return c.ReadValueOfType(tag, r)
}

// ReadValueOfType decodes the payload for an already consumed tag.
func (c *MessageCodec) ReadValueOfType(tag byte, r *Reader) (any, error) {
	prevTag := r.tag
	r.tag = int(tag)
	defer func() { r.tag = prevTag }()

	if ext, ok := c.byTag[tag]; ok {
		return ext.ReadValueOfType(c, tag, r)
	}

	switch tag {
	case TagNull:
		return nil, nil
	case TagTrue:
		return true, nil
	case TagFalse:
		return false, nil
	case TagInt32:
		return r.ReadInt32()
	case TagInt64:
		return r.ReadInt64()
	case TagLargeInt:
		raw, err := readBlob(r)
		if err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(string(raw), 16)
		if !ok {
			return nil, r.fail("invalid large integer")
		}
		return n, nil
	case TagFloat64:
		if err := r.ReadAlignment(8); err != nil {
			return nil, err
		}
		return r.ReadFloat64()
	case TagString:
		raw, err := readBlob(r)
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	case TagUint8List:
		return readBlob(r)
	case TagInt32List:
		n, err := readListHeader(r, 4)
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			if out[i], err = r.ReadInt32(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case TagInt64List:
		n, err := readListHeader(r, 8)
		if err != nil {
			return nil, err
		}
		out := make([]int64, n)
		for i := range out {
			if out[i], err = r.ReadInt64(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case TagFloat32List:
		n, err := readListHeader(r, 4)
		if err != nil {
			return nil, err
		}
		out := make([]float32, n)
		for i := range out {
			if out[i], err = r.ReadFloat32(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case TagFloat64List:
		n, err := readListHeader(r, 8)
		if err != nil {
			return nil, err
		}
		out := make([]float64, n)
		for i := range out {
			if out[i], err = r.ReadFloat64(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case TagList:
		n, err := r.ReadSize()
		if err != nil {
			return nil, err
		}
		// every element takes at least one byte
		if err := r.need(n); err != nil {
			return nil, err
		}
		out := make([]any, n)
		for i := range out {
			if out[i], err = c.ReadValue(r); err != nil {
				return nil, err
			}
		}
		return out, nil
	case TagMap:
		n, err := r.ReadSize()
		if err != nil {
			return nil, err
		}
		if err := r.need(2 * n); err != nil {
			return nil, err
		}
		out := make(map[any]any, n)
		for i := 0; i < n; i++ {
			k, err := c.ReadValue(r)
			if err != nil {
				return nil, err
			}
			if k != nil && !reflect.TypeOf(k).Comparable() {
				return nil, r.fail(fmt.Sprintf("map key of type %T is not hashable", k))
			}
			v, err := c.ReadValue(r)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}
	return nil, r.fail("unknown tag")
}

func writeInt(w *Writer, v int64) {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		_ = w.WriteByte(TagInt32)
		w.WriteInt32(int32(v))
		return
	}
	_ = w.WriteByte(TagInt64)
	w.WriteInt64(v)
}

func writeFloat64(w *Writer, v float64) {
	_ = w.WriteByte(TagFloat64)
	w.WriteAlignment(8)
	w.WriteFloat64(v)
}

func writeBlob(w *Writer, b []byte) {
	w.WriteSize(len(b))
	w.WriteBytes(b)
}

func readBlob(r *Reader) ([]byte, error) {
	n, err := r.ReadSize()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(n)
}

func readListHeader(r *Reader, align int) (int, error) {
	n, err := r.ReadSize()
	if err != nil {
		return 0, err
	}
	if err := r.ReadAlignment(align); err != nil {
		return 0, err
	}
	if err := r.need(n * align); err != nil {
		return 0, err
	}
	return n, nil
}
