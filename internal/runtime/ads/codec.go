package ads

import (
	"fmt"

	"github.com/drblury/adbridge/internal/runtime/codec"
	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
	"github.com/drblury/adbridge/internal/runtime/sdk"
)

// Tags owned by the ad value types. The counterpart surface uses the same
// bytes.
const (
	TagAdSize    byte = 128
	TagException byte = 129
)

// Extension encodes AdSize and Exception values.
type Extension struct{}

var _ codec.Extension = Extension{}

// NewMessageCodec is the standard codec with the ad value types plugged in.
func NewMessageCodec() *codec.MessageCodec {
	return codec.NewMessageCodec(Extension{})
}

func (Extension) Tags() []byte { return []byte{TagAdSize, TagException} }

func (Extension) WriteValue(c *codec.MessageCodec, w *codec.Writer, v any) (bool, error) {
	switch x := v.(type) {
	case AdSize:
		return true, writeAdSize(c, w, x)
	case *AdSize:
		if x == nil {
			return false, nil
		}
		return true, writeAdSize(c, w, *x)
	case Exception:
		return true, writeException(c, w, x)
	case *Exception:
		if x == nil {
			return false, nil
		}
		return true, writeException(c, w, *x)
	}
	return false, nil
}

func writeAdSize(c *codec.MessageCodec, w *codec.Writer, s AdSize) error {
	_ = w.WriteByte(TagAdSize)
	if err := c.WriteValue(w, s.Name); err != nil {
		return err
	}
	if err := c.WriteValue(w, s.Width); err != nil {
		return err
	}
	return c.WriteValue(w, s.Height)
}

func writeException(c *codec.MessageCodec, w *codec.Writer, e Exception) error {
	_ = w.WriteByte(TagException)
	if err := c.WriteValue(w, e.Code); err != nil {
		return err
	}
	return c.WriteValue(w, e.Message)
}

func (Extension) ReadValueOfType(c *codec.MessageCodec, tag byte, r *codec.Reader) (any, error) {
	switch tag {
	case TagAdSize:
		name, err := readString(c, r, tag, "size name")
		if err != nil {
			return nil, err
		}
		width, err := readInt32(c, r, tag, "size width")
		if err != nil {
			return nil, err
		}
		height, err := readInt32(c, r, tag, "size height")
		if err != nil {
			return nil, err
		}
		return AdSize{Name: name, Width: width, Height: height}, nil
	case TagException:
		code, err := readInt32(c, r, tag, "exception code")
		if err != nil {
			return nil, err
		}
		msg, err := readString(c, r, tag, "exception message")
		if err != nil {
			return nil, err
		}
		// A missing message falls back to the table text for known codes.
		if msg == "" && sdk.KnownCode(int(code)) {
			return ExceptionFromCode(code), nil
		}
		return Exception{Code: code, Message: msg}, nil
	}
	return nil, errspkg.NewDecodeError(r.Pos(), int(tag), "tag not owned by ad extension")
}

func readString(c *codec.MessageCodec, r *codec.Reader, tag byte, field string) (string, error) {
	v, err := c.ReadValue(r)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errspkg.NewDecodeError(r.Pos(), int(tag), fmt.Sprintf("%s must be a string, got %T", field, v))
	}
	return s, nil
}

func readInt32(c *codec.MessageCodec, r *codec.Reader, tag byte, field string) (int32, error) {
	v, err := c.ReadValue(r)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int32)
	if !ok {
		return 0, errspkg.NewDecodeError(r.Pos(), int(tag), fmt.Sprintf("%s must be an int32, got %T", field, v))
	}
	return n, nil
}
