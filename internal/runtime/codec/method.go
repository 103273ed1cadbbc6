package codec

import (
	"fmt"
	"math"

	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
)

// Names accepted by NewMethodCodec.
const (
	CodecStandard = "standard"
	CodecJSON     = "json"
	CodecProto    = "proto"
)

// MethodCall is a named invocation crossing the boundary in either direction.
type MethodCall struct {
	Method    string
	Arguments any
}

// Argument returns a named entry when Arguments is map shaped.
func (c MethodCall) Argument(key string) (any, bool) {
	switch args := c.Arguments.(type) {
	case map[any]any:
		v, ok := args[key]
		return v, ok
	case map[string]any:
		v, ok := args[key]
		return v, ok
	case map[string]string:
		v, ok := args[key]
		return v, ok
	}
	return nil, false
}

// StringArgument returns the named argument when it is a non-nil string.
func (c MethodCall) StringArgument(key string) (string, bool) {
	v, ok := c.Argument(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IntArgument accepts any integral number, including float64 values decoded
// from JSON.
func (c MethodCall) IntArgument(key string) (int, bool) {
	v, ok := c.Argument(key)
	if !ok {
		return 0, false
	}
	return AsInt(v)
}

// AsInt converts decoded numeric values to int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// MethodError is the error envelope of a failed call.
type MethodError struct {
	Code    string
	Message string
	Details any
}

func (e *MethodError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// MethodCodec frames method calls and their result envelopes.
type MethodCodec interface {
	Name() string
	ContentType() string
	EncodeMethodCall(call MethodCall) ([]byte, error)
	DecodeMethodCall(data []byte) (MethodCall, error)
	EncodeSuccessEnvelope(result any) ([]byte, error)
	EncodeErrorEnvelope(code, message string, details any) ([]byte, error)
	// DecodeEnvelope returns the result, or a *MethodError for error envelopes.
	DecodeEnvelope(data []byte) (any, error)
}

// NewMethodCodec picks a codec by name. The message codec is only used by
// the standard codec; the others flatten values through Mapper.
func NewMethodCodec(name string, messages *MessageCodec) (MethodCodec, error) {
	if messages == nil {
		messages = NewMessageCodec()
	}
	switch name {
	case "", CodecStandard:
		return &StandardMethodCodec{Messages: messages}, nil
	case CodecJSON:
		return JSONMethodCodec{}, nil
	case CodecProto:
		return ProtoMethodCodec{}, nil
	}
	return nil, fmt.Errorf("unknown method codec %q", name)
}

// StandardMethodCodec writes the method name and arguments back to back;
// envelopes start with 0 for success and 1 for error.
type StandardMethodCodec struct {
	Messages *MessageCodec
}

func (c *StandardMethodCodec) Name() string        { return CodecStandard }
func (c *StandardMethodCodec) ContentType() string { return "application/x-flutter-standard" }

func (c *StandardMethodCodec) EncodeMethodCall(call MethodCall) ([]byte, error) {
	w := NewWriter()
	if err := c.Messages.WriteValue(w, call.Method); err != nil {
		return nil, err
	}
	if err := c.Messages.WriteValue(w, call.Arguments); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *StandardMethodCodec) DecodeMethodCall(data []byte) (MethodCall, error) {
	r := NewReader(data)
	method, err := c.Messages.ReadValue(r)
	if err != nil {
		return MethodCall{}, err
	}
	name, ok := method.(string)
	if !ok {
		return MethodCall{}, errspkg.NewDecodeError(0, -1, "method name is not a string")
	}
	args, err := c.Messages.ReadValue(r)
	if err != nil {
		return MethodCall{}, err
	}
	if r.Remaining() > 0 {
		return MethodCall{}, errspkg.NewDecodeError(r.Pos(), -1, "method call corrupted: trailing bytes")
	}
	return MethodCall{Method: name, Arguments: args}, nil
}

func (c *StandardMethodCodec) EncodeSuccessEnvelope(result any) ([]byte, error) {
	w := NewWriter()
	_ = w.WriteByte(0)
	if err := c.Messages.WriteValue(w, result); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *StandardMethodCodec) EncodeErrorEnvelope(code, message string, details any) ([]byte, error) {
	w := NewWriter()
	_ = w.WriteByte(1)
	if err := c.Messages.WriteValue(w, code); err != nil {
		return nil, err
	}
	var msg any
	if message != "" {
		msg = message
	}
	if err := c.Messages.WriteValue(w, msg); err != nil {
		return nil, err
	}
	if err := c.Messages.WriteValue(w, details); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *StandardMethodCodec) DecodeEnvelope(data []byte) (any, error) {
	r := NewReader(data)
	flag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch flag {
	case 0:
		result, err := c.Messages.ReadValue(r)
		if err != nil {
			return nil, err
		}
		if r.Remaining() > 0 {
			return nil, errspkg.NewDecodeError(r.Pos(), -1, "envelope corrupted: trailing bytes")
		}
		return result, nil
	case 1:
		code, err := c.Messages.ReadValue(r)
		if err != nil {
			return nil, err
		}
		message, err := c.Messages.ReadValue(r)
		if err != nil {
			return nil, err
		}
		details, err := c.Messages.ReadValue(r)
		if err != nil {
			return nil, err
		}
		codeStr, ok := code.(string)
		msgStr, msgOK := message.(string)
		if !ok || (message != nil && !msgOK) || r.Remaining() > 0 {
			return nil, errspkg.NewDecodeError(r.Pos(), -1, "invalid error envelope")
		}
		return nil, &MethodError{Code: codeStr, Message: msgStr, Details: details}
	}
	return nil, errspkg.NewDecodeError(0, -1, fmt.Sprintf("invalid envelope flag %d", flag))
}
