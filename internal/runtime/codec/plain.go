package codec

import (
	"fmt"
	"math/big"
	"reflect"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
	"github.com/drblury/adbridge/internal/runtime/jsoncodec"
)

// Mapper is implemented by domain values that text codecs flatten into a
// plain map. Binary extensions are not available to JSON or proto hosts.
type Mapper interface {
	ToMap() map[string]any
}

// Plain converts v into nil, bool, number, string, []any or map[string]any.
// Map keys are stringified with fmt.Sprint.
func Plain(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return x, nil
	case []byte:
		return x, nil
	case *big.Int:
		if x == nil {
			return nil, nil
		}
		return x.String(), nil
	case Mapper:
		return Plain(x.ToMap())
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			p, err := Plain(item)
			if err != nil {
				return nil, err
			}
			out[k] = p
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			p, err := Plain(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			p, err := Plain(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(iter.Key().Interface())] = p
		}
		return out, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%w: %T", errspkg.ErrUnsupportedValue, v)
}

// JSONMethodCodec frames calls as {"method","args"} objects and envelopes as
// [result] or [code, message, details] arrays.
type JSONMethodCodec struct{}

type jsonMethodCall struct {
	Method string `json:"method"`
	Args   any    `json:"args"`
}

func (JSONMethodCodec) Name() string        { return CodecJSON }
func (JSONMethodCodec) ContentType() string { return "application/json" }

func (JSONMethodCodec) EncodeMethodCall(call MethodCall) ([]byte, error) {
	args, err := Plain(call.Arguments)
	if err != nil {
		return nil, err
	}
	return jsoncodec.Marshal(jsonMethodCall{Method: call.Method, Args: args})
}

func (JSONMethodCodec) DecodeMethodCall(data []byte) (MethodCall, error) {
	var raw jsonMethodCall
	if err := jsoncodec.Unmarshal(data, &raw); err != nil {
		return MethodCall{}, &errspkg.DecodeError{Tag: -1, Detail: "invalid json method call", Cause: err}
	}
	if raw.Method == "" {
		return MethodCall{}, errspkg.NewDecodeError(0, -1, "method name is missing")
	}
	return MethodCall{Method: raw.Method, Arguments: raw.Args}, nil
}

func (JSONMethodCodec) EncodeSuccessEnvelope(result any) ([]byte, error) {
	p, err := Plain(result)
	if err != nil {
		return nil, err
	}
	return jsoncodec.Marshal([]any{p})
}

func (JSONMethodCodec) EncodeErrorEnvelope(code, message string, details any) ([]byte, error) {
	p, err := Plain(details)
	if err != nil {
		return nil, err
	}
	var msg any
	if message != "" {
		msg = message
	}
	return jsoncodec.Marshal([]any{code, msg, p})
}

func (JSONMethodCodec) DecodeEnvelope(data []byte) (any, error) {
	var raw []any
	if err := jsoncodec.Unmarshal(data, &raw); err != nil {
		return nil, &errspkg.DecodeError{Tag: -1, Detail: "invalid json envelope", Cause: err}
	}
	switch len(raw) {
	case 1:
		return raw[0], nil
	case 3:
		code, ok := raw[0].(string)
		msg, msgOK := raw[1].(string)
		if !ok || (raw[1] != nil && !msgOK) {
			break
		}
		return nil, &MethodError{Code: code, Message: msg, Details: raw[2]}
	}
	return nil, errspkg.NewDecodeError(0, -1, "invalid json envelope shape")
}

// ProtoMethodCodec frames calls and envelopes as google.protobuf.Struct.
type ProtoMethodCodec struct{}

func (ProtoMethodCodec) Name() string        { return CodecProto }
func (ProtoMethodCodec) ContentType() string { return "application/protobuf" }

func (ProtoMethodCodec) EncodeMethodCall(call MethodCall) ([]byte, error) {
	return marshalStruct(map[string]any{"method": call.Method, "args": call.Arguments})
}

func (ProtoMethodCodec) DecodeMethodCall(data []byte) (MethodCall, error) {
	fields, err := unmarshalStruct(data)
	if err != nil {
		return MethodCall{}, err
	}
	method, _ := fields["method"].(string)
	if method == "" {
		return MethodCall{}, errspkg.NewDecodeError(0, -1, "method name is missing")
	}
	return MethodCall{Method: method, Arguments: fields["args"]}, nil
}

func (ProtoMethodCodec) EncodeSuccessEnvelope(result any) ([]byte, error) {
	return marshalStruct(map[string]any{"result": result})
}

func (ProtoMethodCodec) EncodeErrorEnvelope(code, message string, details any) ([]byte, error) {
	return marshalStruct(map[string]any{"code": code, "message": message, "details": details})
}

func (ProtoMethodCodec) DecodeEnvelope(data []byte) (any, error) {
	fields, err := unmarshalStruct(data)
	if err != nil {
		return nil, err
	}
	if raw, ok := fields["code"]; ok {
		code, _ := raw.(string)
		message, _ := fields["message"].(string)
		return nil, &MethodError{Code: code, Message: message, Details: fields["details"]}
	}
	return fields["result"], nil
}

func marshalStruct(fields map[string]any) ([]byte, error) {
	plain, err := Plain(fields)
	if err != nil {
		return nil, err
	}
	st, err := structpb.NewStruct(plain.(map[string]any))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrUnsupportedValue, err)
	}
	return proto.Marshal(st)
}

func unmarshalStruct(data []byte) (map[string]any, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, &errspkg.DecodeError{Tag: -1, Detail: "invalid protobuf struct", Cause: err}
	}
	return st.AsMap(), nil
}
