package ads

import (
	"github.com/drblury/adbridge/internal/runtime/codec"
	"github.com/drblury/adbridge/internal/runtime/sdk"
)

// AdSize is the size descriptor exchanged with the host. Two descriptors are
// equal when their names resolve to the same SDK size, even if the width and
// height they carry differ.
type AdSize struct {
	Name   string `json:"name"`
	Width  int32  `json:"width"`
	Height int32  `json:"height"`
}

// SizeOf builds the descriptor for an SDK size.
func SizeOf(size sdk.AdSize) AdSize {
	return AdSize{Name: size.Name(), Width: int32(size.Width()), Height: int32(size.Height())}
}

// Resolved is the SDK size named by s.Name.
func (s AdSize) Resolved() sdk.AdSize {
	return sdk.SizeFromName(s.Name)
}

func (s AdSize) Equal(other AdSize) bool {
	return s.Resolved() == other.Resolved()
}

func (s AdSize) ToMap() map[string]any {
	return map[string]any{"name": s.Name, "width": s.Width, "height": s.Height}
}

// Exception is the structured form of an SDK failure. Equality is by code.
type Exception struct {
	Code    int32
	Message string
}

// ExceptionFromCode rebuilds an Exception from a bare code using the
// canonical message table.
func ExceptionFromCode(code int32) Exception {
	return Exception{Code: code, Message: sdk.ErrorMessage(int(code))}
}

// ExceptionFromError wraps an SDK error, keeping its message.
func ExceptionFromError(err *sdk.Error) Exception {
	if err == nil {
		return ExceptionFromCode(sdk.CodeUnknownError)
	}
	return Exception{Code: int32(err.Code), Message: err.Message}
}

func (e Exception) Equal(other Exception) bool {
	return e.Code == other.Code
}

// Identifier is the lowerCamelCase name of the code, "" when unmapped.
func (e Exception) Identifier() string {
	return sdk.ErrorIdentifier(int(e.Code))
}

func (e Exception) ToMap() map[string]any {
	return map[string]any{"code": e.Code, "message": e.Message}
}

// SizeFromValue accepts a decoded AdSize or the map form text codecs use.
func SizeFromValue(v any) (AdSize, bool) {
	switch x := v.(type) {
	case AdSize:
		return x, true
	case *AdSize:
		if x == nil {
			return AdSize{}, false
		}
		return *x, true
	case map[string]any:
		return sizeFromFields(func(k string) any { return x[k] })
	case map[any]any:
		return sizeFromFields(func(k string) any { return x[k] })
	}
	return AdSize{}, false
}

func sizeFromFields(field func(string) any) (AdSize, bool) {
	name, ok := field("name").(string)
	if !ok {
		return AdSize{}, false
	}
	width, _ := codec.AsInt(field("width"))
	height, _ := codec.AsInt(field("height"))
	return AdSize{Name: name, Width: int32(width), Height: int32(height)}, true
}
