// Package metadata holds the headers that travel next to every encoded
// method call between the bridge and its host.
package metadata

// Header keys set by the bridge.
const (
	KeyChannel       = "channel"
	KeyMethod        = "method"
	KeyCorrelationID = "correlation_id"
	KeyCodec         = "codec"
	KeyContentType   = "content_type"
	KeyStatus        = "status"
)

// Metadata is a flat string map of headers.
type Metadata map[string]string

// New builds Metadata from alternating key/value pairs. A trailing key
// without a value is ignored.
func New(pairs ...string) Metadata {
	md := make(Metadata, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		md[pairs[i]] = pairs[i+1]
	}
	return md
}

// Clone never returns nil.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// With returns a copy carrying key=value.
func (m Metadata) With(key, value string) Metadata {
	out := m.Clone()
	out[key] = value
	return out
}

// Merge returns a copy with entries from other taking precedence.
func (m Metadata) Merge(other Metadata) Metadata {
	out := m.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

func (m Metadata) Channel() string       { return m[KeyChannel] }
func (m Metadata) Method() string        { return m[KeyMethod] }
func (m Metadata) CorrelationID() string { return m[KeyCorrelationID] }
