package sdk

// Consent is the GDPR consent recorded by the SDK.
type Consent int

const (
	ConsentOptedIn Consent = iota + 1
	ConsentOptedOut
)

// Wire strings understood by the host.
const (
	ConsentAccepted = "Accepted"
	ConsentDenied   = "Denied"
)

// ParseConsent maps "Accepted" and "Denied"; anything else is rejected.
func ParseConsent(s string) (Consent, bool) {
	switch s {
	case ConsentAccepted:
		return ConsentOptedIn, true
	case ConsentDenied:
		return ConsentOptedOut, true
	}
	return 0, false
}

// String returns the wire string, or "" for an unknown value.
func (c Consent) String() string {
	switch c {
	case ConsentOptedIn:
		return ConsentAccepted
	case ConsentOptedOut:
		return ConsentDenied
	}
	return ""
}
