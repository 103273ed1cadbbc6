package errors

import (
	sterrors "errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateHandle   = sterrors.New("adbridge: ad for handle already exists")
	ErrNotFound          = sterrors.New("adbridge: not found")
	ErrMalformedMessage  = sterrors.New("adbridge: malformed message")
	ErrUnsupportedValue  = sterrors.New("adbridge: unsupported value type")
	ErrNotImplemented    = sterrors.New("adbridge: method not implemented")
	ErrMissingArgument   = sterrors.New("adbridge: required argument is missing")
	ErrConfigRequired    = sterrors.New("adbridge: configuration is required")
	ErrLoggerRequired    = sterrors.New("adbridge: logger is required")
	ErrSDKRequired       = sterrors.New("adbridge: ad sdk is required")
	ErrPublisherRequired = sterrors.New("adbridge: publisher is required")
	ErrTopicRequired     = sterrors.New("adbridge: topic is required")
	ErrChannelClosed     = sterrors.New("adbridge: control channel is torn down")
)

// ConfigValidationError wraps problems reported by Config.Validate.
type ConfigValidationError struct {
	Err error
}

func (e ConfigValidationError) Error() string {
	return "adbridge: invalid configuration: " + e.Err.Error()
}

func (e ConfigValidationError) Unwrap() error {
	return e.Err
}

// NewConfigValidationError returns nil when err is nil.
func NewConfigValidationError(err error) error {
	if err == nil {
		return nil
	}
	return ConfigValidationError{Err: err}
}

// DecodeError describes where a codec read went wrong. It always matches
// ErrMalformedMessage through errors.Is.
type DecodeError struct {
	Offset int
	Tag    int
	Detail string
	Cause  error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString(ErrMalformedMessage.Error())
	fmt.Fprintf(&b, " at offset %d", e.Offset)
	if e.Tag >= 0 {
		fmt.Fprintf(&b, " (tag %d)", e.Tag)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformedMessage
}

// NewDecodeError builds a DecodeError. Pass tag -1 when no tag was read yet.
func NewDecodeError(offset, tag int, detail string) *DecodeError {
	return &DecodeError{Offset: offset, Tag: tag, Detail: detail}
}
