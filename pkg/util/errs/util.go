package errs

import (
	"errors"
	"fmt"
)

var (
	ErrMissingConfig = errors.New("config is missing")

	// ErrDuplicateRegistration is returned when a resource is registered twice.
	ErrDuplicateRegistration = errors.New("duplicate registration")
	// ErrUnknownResource is returned when a resource is used that is not registered.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrUnsupportedField is returned when a mandatory field has no
	// wire representation in the target protocol version.
	ErrUnsupportedField = errors.New("field unsupported for protocol")
	// ErrDecodeFailure is returned when a packet cannot be decoded for the active protocol version.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrEncodingOverflow is reported when a value had to be clamped to fit the wire format.
	ErrEncodingOverflow = errors.New("encoding overflow")
)

// ResourceError is an error about a named resource, like a scoreboard team.
type ResourceError struct {
	Kind string // e.g. "team"
	Name string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// SilentError is an error wrapper type that silences an
// error and only logs them in the debug log.
//
// It is usually used to prevent spamming the default
// log when Minecraft clients send invalid packets which cannot be read.
type SilentError struct{ error }

func (e *SilentError) Error() string {
	return e.error.Error()
}

func NewSilentErr(format string, a ...any) error {
	return &SilentError{fmt.Errorf(format, a...)}
}

func WrapSilent(wrappedErr error) error {
	return &SilentError{wrappedErr}
}

func (e *SilentError) Unwrap() error { return e.error }

// IsSilent reports whether err is or wraps a SilentError.
func IsSilent(err error) bool {
	var s *SilentError
	return errors.As(err, &s)
}
