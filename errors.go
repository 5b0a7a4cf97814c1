// FILE: spicex/errors.go
package spicex

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (possibly wrapped) by Config and Layer operations.
// Callers should test for them with errors.Is.
var (
	// ErrInvalidKey indicates a malformed key string, e.g. one containing
	// empty segments ("server..port") or nothing at all.
	ErrInvalidKey = errors.New("invalid configuration key")

	// ErrImmutableLayer indicates a write attempted on a layer that does not
	// accept targeted writes. Only the explicit and defaults layers are
	// writable; every other layer is replaced wholesale.
	ErrImmutableLayer = errors.New("layer is not writable")

	// ErrKeyNotFound indicates that no layer provides a value for the key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnsupportedFormat indicates that no registered parser matches the
	// requested file extension or format name.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")

	// ErrConfigNotFound indicates that config file discovery exhausted every
	// search path without finding a candidate file.
	ErrConfigNotFound = errors.New("config file not found")
)

// ParseError reports a failure to parse configuration text, with the source
// it came from (file path, remote provider name, or parser name).
type ParseError struct {
	Source  string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Source, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// newParseError builds a ParseError around an underlying parser failure.
func newParseError(source string, err error) *ParseError {
	return &ParseError{Source: source, Message: err.Error(), Err: err}
}

// SerializationError reports a value tree that the requested format cannot
// represent, e.g. deeply nested objects handed to the INI serializer.
type SerializationError struct {
	Format  string
	Message string
	Err     error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot serialize to %s: %s", e.Format, e.Message)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// ReloadError reports a failed reload of a watched source. It is non-fatal:
// the previously loaded tree remains in effect.
type ReloadError struct {
	Source string
	Err    error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("reload of %s failed: %v", e.Source, e.Err)
}

func (e *ReloadError) Unwrap() error { return e.Err }

// ConversionError reports a typed getter that found a value but could not
// coerce it to the requested type.
type ConversionError struct {
	Key  string
	From string
	To   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s value at %q to %s", e.From, e.Key, e.To)
}

// DecodeError reports a failure to unmarshal the merged configuration into a
// caller-supplied struct, typically a field/type mismatch.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("decode failed: %v", e.Err)
	}
	return fmt.Sprintf("decode failed for %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
