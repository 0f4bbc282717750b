package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidXRef reports a structurally broken cross-reference section.
	ErrInvalidXRef = errors.New("invalid cross-reference data")
	// ErrInvalidObjectStream reports an object stream whose header is unusable.
	ErrInvalidObjectStream = errors.New("invalid object stream")
	// ErrTypeMismatch is wrapped by every *TypeError.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrObjectNotFound reports a missing indirect object.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidOffset reports an offset outside the available data.
	ErrInvalidOffset = errors.New("offset out of range")
	// ErrUnsupportedFilter reports a stream filter with no decoder.
	ErrUnsupportedFilter = errors.New("unsupported filter")
)

// TypeError is returned by the As* accessors when an object is not of the
// requested variant.
type TypeError struct {
	Want ObjectType
	Got  Object
}

func (e *TypeError) Error() string {
	got := "nil"
	if e.Got != nil {
		got = e.Got.Type().String()
	}
	return fmt.Sprintf("expected %s, got %s", e.Want, got)
}

func (e *TypeError) Unwrap() error { return ErrTypeMismatch }

// Warning is a recoverable anomaly noticed while decoding or walking a
// document. Warnings travel next to results and never replace an error.
type Warning struct {
	Component string
	Message   string
}

func (w Warning) String() string {
	return w.Component + ": " + w.Message
}

// Warnf builds a Warning with a formatted message
func Warnf(component, format string, args ...interface{}) Warning {
	return Warning{Component: component, Message: fmt.Sprintf(format, args...)}
}
