package services

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindTransport       ErrorKind = "transport"
	KindDecode          ErrorKind = "decode"
	KindSchema          ErrorKind = "schema"
	KindInvalidResource ErrorKind = "invalid_resource"
)

var ErrUnknownResource = errors.New("unknown resource")

// Error is returned by every fetch, aggregation and parsing step.
// StatusCode is set when the upstream answered with a non-2xx status.
type Error struct {
	Op         string
	Kind       ErrorKind
	Resource   Resource
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Resource != "" {
		base += fmt.Sprintf(" (resource=%s)", e.Resource)
	}
	if e.StatusCode != 0 {
		base += fmt.Sprintf(" (status=%d)", e.StatusCode)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsTransport(err error) bool { return IsKind(err, KindTransport) }

func IsDecode(err error) bool { return IsKind(err, KindDecode) }

func IsSchema(err error) bool { return IsKind(err, KindSchema) }

// SchemaError builds a schema-kind error for a missing or mistyped field.
func SchemaError(op, field string, cause error) error {
	if cause == nil {
		return &Error{Op: op, Kind: KindSchema, Err: fmt.Errorf("field %q is missing", field)}
	}
	return &Error{Op: op, Kind: KindSchema, Err: fmt.Errorf("field %q: %w", field, cause)}
}
