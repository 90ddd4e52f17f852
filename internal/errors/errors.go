package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP layer can pick a status code.
type Kind string

const (
	KindMissingImageData  Kind = "missing_image_data"
	KindFieldRead         Kind = "field_read"
	KindInvalidParameter  Kind = "invalid_parameter"
	KindPayloadTooLarge   Kind = "payload_too_large"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindDecode            Kind = "decode"
	KindInvalidGeometry   Kind = "invalid_geometry"
	KindEncode            Kind = "encode"
	KindWorkerFailure     Kind = "worker_failure"
)

// Error is the classified error returned by every stage of the pipeline.
type Error struct {
	Kind  Kind
	Op    string
	Field string // set for KindInvalidParameter
	Err   error
}

func (e *Error) Error() string {
	prefix := fmt.Sprintf("[%s] %s", e.Kind, e.Op)
	if e.Field != "" {
		prefix += " " + e.Field
	}
	if e.Err == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// InvalidParameter reports a form field that could not be turned into a
// usable value.
func InvalidParameter(field string, err error) *Error {
	return &Error{Kind: KindInvalidParameter, Op: "parse", Field: field, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

var (
	ErrMissingField = errors.New("field is required")
	ErrNotNumeric   = errors.New("must be an unsigned integer")
)
