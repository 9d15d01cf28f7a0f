package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for HTTP handler failures. Handlers classify errors
// with errors.Is and map each kind to a status code in one place.
var (
	// ErrBadRequest marks malformed or unacceptable client input.
	ErrBadRequest = errors.New("bad request")

	// ErrMethodNotAllowed marks a request with an unsupported verb.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrNotReady marks a request arriving before any data was loaded.
	ErrNotReady = errors.New("no data loaded")

	// ErrUnsupported marks an operation the active store cannot serve.
	ErrUnsupported = errors.New("operation unsupported by store")

	// ErrInternal marks unexpected server-side failures.
	ErrInternal = errors.New("internal error")
)

// Wrap annotates err with the operation that produced it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind annotates err with an operation and a sentinel kind so the
// caller can both classify the failure and read the underlying cause.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind creates a new error of the given kind for the operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// statusFor maps a classified error to its HTTP status code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return 400, "bad_request"
	case errors.Is(err, ErrMethodNotAllowed):
		return 405, "method_not_allowed"
	case errors.Is(err, ErrNotReady):
		return 503, "not_ready"
	case errors.Is(err, ErrUnsupported):
		return 501, "unsupported"
	default:
		return 500, "internal"
	}
}
