package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

var (
	// ErrUnavailable is returned when the store cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
	// ErrRowNotFound is returned when a product name has no row.
	ErrRowNotFound = errors.New("row not found")
	// ErrStore covers every other failure reported by the backend.
	ErrStore = errors.New("store error")
)

// Error describes a failed store operation.
type Error struct {
	Op   string // e.g. "write product"
	Key  string // product name, if any
	Kind error  // ErrUnavailable, ErrRowNotFound or ErrStore
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Key != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Key)
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

// wrap classifies a backend error. Connection and deadline failures become
// ErrUnavailable, anything else ErrStore.
func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Key: key, Kind: classify(err), Err: errors.WithStack(err)}
}

func notFound(op, key string) error {
	return &Error{Op: op, Key: key, Kind: ErrRowNotFound}
}

func classify(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.As(err, &netErr):
		return ErrUnavailable
	default:
		return ErrStore
	}
}
