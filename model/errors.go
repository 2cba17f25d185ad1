package model

import (
	"errors"
	"fmt"
)

var (
	// ErrPreconditionViolation marks a caller bug, e.g. recording a sale of
	// a product with no stock.
	ErrPreconditionViolation = errors.New("precondition violation")
	// ErrIndexOutOfRange is returned for a selection index outside the catalog.
	ErrIndexOutOfRange = errors.New("selection index out of range")
	// ErrOverflow is returned when a counter would exceed what int64 holds.
	ErrOverflow = errors.New("value out of range")
)

// MalformedRowError reports a catalog row that cannot become a Product.
type MalformedRowError struct {
	Row   int // 0-based position in the loaded rows
	Field string
	Value string
	Err   error
}

func (e *MalformedRowError) Error() string {
	msg := fmt.Sprintf("catalog row %d: malformed %s %q", e.Row, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRowError) Unwrap() error { return e.Err }
