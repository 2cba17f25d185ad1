package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection covers every selection the customer can correct by
	// choosing again.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrOutOfStock is an ErrInvalidSelection for a product with no stock.
	ErrOutOfStock = fmt.Errorf("%w: out of stock", ErrInvalidSelection)

	ErrNegativeAmount = errors.New("amount cannot be negative")
	// ErrAmountTooLarge is returned when a stock count or income would no
	// longer fit in an int64.
	ErrAmountTooLarge = errors.New("amount too large")
	// ErrRemovalNotAllowed is returned unless amount < balance.
	ErrRemovalNotAllowed = errors.New("amount must be less than the current balance")
)

// TxKind tells which write of a dispense failed.
type TxKind int

const (
	// PersistFailed: the product row was not written. The sale was rolled
	// back in memory and no balance entry exists.
	PersistFailed TxKind = iota + 1
	// LedgerAppendFailed: the product row was written and the item counts as
	// dispensed, but the balance entry is missing and must be reconciled by
	// hand.
	LedgerAppendFailed
)

func (k TxKind) String() string {
	switch k {
	case PersistFailed:
		return "persist failed"
	case LedgerAppendFailed:
		return "ledger append failed"
	default:
		return fmt.Sprintf("TxKind(%d)", int(k))
	}
}

type TransactionError struct {
	Kind    TxKind
	Product string
	Err     error
}

func (e *TransactionError) Error() string {
	switch e.Kind {
	case PersistFailed:
		return fmt.Sprintf("sale of %q not recorded: %v", e.Product, e.Err)
	case LedgerAppendFailed:
		return fmt.Sprintf("sale of %q recorded but balance not updated: %v", e.Product, e.Err)
	default:
		return fmt.Sprintf("sale of %q: %s: %v", e.Product, e.Kind, e.Err)
	}
}

func (e *TransactionError) Unwrap() error { return e.Err }

// IsTxKind reports whether err is a TransactionError of kind k.
func IsTxKind(err error, k TxKind) bool {
	var te *TransactionError
	return errors.As(err, &te) && te.Kind == k
}
