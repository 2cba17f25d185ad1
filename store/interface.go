package store

import "context"

// ProductRow is one catalog row as the tabular store holds it. Numeric fields
// are kept as decimal-integer strings; parsing and validation belong to the
// catalog loader.
type ProductRow struct {
	Name      string `csv:"name"`
	Quantity  string `csv:"quantity"`
	Price     string `csv:"price"`
	UnitsSold string `csv:"sold"`
	Income    string `csv:"income"`
}

// Store is the persistence boundary of the vending machine. Every call may
// cross the network and may fail; failures are returned as *Error values that
// match ErrUnavailable, ErrRowNotFound or ErrStore with errors.Is.
type Store interface {
	// LoadCatalogRows returns every product row in catalog order.
	LoadCatalogRows(ctx context.Context) ([]ProductRow, error)
	// WriteProductRows overwrites the rows addressed by name. A name that is
	// not present fails with ErrRowNotFound.
	WriteProductRows(ctx context.Context, rows ...ProductRow) error

	// LoadLedgerTail returns the last running balance, or 0 when the ledger
	// has no entries yet.
	LoadLedgerTail(ctx context.Context) (int64, error)
	// AppendLedgerEntry appends a new running balance total.
	AppendLedgerEntry(ctx context.Context, total int64) error

	Close() error
}
