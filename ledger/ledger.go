package ledger

import "context"

// Appender is the part of the store the ledger writes through.
type Appender interface {
	LoadLedgerTail(ctx context.Context) (int64, error)
	AppendLedgerEntry(ctx context.Context, total int64) error
}

// Ledger is the machine's append-only balance log. Entries are stored as
// running totals; the current balance is the last one. It does no business
// validation: callers keep totals non-negative.
type Ledger struct {
	store   Appender
	balance int64
	entries []int64
}

// Open reads the current balance from the persisted tail.
func Open(ctx context.Context, s Appender) (*Ledger, error) {
	tail, err := s.LoadLedgerTail(ctx)
	if err != nil {
		return nil, err
	}
	return &Ledger{store: s, balance: tail}, nil
}

func (l *Ledger) CurrentBalance() int64 {
	return l.balance
}

// Append persists CurrentBalance()+delta as a new entry. The balance only
// moves once the store has accepted the entry.
func (l *Ledger) Append(ctx context.Context, delta int64) error {
	total := l.balance + delta
	if err := l.store.AppendLedgerEntry(ctx, total); err != nil {
		return err
	}
	l.balance = total
	l.entries = append(l.entries, total)
	return nil
}

// Entries returns the totals appended since Open.
func (l *Ledger) Entries() []int64 {
	return append([]int64(nil), l.entries...)
}
