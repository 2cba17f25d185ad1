package store

import (
	"context"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/gocarina/gocsv"
)

// MemoryStore keeps rows in process. It backs local runs without a database
// and the tests, which inject failures through the Fail* hooks.
type MemoryStore struct {
	mu     sync.Mutex
	rows   []ProductRow
	ledger []int64

	// FailWrite, when set, is consulted before each product write.
	FailWrite func(row ProductRow) error
	// FailAppend, when set, is consulted before each ledger append.
	FailAppend func(total int64) error
	// FailLoad, when set, is returned by LoadCatalogRows.
	FailLoad error
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(rows []ProductRow, ledger ...int64) *MemoryStore {
	return &MemoryStore{
		rows:   append([]ProductRow(nil), rows...),
		ledger: append([]int64(nil), ledger...),
	}
}

// ReadSeed parses catalog rows from CSV with a name,quantity,price,sold,income
// header. The sold and income columns may be omitted.
func ReadSeed(r io.Reader) ([]ProductRow, error) {
	var rows []ProductRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, wrap("read seed", "", err)
	}
	return rows, nil
}

// NewMemoryStoreFromFile seeds a MemoryStore from a CSV file.
func NewMemoryStoreFromFile(path string) (*MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap("open seed", path, err)
	}
	defer f.Close()

	rows, err := ReadSeed(f)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(rows), nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) LoadCatalogRows(ctx context.Context) ([]ProductRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("load catalog", "", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailLoad != nil {
		return nil, wrap("load catalog", "", s.FailLoad)
	}
	return append([]ProductRow(nil), s.rows...), nil
}

// WriteProductRows applies the batch only if every name resolves and no
// injected failure fires.
func (s *MemoryStore) WriteProductRows(ctx context.Context, rows ...ProductRow) error {
	if err := ctx.Err(); err != nil {
		return wrap("write product", "", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := make([]int, len(rows))
	for i, r := range rows {
		if s.FailWrite != nil {
			if err := s.FailWrite(r); err != nil {
				return wrap("write product", r.Name, err)
			}
		}
		pos := s.indexOf(r.Name)
		if pos < 0 {
			return notFound("write product", r.Name)
		}
		idx[i] = pos
	}
	for i, r := range rows {
		s.rows[idx[i]] = r
	}
	return nil
}

func (s *MemoryStore) LoadLedgerTail(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrap("load ledger", "", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ledger) == 0 {
		return 0, nil
	}
	return s.ledger[len(s.ledger)-1], nil
}

func (s *MemoryStore) AppendLedgerEntry(ctx context.Context, total int64) error {
	if err := ctx.Err(); err != nil {
		return wrap("append ledger", "", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAppend != nil {
		if err := s.FailAppend(total); err != nil {
			return wrap("append ledger", "", err)
		}
	}
	s.ledger = append(s.ledger, total)
	return nil
}

// Rows returns a copy of the stored product rows.
func (s *MemoryStore) Rows() []ProductRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ProductRow(nil), s.rows...)
}

// Ledger returns a copy of every persisted running total.
func (s *MemoryStore) Ledger() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.ledger...)
}

func (s *MemoryStore) indexOf(name string) int {
	for i, r := range s.rows {
		if r.Name == name {
			return i
		}
	}
	return -1
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
