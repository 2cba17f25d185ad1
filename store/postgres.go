package store

import (
	"context"
	"database/sql"
	"strconv"

	_ "github.com/lib/pq"
)

// PostgresStore is a Store backed by the products and balance tables
// (see migrations.sql).
type PostgresStore struct {
	DB *sql.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, wrap("open", "", err)
	}
	if err := DB.PingContext(ctx); err != nil {
		_ = DB.Close()
		return nil, wrap("ping", "", err)
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// Migrate runs the schema script. It is expected to be idempotent.
func (s *PostgresStore) Migrate(ctx context.Context, script string) error {
	_, err := s.DB.ExecContext(ctx, script)
	return wrap("migrate", "", err)
}

func (s *PostgresStore) LoadCatalogRows(ctx context.Context) ([]ProductRow, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT name, quantity, price, units_sold, income FROM products ORDER BY position`)
	if err != nil {
		return nil, wrap("load catalog", "", err)
	}
	defer rows.Close()
	out := []ProductRow{}
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(&p.Name, &p.Quantity, &p.Price, &p.UnitsSold, &p.Income); err != nil {
			return nil, wrap("load catalog", "", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("load catalog", "", err)
	}
	return out, nil
}

// WriteProductRows updates every row in a single transaction, so either the
// whole batch lands or none of it does.
func (s *PostgresStore) WriteProductRows(ctx context.Context, rows ...ProductRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return wrap("write product", "", err)
	}
	// ensure rollback on early return
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, r := range rows {
		args, err := rowArgs(r)
		if err != nil {
			return wrap("write product", r.Name, err)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity=$1, price=$2, units_sold=$3, income=$4 WHERE name=$5`,
			args...)
		if err != nil {
			return wrap("write product", r.Name, err)
		}
		ra, err := res.RowsAffected()
		if err != nil {
			return wrap("write product", r.Name, err)
		}
		if ra == 0 {
			return notFound("write product", r.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrap("write product", "", err)
	}
	committed = true
	return nil
}

func (s *PostgresStore) LoadLedgerTail(ctx context.Context) (int64, error) {
	var total int64
	err := s.DB.QueryRowContext(ctx, `SELECT total FROM balance ORDER BY id DESC LIMIT 1`).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, wrap("load ledger", "", err)
	}
	return total, nil
}

func (s *PostgresStore) AppendLedgerEntry(ctx context.Context, total int64) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO balance (total) VALUES ($1)`, total)
	return wrap("append ledger", "", err)
}

// rowArgs converts the string fields of r to the integer column values, in
// the placeholder order of the update statement.
func rowArgs(r ProductRow) ([]any, error) {
	fields := []string{r.Quantity, r.Price, r.UnitsSold, r.Income}
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return append(args, r.Name), nil
}
