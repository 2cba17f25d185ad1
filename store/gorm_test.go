package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), gormConfig())
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return NewGormStoreFromDB(gdb), mock
}

func TestGormLoadCatalogRows(t *testing.T) {
	s, mock := newGormMock(t)

	rows := sqlmock.NewRows([]string{"name", "position", "quantity", "price", "units_sold", "income"}).
		AddRow("A", 0, int64(1), int64(100), int64(0), int64(0)).
		AddRow("B", 1, int64(0), int64(200), int64(5), int64(1000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" ORDER BY position`)).WillReturnRows(rows)

	got, err := s.LoadCatalogRows(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalogRows failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[1] != (ProductRow{Name: "B", Quantity: "0", Price: "200", UnitsSold: "5", Income: "1000"}) {
		t.Fatalf("unexpected row: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormWriteProductRows_NotFound(t *testing.T) {
	s, mock := newGormMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.WriteProductRows(context.Background(),
		ProductRow{Name: "Ghost", Quantity: "1", Price: "1", UnitsSold: "0", Income: "0"})
	if !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormWriteProductRows_Success(t *testing.T) {
	s, mock := newGormMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WriteProductRows(context.Background(),
		ProductRow{Name: "A", Quantity: "0", Price: "100", UnitsSold: "1", Income: "100"})
	if err != nil {
		t.Fatalf("WriteProductRows failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormLedger(t *testing.T) {
	s, mock := newGormMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "balance" ORDER BY id desc LIMIT`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total", "created_at"}))
	got, err := s.LoadLedgerTail(context.Background())
	if err != nil || got != 0 {
		t.Fatalf("expected 0, nil; got %d, %v", got, err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "balance"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	if err := s.AppendLedgerEntry(context.Background(), 100); err != nil {
		t.Fatalf("AppendLedgerEntry failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
