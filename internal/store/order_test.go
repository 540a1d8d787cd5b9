package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/salesdesk/apiserver/types"
)

func newOrderRepoWithMock(t *testing.T) (*OrderRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewOrderRepository(db), mock, db
}

func TestInsertOrder_Success(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	importedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	q := `(?s)^\s*INSERT\s+INTO\s+orders\s*\(order_number,\s*item_number,\s*product_code,\s*tax_id,\s*company_name,\s*channel,\s*center,\s*value,\s*reference,\s*status,\s*imported_at\)`

	mock.ExpectExec(q).
		WithArgs(int64(1001), int64(10), "SKU-1", "12345678000190", "ACME LTDA",
			"DIRECT", "DC-01", 10.01, "Q1", "OPEN", importedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Insert(context.Background(), types.Order{
		OrderNumber: 1001,
		ItemNumber:  10,
		ProductCode: "SKU-1",
		TaxID:       "12345678000190",
		CompanyName: "ACME LTDA",
		Channel:     "DIRECT",
		Center:      "DC-01",
		Value:       10.01,
		Reference:   "Q1",
		Status:      "OPEN",
		ImportedAt:  importedAt,
	})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
}

func TestDeleteRange_BoundsAreParameterized(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+orders\s+WHERE\s+imported_at::date\s+BETWEEN\s+\$1\s+AND\s+\$2`

	mock.ExpectExec(q).
		WithArgs("2026-01-01", "2026-01-31").
		WillReturnResult(sqlmock.NewResult(0, 42))

	start := time.Date(2026, 1, 1, 15, 4, 5, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	affected, err := repo.DeleteRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("DeleteRange error: %v", err)
	}
	if affected != 42 {
		t.Fatalf("want 42 affected, got %d", affected)
	}
}

func TestDeleteRange_ZeroMatchesIsNotAnError(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+orders\s+WHERE\s+imported_at::date\s+BETWEEN\s+\$1\s+AND\s+\$2`

	mock.ExpectExec(q).
		WithArgs("2026-02-01", "2026-02-01").
		WillReturnResult(sqlmock.NewResult(0, 0))

	d := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	affected, err := repo.DeleteRange(context.Background(), d, d)
	if err != nil {
		t.Fatalf("DeleteRange error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("want 0 affected, got %d", affected)
	}
}

func TestDeleteRange_DBError(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+orders`

	mock.ExpectExec(q).
		WithArgs("2026-01-01", "2026-01-31").
		WillReturnError(errors.New("connection refused"))

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	if _, err := repo.DeleteRange(context.Background(), start, end); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestListAll_PreservesInsertionOrder(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	importedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	q := `(?s)^\s*SELECT\s+id,\s*order_number,.*FROM\s+orders\s+ORDER\s+BY\s+id`

	cols := []string{"id", "order_number", "item_number", "product_code", "tax_id",
		"company_name", "channel", "center", "value", "reference", "status", "imported_at"}
	rows := sqlmock.NewRows(cols).
		AddRow(1, 1001, 10, "SKU-1", "111", "ACME", "DIRECT", "DC-01", 10.0, "Q1", "OPEN", importedAt).
		AddRow(2, 1002, 10, "SKU-2", "222", "BETA", "RESALE", "DC-02", 7.5, "Q1", "", importedAt)
	mock.ExpectQuery(q).WillReturnRows(rows)

	orders, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != 1 || orders[1].ID != 2 {
		t.Fatalf("unexpected orders: %+v", orders)
	}
	if orders[1].Status != "" {
		t.Fatalf("expected empty status preserved, got %q", orders[1].Status)
	}
}

func TestListAll_Empty(t *testing.T) {
	repo, mock, db := newOrderRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*order_number,.*FROM\s+orders`

	cols := []string{"id", "order_number", "item_number", "product_code", "tax_id",
		"company_name", "channel", "center", "value", "reference", "status", "imported_at"}
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows(cols))

	orders, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("want empty slice, got %d rows", len(orders))
	}
}
