package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newConfigRepoWithMock(t *testing.T) (*ReportConfigRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewReportConfigRepository(db), mock, db
}

func TestGetLink_Found(t *testing.T) {
	repo, mock, db := newConfigRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+link\s+FROM\s+report_config\s+LIMIT\s+1`

	rows := sqlmock.NewRows([]string{"link"}).AddRow("https://reports.example.com/d/1")
	mock.ExpectQuery(q).WillReturnRows(rows)

	link, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if link != "https://reports.example.com/d/1" {
		t.Fatalf("unexpected link: %q", link)
	}
}

func TestGetLink_Empty(t *testing.T) {
	repo, mock, db := newConfigRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+link\s+FROM\s+report_config`

	mock.ExpectQuery(q).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestReplaceLink_DeleteAndInsertInOneTransaction(t *testing.T) {
	repo, mock, db := newConfigRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+report_config`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+report_config\s*\(link\)\s*VALUES\s*\(\$1\)`).
		WithArgs("https://reports.example.com/d/2").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Replace(context.Background(), "https://reports.example.com/d/2"); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReplaceLink_RollsBackOnInsertFailure(t *testing.T) {
	repo, mock, db := newConfigRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+report_config`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+report_config`).
		WithArgs("https://reports.example.com/d/3").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := repo.Replace(context.Background(), "https://reports.example.com/d/3"); err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
