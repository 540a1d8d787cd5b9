package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReportConfigRepository handles the singleton embedded-report link row.
// The table has no uniqueness constraint; singleness is enforced here.
type ReportConfigRepository struct {
	db *sql.DB
}

func NewReportConfigRepository(db *sql.DB) *ReportConfigRepository {
	return &ReportConfigRepository{db: db}
}

// Get returns the stored link, or ErrNotFound when the table is empty.
func (r *ReportConfigRepository) Get(ctx context.Context) (string, error) {
	const query = `SELECT link FROM report_config LIMIT 1`
	var link string
	if err := r.db.QueryRowContext(ctx, query).Scan(&link); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return link, nil
}

// Replace swaps the singleton row for the given link. Delete and insert run
// in one transaction, so concurrent readers see either the old or the new
// value, never an empty table.
func (r *ReportConfigRepository) Replace(ctx context.Context, link string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_config`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear report config: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO report_config (link) VALUES ($1)`, link); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert report config: %w", err)
	}

	return tx.Commit()
}
