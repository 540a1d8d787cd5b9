package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/salesdesk/apiserver/types"
)

// OrderRepository handles persistence for imported sales-order lines.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Ping verifies the store is reachable. The ingestion pipeline calls it
// once per batch before attempting any row.
func (r *OrderRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Insert persists a single order line. Each row of a batch is inserted
// independently so one bad row cannot abort the others.
func (r *OrderRepository) Insert(ctx context.Context, order types.Order) error {
	const query = `
		INSERT INTO orders (order_number, item_number, product_code, tax_id,
			company_name, channel, center, value, reference, status, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		order.OrderNumber,
		order.ItemNumber,
		order.ProductCode,
		order.TaxID,
		order.CompanyName,
		order.Channel,
		order.Center,
		order.Value,
		order.Reference,
		order.Status,
		order.ImportedAt,
	)
	return err
}

// DeleteRange removes every order whose import timestamp, truncated to a
// calendar date, falls within the inclusive [start, end] range. Bounds are
// always bound as parameters, never interpolated.
func (r *OrderRepository) DeleteRange(ctx context.Context, start, end time.Time) (int64, error) {
	const query = `
		DELETE FROM orders
		WHERE imported_at::date BETWEEN $1 AND $2`
	result, err := r.db.ExecContext(
		ctx,
		query,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListAll returns every order in insertion order. The reporting aggregator
// relies on this ordering for its first-seen tie-break.
func (r *OrderRepository) ListAll(ctx context.Context) ([]types.Order, error) {
	const query = `
		SELECT id, order_number, item_number, product_code, tax_id,
			company_name, channel, center, value, reference, status, imported_at
		FROM orders
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []types.Order{}
	for rows.Next() {
		var order types.Order
		if err := rows.Scan(
			&order.ID,
			&order.OrderNumber,
			&order.ItemNumber,
			&order.ProductCode,
			&order.TaxID,
			&order.CompanyName,
			&order.Channel,
			&order.Center,
			&order.Value,
			&order.Reference,
			&order.Status,
			&order.ImportedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
