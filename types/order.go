package types

import "time"

// Order represents one imported sales-order line.
// Rows are created only by the ingestion pipeline and removed only by the
// retention purge; there is no update-in-place operation.
type Order struct {
	// ID is the insertion-ordered surrogate key. Report rankings use it
	// as the "first seen" order for tie-breaking.
	ID int64 `json:"id" db:"id"`

	// OrderNumber is the source-system order number. Missing or
	// unparseable values coerce to 0.
	OrderNumber int64 `json:"order_number" db:"order_number"`

	// ItemNumber is the line position within the order, same default rule.
	ItemNumber int64 `json:"item_number" db:"item_number"`

	// ProductCode is the source-system product key.
	ProductCode string `json:"product_code" db:"product_code"`

	// TaxID is the company tax registration identifier. Always opaque
	// text, even when numeric-looking.
	TaxID string `json:"tax_id" db:"tax_id"`

	// CompanyName is the customer's registered name.
	CompanyName string `json:"company_name" db:"company_name"`

	// Channel is the sales-channel identifier used for grouping.
	Channel string `json:"channel" db:"channel"`

	// Center is the distribution-center identifier used for grouping.
	Center string `json:"center" db:"center"`

	// Value is the monetary value of the line, rounded to 2 fractional
	// digits at ingestion time.
	Value float64 `json:"value" db:"value"`

	// Reference is a free-form categorical tag.
	Reference string `json:"reference" db:"reference"`

	// Status is the source-system line status.
	Status string `json:"status" db:"status"`

	// ImportedAt is the batch timestamp. All rows of one ingestion batch
	// share the same value.
	ImportedAt time.Time `json:"imported_at" db:"imported_at"`
}

// RawRow is one not-yet-coerced record from an uploaded extract,
// keyed by resolved column name.
type RawRow map[string]string

// RowFailure records a single row that could not be persisted, together
// with its original field values so the caller can fix and resubmit it.
type RowFailure struct {
	// Index is the zero-based position of the row within the batch.
	Index int `json:"index"`

	// Row holds the original, uncoerced field values.
	Row RawRow `json:"row"`

	// Error is the persistence error reported for this row.
	Error string `json:"error"`
}

// IngestResult summarizes one ingestion batch. A batch with failures is
// still a completed batch; callers must inspect Failures.
type IngestResult struct {
	// ImportedAt is the timestamp stamped on every persisted row.
	ImportedAt time.Time `json:"imported_at"`

	// Inserted is the number of rows persisted.
	Inserted int `json:"inserted"`

	// Failures enumerates rows that were attempted and rejected.
	Failures []RowFailure `json:"failures"`

	// ArchiveKey is the object-storage key of the raw extract, when
	// archiving is enabled.
	ArchiveKey string `json:"archive_key,omitempty"`

	// ArchiveError reports a failed archive upload. Archiving is
	// best-effort and never fails the batch.
	ArchiveError string `json:"archive_error,omitempty"`

	// EventError reports a failed completion-event publish, under the
	// same best-effort rule as ArchiveError.
	EventError string `json:"event_error,omitempty"`
}
