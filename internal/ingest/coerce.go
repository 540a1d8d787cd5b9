// Package ingest validates and coerces tabular sales-order extracts before
// they reach the store.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/salesdesk/apiserver/types"
)

// Required extract columns, in canonical form.
const (
	ColOrderNumber = "order_number"
	ColItemNumber  = "item_number"
	ColProductCode = "product_code"
	ColTaxID       = "tax_id"
	ColCompanyName = "company_name"
	ColChannel     = "channel"
	ColCenter      = "center"
	ColValue       = "value"
	ColReference   = "reference"
	ColStatus      = "status"
)

// RequiredColumns lists every column an extract must carry. A batch missing
// any of them is rejected before a single row is touched.
var RequiredColumns = []string{
	ColOrderNumber,
	ColItemNumber,
	ColProductCode,
	ColTaxID,
	ColCompanyName,
	ColChannel,
	ColCenter,
	ColValue,
	ColReference,
	ColStatus,
}

// ErrSchema marks an extract whose header does not match the required
// column set.
var ErrSchema = errors.New("invalid extract schema")

// textColumns are normalized with null-marker mapping. Tax id is handled
// separately: it is kept verbatim as opaque text.
var textColumns = []string{
	ColProductCode,
	ColCompanyName,
	ColChannel,
	ColCenter,
	ColReference,
	ColStatus,
}

// ValidateColumns checks that all required columns are present.
func ValidateColumns(columns []string) error {
	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col] = true
	}
	for _, required := range RequiredColumns {
		if !present[required] {
			return fmt.Errorf("%w: missing column %q", ErrSchema, required)
		}
	}
	return nil
}

// CoerceRow converts one raw extract row into an order stamped with the
// batch timestamp. Coercion never fails: unparseable numbers default to
// zero and textual null markers become empty strings.
func CoerceRow(row types.RawRow, importedAt time.Time) types.Order {
	order := types.Order{
		OrderNumber: coerceInt(row[ColOrderNumber]),
		ItemNumber:  coerceInt(row[ColItemNumber]),
		TaxID:       strings.TrimSpace(row[ColTaxID]),
		Value:       RoundMoney(coerceFloat(row[ColValue])),
		ImportedAt:  importedAt,
	}
	order.ProductCode = normalizeText(row[ColProductCode])
	order.CompanyName = normalizeText(row[ColCompanyName])
	order.Channel = normalizeText(row[ColChannel])
	order.Center = normalizeText(row[ColCenter])
	order.Reference = normalizeText(row[ColReference])
	order.Status = normalizeText(row[ColStatus])
	return order
}

// RoundMoney rounds a monetary value to 2 fractional digits using
// round-half-to-even, matching the upstream extract producer.
func RoundMoney(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func coerceInt(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	// Spreadsheet exports often render integers as "1001.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func coerceFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// normalizeText trims the value and maps textual null markers produced by
// upstream coercion to the empty string, so markers are never stored.
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "none", "null", "<nil>":
		return ""
	}
	return s
}
