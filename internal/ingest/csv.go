package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/salesdesk/apiserver/types"
)

// ReadExtract decodes a CSV extract into raw rows keyed by canonical column
// name. Header cells are resolved case-insensitively with spaces collapsed
// to underscores ("Order Number" and "ORDER_NUMBER" both resolve to
// "order_number"). The header itself is validated against RequiredColumns.
func ReadExtract(r io.Reader) ([]types.RawRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty extract", ErrSchema)
	}
	if err != nil {
		return nil, fmt.Errorf("read extract header: %w", err)
	}

	columns := make([]string, len(header))
	for i, cell := range header {
		columns[i] = resolveColumn(cell)
	}
	if err := ValidateColumns(columns); err != nil {
		return nil, err
	}

	rows := []types.RawRow{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read extract row %d: %w", len(rows)+1, err)
		}
		row := make(types.RawRow, len(columns))
		for i, cell := range record {
			row[columns[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func resolveColumn(cell string) string {
	cell = strings.TrimPrefix(cell, "\ufeff")
	cell = strings.ToLower(strings.TrimSpace(cell))
	return strings.Join(strings.Fields(cell), "_")
}
