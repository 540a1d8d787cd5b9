package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/salesdesk/apiserver/internal/ingest"
	"github.com/salesdesk/apiserver/types"
)

// OrderRepository defines persistence operations for imported order lines.
type OrderRepository interface {
	Ping(ctx context.Context) error
	Insert(ctx context.Context, order types.Order) error
	DeleteRange(ctx context.Context, start, end time.Time) (int64, error)
	ListAll(ctx context.Context) ([]types.Order, error)
}

// Archiver stores the raw bytes of an ingested extract for audit/replay.
// storage.Storage satisfies it.
type Archiver interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// EventPublisher announces completed batches to downstream consumers.
// mq.MQ satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

const importEventChannel = "imports.completed"

// IngestionService coerces and persists sales-order extracts. Persistence
// is best-effort per row: a batch with rejected rows is still a completed
// batch, and callers must count the enumerated failures.
type IngestionService struct {
	repo    OrderRepository
	archive Archiver
	events  EventPublisher
	now     func() time.Time
}

// NewIngestionService constructs the service. archive and events may be
// nil, which disables the corresponding side channel.
func NewIngestionService(repo OrderRepository, archive Archiver, events EventPublisher) *IngestionService {
	return &IngestionService{
		repo:    repo,
		archive: archive,
		events:  events,
		now:     time.Now,
	}
}

// IngestExtract decodes a CSV extract and ingests it as one batch. The raw
// file is archived and a completion event published afterwards; both are
// best-effort and reported on the result rather than failing the batch.
func (s *IngestionService) IngestExtract(ctx context.Context, filename string, data []byte) (types.IngestResult, error) {
	rows, err := ingest.ReadExtract(bytes.NewReader(data))
	if err != nil {
		return types.IngestResult{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	result, err := s.IngestBatch(ctx, rows)
	if err != nil {
		return types.IngestResult{}, err
	}

	if s.archive != nil {
		key := fmt.Sprintf("extracts/%s-%s",
			result.ImportedAt.UTC().Format("20060102T150405Z"), filepath.Base(filename))
		if err := s.archive.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "text/csv"); err != nil {
			result.ArchiveError = err.Error()
		} else {
			result.ArchiveKey = key
		}
	}

	if s.events != nil {
		payload, _ := json.Marshal(map[string]any{
			"imported_at": result.ImportedAt,
			"inserted":    result.Inserted,
			"failed":      len(result.Failures),
			"archive_key": result.ArchiveKey,
		})
		attrs := map[string]string{
			"source":   filepath.Base(filename),
			"inserted": strconv.Itoa(result.Inserted),
		}
		if _, err := s.events.Publish(ctx, importEventChannel, payload, attrs); err != nil {
			result.EventError = err.Error()
		}
	}

	return result, nil
}

// IngestBatch validates the batch schema, stamps one import timestamp, and
// inserts the rows sequentially. A row that the store rejects is recorded
// with its original values and skipped; the loop never aborts mid-batch.
// Only an unreachable store fails the whole operation, before any row is
// attempted.
func (s *IngestionService) IngestBatch(ctx context.Context, rows []types.RawRow) (types.IngestResult, error) {
	if len(rows) > 0 {
		columns := make([]string, 0, len(rows[0]))
		for col := range rows[0] {
			columns = append(columns, col)
		}
		if err := ingest.ValidateColumns(columns); err != nil {
			return types.IngestResult{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	if err := s.repo.Ping(ctx); err != nil {
		return types.IngestResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	result := types.IngestResult{
		ImportedAt: s.now(),
		Failures:   []types.RowFailure{},
	}
	for i, row := range rows {
		order := ingest.CoerceRow(row, result.ImportedAt)
		if err := s.repo.Insert(ctx, order); err != nil {
			result.Failures = append(result.Failures, types.RowFailure{
				Index: i,
				Row:   row,
				Error: err.Error(),
			})
			continue
		}
		result.Inserted++
	}
	return result, nil
}
