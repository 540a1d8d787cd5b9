package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/salesdesk/apiserver/internal/ingest"
	"github.com/salesdesk/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	pingErr   error
	insertErr func(call int, order types.Order) error
	inserted  []types.Order
	calls     int

	orders    []types.Order
	deleted   int64
	deleteErr error
}

func (f *fakeOrderRepo) Ping(context.Context) error { return f.pingErr }

func (f *fakeOrderRepo) Insert(_ context.Context, order types.Order) error {
	f.calls++
	if f.insertErr != nil {
		if err := f.insertErr(f.calls, order); err != nil {
			return err
		}
	}
	f.inserted = append(f.inserted, order)
	return nil
}

func (f *fakeOrderRepo) DeleteRange(context.Context, time.Time, time.Time) (int64, error) {
	return f.deleted, f.deleteErr
}

func (f *fakeOrderRepo) ListAll(context.Context) ([]types.Order, error) {
	return f.orders, nil
}

type fakeArchiver struct {
	key string
	err error
}

func (f *fakeArchiver) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.key = key
	_, _ = io.Copy(io.Discard, r)
	return nil
}

type fakePublisher struct {
	channel string
	data    []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, data []byte, _ map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.channel = channel
	f.data = data
	return "msg-1", nil
}

func batchRow(orderNumber, value string) types.RawRow {
	return types.RawRow{
		ingest.ColOrderNumber: orderNumber,
		ingest.ColItemNumber:  "10",
		ingest.ColProductCode: "SKU-1",
		ingest.ColTaxID:       "111",
		ingest.ColCompanyName: "ACME",
		ingest.ColChannel:     "DIRECT",
		ingest.ColCenter:      "DC-01",
		ingest.ColValue:       value,
		ingest.ColReference:   "Q1",
		ingest.ColStatus:      "OPEN",
	}
}

func TestIngestBatch_PartialFailureCompletesTheBatch(t *testing.T) {
	repo := &fakeOrderRepo{
		insertErr: func(call int, _ types.Order) error {
			if call == 2 {
				return errors.New("value out of range")
			}
			return nil
		},
	}
	svc := NewIngestionService(repo, nil, nil)

	rows := []types.RawRow{batchRow("1", "10"), batchRow("2", "20"), batchRow("3", "30")}
	result, err := svc.IngestBatch(context.Background(), rows)
	require.NoError(t, err, "a bad row must not fail the batch")

	assert.Equal(t, 2, result.Inserted)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, result.Failures[0].Index)
	assert.Equal(t, "2", result.Failures[0].Row[ingest.ColOrderNumber], "failure carries original values")
	assert.Contains(t, result.Failures[0].Error, "value out of range")
	assert.Len(t, repo.inserted, 2, "rows after the bad one are still attempted")
}

func TestIngestBatch_OneTimestampPerBatch(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewIngestionService(repo, nil, nil)
	stamp := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return stamp }

	rows := []types.RawRow{batchRow("1", "10"), batchRow("2", "20")}
	result, err := svc.IngestBatch(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, stamp, result.ImportedAt)
	for _, order := range repo.inserted {
		assert.Equal(t, stamp, order.ImportedAt)
	}
}

func TestIngestBatch_UnreachableStoreAbortsBeforeAnyRow(t *testing.T) {
	repo := &fakeOrderRepo{pingErr: errors.New("dial tcp: connection refused")}
	svc := NewIngestionService(repo, nil, nil)

	_, err := svc.IngestBatch(context.Background(), []types.RawRow{batchRow("1", "10")})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Zero(t, repo.calls, "no row may be attempted when the store is down")
}

func TestIngestBatch_MissingColumnFailsWholeBatch(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewIngestionService(repo, nil, nil)

	row := batchRow("1", "10")
	delete(row, ingest.ColStatus)

	_, err := svc.IngestBatch(context.Background(), []types.RawRow{row})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, repo.calls)
}

func TestIngestBatch_EmptyBatch(t *testing.T) {
	svc := NewIngestionService(&fakeOrderRepo{}, nil, nil)

	result, err := svc.IngestBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, result.Inserted)
	assert.Empty(t, result.Failures)
}

func TestIngestExtract_ArchivesAndPublishes(t *testing.T) {
	repo := &fakeOrderRepo{}
	archive := &fakeArchiver{}
	events := &fakePublisher{}
	svc := NewIngestionService(repo, archive, events)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }

	body := "order_number,item_number,product_code,tax_id,company_name,channel,center,value,reference,status\n" +
		"1001,10,SKU-1,111,ACME,DIRECT,DC-01,10.005,Q1,OPEN\n"

	result, err := svc.IngestExtract(context.Background(), "march.csv", []byte(body))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, "extracts/20260314T093000Z-march.csv", result.ArchiveKey)
	assert.Equal(t, result.ArchiveKey, archive.key)
	assert.Equal(t, "imports.completed", events.channel)
	assert.Contains(t, string(events.data), `"inserted":1`)

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, 10.00, repo.inserted[0].Value, "10.005 rounds half-to-even to 10.00")
}

func TestIngestExtract_SideChannelFailuresDoNotFailTheBatch(t *testing.T) {
	repo := &fakeOrderRepo{}
	archive := &fakeArchiver{err: errors.New("bucket gone")}
	events := &fakePublisher{err: errors.New("broker down")}
	svc := NewIngestionService(repo, archive, events)

	body := "order_number,item_number,product_code,tax_id,company_name,channel,center,value,reference,status\n" +
		"1,1,P,T,C,CH,CE,1.00,R,S\n"

	result, err := svc.IngestExtract(context.Background(), "x.csv", []byte(body))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Contains(t, result.ArchiveError, "bucket gone")
	assert.Contains(t, result.EventError, "broker down")
	assert.Empty(t, result.ArchiveKey)
}

func TestIngestExtract_BadSchemaIsValidationError(t *testing.T) {
	svc := NewIngestionService(&fakeOrderRepo{}, nil, nil)

	_, err := svc.IngestExtract(context.Background(), "x.csv", []byte("order_number\n1\n"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIngestExtract_NullMarkersBecomeEmpty(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewIngestionService(repo, nil, nil)

	body := "order_number,item_number,product_code,tax_id,company_name,channel,center,value,reference,status\n" +
		"1,1,nan,111,None,CH,CE,1.00,R,nan\n"

	_, err := svc.IngestExtract(context.Background(), "x.csv", []byte(body))
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	assert.Empty(t, repo.inserted[0].ProductCode)
	assert.Empty(t, repo.inserted[0].CompanyName)
	assert.Empty(t, repo.inserted[0].Status)
}
