package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/salesdesk/apiserver/internal/services"
	"github.com/salesdesk/apiserver/types"
)

const maxExtractSize = 32 << 20 // 32 MiB

// ImportsHandler exposes extract ingestion and retention purge. Both
// mutate the order table and are admin-only.
type ImportsHandler struct {
	ingestion *services.IngestionService
	retention *services.RetentionService
}

func NewImportsHandler(ingestion *services.IngestionService, retention *services.RetentionService) *ImportsHandler {
	return &ImportsHandler{ingestion: ingestion, retention: retention}
}

// ImportsRouter registers ingestion routes on the given router.
func ImportsRouter(r chi.Router, ingestion *services.IngestionService, retention *services.RetentionService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewImportsHandler(ingestion, retention)

	r.Use(authMiddleware, RequireAdmin)
	r.Post("/", handler.Ingest)
}

// OrdersRouter registers the retention purge route on the given router.
func OrdersRouter(r chi.Router, retention *services.RetentionService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewImportsHandler(nil, retention)

	r.Use(authMiddleware, RequireAdmin)
	r.Delete("/", handler.DeleteOrders)
}

// Ingest accepts a multipart CSV extract under the "file" field and runs
// one ingestion batch. Partial success is a 200: the response enumerates
// per-row failures and the caller is expected to inspect them.
func (h *ImportsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxExtractSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "extract file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxExtractSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read extract file")
		return
	}
	if len(data) > maxExtractSize {
		writeError(w, http.StatusRequestEntityTooLarge, "extract file too large")
		return
	}

	result, err := h.ingestion.IngestExtract(r.Context(), header.Filename, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Outcome:      ingestOutcome(len(result.Failures)),
		ImportedAt:   result.ImportedAt,
		Inserted:     result.Inserted,
		Failed:       len(result.Failures),
		Failures:     result.Failures,
		ArchiveKey:   result.ArchiveKey,
		ArchiveError: result.ArchiveError,
		EventError:   result.EventError,
	})
}

// DeleteOrders purges orders imported within the inclusive [start, end]
// date range. A range matching nothing is a 200 with deleted = 0.
func (h *ImportsHandler) DeleteOrders(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be a YYYY-MM-DD date")
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be a YYYY-MM-DD date")
		return
	}

	deleted, err := h.retention.DeleteRange(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

type IngestResponse struct {
	Outcome      string             `json:"outcome"`
	ImportedAt   time.Time          `json:"imported_at"`
	Inserted     int                `json:"inserted"`
	Failed       int                `json:"failed"`
	Failures     []types.RowFailure `json:"failures"`
	ArchiveKey   string             `json:"archive_key,omitempty"`
	ArchiveError string             `json:"archive_error,omitempty"`
	EventError   string             `json:"event_error,omitempty"`
}

func ingestOutcome(failed int) string {
	if failed == 0 {
		return "completed"
	}
	return "completed_with_failures"
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	return time.Parse("2006-01-02", r.URL.Query().Get(name))
}
