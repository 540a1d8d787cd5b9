package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/salesdesk/apiserver/internal/services"
)

// ReportsHandler exposes the dashboard aggregates and the embedded-report
// link. Reads are open to every authenticated user; changing the link is
// admin-only.
type ReportsHandler struct {
	reporting *services.ReportingService
	config    *services.ReportConfigService
}

func NewReportsHandler(reporting *services.ReportingService, config *services.ReportConfigService) *ReportsHandler {
	return &ReportsHandler{reporting: reporting, config: config}
}

// ReportsRouter registers reporting routes on the given router.
func ReportsRouter(r chi.Router, reporting *services.ReportingService, config *services.ReportConfigService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewReportsHandler(reporting, config)

	r.Use(authMiddleware)
	r.Get("/summary", handler.Summary)
	r.Get("/revenue-by-channel", handler.RevenueByChannel)
	r.Get("/revenue-by-center", handler.RevenueByCenter)
	r.Get("/top-products", handler.TopProducts)
	r.Get("/top-customers", handler.TopCustomers)
	r.Get("/by-reference", handler.CountByReference)
	r.Get("/by-status", handler.CountByStatus)
	r.Get("/embed-url", handler.GetEmbedURL)
	r.With(RequireAdmin).Put("/embed-url", handler.SetEmbedURL)
}

func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reporting.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ReportsHandler) RevenueByChannel(w http.ResponseWriter, r *http.Request) {
	totals, err := h.reporting.RevenueByChannel(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *ReportsHandler) RevenueByCenter(w http.ResponseWriter, r *http.Request) {
	totals, err := h.reporting.RevenueByCenter(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *ReportsHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reporting.TopProducts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ReportsHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reporting.TopCustomers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ReportsHandler) CountByReference(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reporting.CountByReference(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *ReportsHandler) CountByStatus(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.reporting.CountByStatus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *ReportsHandler) GetEmbedURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.config.GetURL(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EmbedURLResponse{URL: url})
}

type EmbedURLRequest struct {
	URL string `json:"url"`
}

type EmbedURLResponse struct {
	URL string `json:"url"`
}

func (h *ReportsHandler) SetEmbedURL(w http.ResponseWriter, r *http.Request) {
	var req EmbedURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.config.SetURL(r.Context(), req.URL); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EmbedURLResponse{URL: req.URL})
}
