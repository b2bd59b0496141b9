package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "kyccli/internal/errors"
	"kyccli/internal/exporter"
	"kyccli/internal/services"
)

// Export scopes accepted by the CSV endpoint.
const (
	ExportScopeData    = "data"
	ExportScopeActions = "actions"
)

// ExportHandler serves CSV downloads of the filtered dataset and the blank
// standard template workbook.
type ExportHandler struct {
	service      *services.DashboardService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates an export handler.
func NewExportHandler(service *services.DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes. Responses are file downloads, so the
// JSON content type middleware is not applied here.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/csv", h.ExportCSV)
	r.Get("/template", h.DownloadTemplate)

	return r
}

// exportRequest is a filter request plus the export scope.
type exportRequest struct {
	FilterRequest
	Scope string `json:"scope"`
}

// ExportCSV handles POST /api/export/csv. The body carries the active
// filters and a scope of "data" (default) or "actions".
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}
	if req.Scope == "" {
		req.Scope = ExportScopeData
	}
	if req.Scope != ExportScopeData && req.Scope != ExportScopeActions {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("scope", fmt.Sprintf("Unknown export scope: %s", req.Scope)))
		return
	}

	spec, err := req.ToSpec()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	prefix := "kyc_export"
	if req.Scope == ExportScopeActions {
		prefix = "kyc_actions"
	}
	filename := exporter.ExportFilename(prefix, time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch req.Scope {
	case ExportScopeActions:
		items, err := h.service.ActionItems(r.Context(), spec)
		if err != nil {
			h.handleExportError(w, r, err)
			return
		}
		err = exporter.WriteActionsCSV(w, items)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "failed to stream actions CSV", slog.String("error", err.Error()))
			return
		}
	default:
		records, err := h.service.FilteredRecords(r.Context(), spec)
		if err != nil {
			h.handleExportError(w, r, err)
			return
		}
		if err := exporter.WriteRecordsCSV(w, records); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to stream records CSV", slog.String("error", err.Error()))
			return
		}
	}

	exportsTotal.WithLabelValues(req.Scope).Inc()
}

// DownloadTemplate handles GET /api/export/template.
func (h *ExportHandler) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporter.TemplateFilename))

	if err := exporter.WriteTemplate(w); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream template workbook", slog.String("error", err.Error()))
		return
	}
	exportsTotal.WithLabelValues("template").Inc()
}

func (h *ExportHandler) handleExportError(w http.ResponseWriter, r *http.Request, err error) {
	// Download headers have not been flushed yet at this point; reset them
	// so the error travels as JSON.
	w.Header().Del("Content-Disposition")
	w.Header().Set("Content-Type", "application/json")
	if errors.Is(err, services.ErrNoDataset) {
		err = apierrors.ErrDatasetMissing
	}
	h.errorHandler.HandleError(w, r, err)
}
