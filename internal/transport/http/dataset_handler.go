package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"kyccli/internal/dataprocessing"
	apierrors "kyccli/internal/errors"
	"kyccli/internal/services"
	"kyccli/internal/validation"
)

// DatasetHandler handles workbook import and dataset lifecycle requests.
type DatasetHandler struct {
	importService    *services.ImportService
	dashboardService *services.DashboardService
	validator        *validation.UploadValidator
	maxUploadBytes   int64
	logger           *slog.Logger
	errorHandler     *apierrors.ErrorHandler
}

// NewDatasetHandler creates a dataset handler.
func NewDatasetHandler(importService *services.ImportService, dashboardService *services.DashboardService, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		importService:    importService,
		dashboardService: dashboardService,
		validator:        validation.NewUploadValidator(maxUploadBytes, logger),
		maxUploadBytes:   maxUploadBytes,
		logger:           logger.With(slog.String("component", "dataset_handler")),
		errorHandler:     errorHandler,
	}
}

// Routes returns the dataset routes.
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.Status)
	r.Post("/import", h.Import)
	r.Post("/reset", h.Reset)

	return r
}

// Status handles GET /api/dataset.
func (h *DatasetHandler) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.dashboardService.Status(r.Context()))
}

// Import handles POST /api/dataset/import. The workbook travels as a
// multipart upload under the "file" field.
func (h *DatasetHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A workbook upload is required under the \"file\" field"))
		return
	}
	defer file.Close()

	if err := h.validator.ValidateName(header.Filename); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", err.Error()))
		return
	}
	if err := h.validator.ValidateSize(header.Size); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", err.Error()))
		return
	}

	head := make([]byte, 2)
	n, _ := io.ReadFull(file, head)
	if err := h.validator.ValidateHeader(head[:n]); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidWorkbook)
		return
	}
	reader := io.MultiReader(bytes.NewReader(head[:n]), file)

	result, err := h.importService.ImportReader(r.Context(), reader, header.Filename)
	if err != nil {
		importsTotal.WithLabelValues("error").Inc()
		h.errorHandler.HandleError(w, r, mapImportError(err))
		return
	}

	importsTotal.WithLabelValues("success").Inc()
	h.logger.InfoContext(r.Context(), "workbook imported",
		slog.String("filename", header.Filename),
		slog.Int("row_count", result.RowCount))
	render.JSON(w, r, result)
}

// Reset handles POST /api/dataset/reset.
func (h *DatasetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.importService.Reset(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"success": true})
}

// mapImportError translates ingestion failures into client-facing errors.
func mapImportError(err error) error {
	var missing *dataprocessing.MissingColumnsError
	switch {
	case errors.As(err, &missing):
		return apierrors.ErrMissingColumns(missing.Columns)
	case errors.Is(err, dataprocessing.ErrHeaderNotFound):
		return apierrors.ErrHeaderNotFound
	case errors.Is(err, dataprocessing.ErrNoDataRows):
		return apierrors.ErrNoDataRows
	case errors.Is(err, dataprocessing.ErrEmptySheet):
		return apierrors.ErrEmptySheet
	}

	var appErr *apierrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apierrors.ErrInvalidWorkbook
}
