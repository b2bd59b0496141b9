package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "kyccli/internal/errors"
	"kyccli/internal/services"
	"kyccli/pkg/contracts/domain"
)

// DashboardHandler handles filter, aggregate, and action-item requests.
type DashboardHandler struct {
	service      *services.DashboardService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service *services.DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/dashboard", h.Dashboard)
	r.Post("/actions", h.Actions)
	r.Get("/options", h.Options)

	return r
}

// Dashboard handles POST /api/dashboard. The body is a filter request; an
// empty body means no filters.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.decodeFilter(w, r)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), spec)
	if err != nil {
		h.handleProjectionError(w, r, err)
		return
	}

	dashboardsTotal.Inc()
	render.JSON(w, r, dashboard)
}

// Actions handles POST /api/actions.
func (h *DashboardHandler) Actions(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.decodeFilter(w, r)
	if !ok {
		return
	}

	items, err := h.service.ActionItems(r.Context(), spec)
	if err != nil {
		h.handleProjectionError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"count": len(items),
		"items": items,
	})
}

// Options handles GET /api/options. An optional division query parameter
// scopes the office list.
func (h *DashboardHandler) Options(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.Options(r.Context(), r.URL.Query().Get("division"))
	if err != nil {
		h.handleProjectionError(w, r, err)
		return
	}
	render.JSON(w, r, options)
}

// decodeFilter parses the request body into a filter spec, writing the
// error response itself when the body is malformed.
func (h *DashboardHandler) decodeFilter(w http.ResponseWriter, r *http.Request) (domain.FilterSpec, bool) {
	var req FilterRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return domain.FilterSpec{}, false
		}
	}

	spec, err := req.ToSpec()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return domain.FilterSpec{}, false
	}
	return spec, true
}

func (h *DashboardHandler) handleProjectionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoDataset) {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetMissing)
		return
	}
	h.errorHandler.HandleError(w, r, err)
}
