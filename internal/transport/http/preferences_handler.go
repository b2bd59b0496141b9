package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "kyccli/internal/errors"
	"kyccli/internal/store"
)

// PreferencesHandler serves user preferences that survive restarts.
type PreferencesHandler struct {
	session      *store.Session
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPreferencesHandler creates a preferences handler.
func NewPreferencesHandler(session *store.Session, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PreferencesHandler {
	return &PreferencesHandler{
		session:      session,
		logger:       logger.With(slog.String("component", "preferences_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the preferences routes.
func (h *PreferencesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/theme", h.GetTheme)
	r.Put("/theme", h.SetTheme)

	return r
}

type themeResponse struct {
	Theme string `json:"theme"`
}

// GetTheme handles GET /api/preferences/theme.
func (h *PreferencesHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, themeResponse{Theme: h.session.Theme()})
}

// SetTheme handles PUT /api/preferences/theme.
func (h *PreferencesHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if req.Theme != store.ThemeDark && req.Theme != store.ThemeLight {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("theme", fmt.Sprintf("Unknown theme: %s", req.Theme)))
		return
	}

	if err := h.session.SetTheme(req.Theme); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrStorage)
		return
	}

	h.logger.InfoContext(r.Context(), "theme updated", slog.String("theme", req.Theme))
	render.JSON(w, r, themeResponse{Theme: req.Theme})
}
