package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Handler manages company settings endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers read routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/settings", h.handleGet)
}

// MountAdminRoutes registers mutating routes, gated to admins by the caller.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Put("/settings", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Get(r.Context())
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, cfg)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var cfg CompanySettings
	if err := shared.DecodeJSON(w, r, &cfg); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	updated, err := h.service.Update(r.Context(), cfg)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, updated)
}
