package aiimport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/QualitasTechnologies/bom-tracker/internal/observability"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Handler manages the import-preview endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers import routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/import/extract", h.handleExtract)
}

func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text            string   `json:"text"`
		KnownCategories []string `json:"knownCategories"`
		KnownMakes      []string `json:"knownMakes"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	result, err := h.service.Extract(r.Context(), req.Text, Options{
		KnownCategories: req.KnownCategories,
		KnownMakes:      req.KnownMakes,
	})
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	h.metrics.RecordImportRun(result.Source)
	shared.RespondJSON(w, http.StatusOK, result)
}
