package crm

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/QualitasTechnologies/bom-tracker/internal/identity"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Handler manages sales pipeline endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers lead routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/leads", h.handleList)
	r.Post("/leads", h.handleCreate)
	r.Get("/leads/summary", h.handleSummary)
	r.Get("/leads/{leadID}", h.handleGet)
	r.Patch("/leads/{leadID}", h.handleUpdate)
	r.Post("/leads/{leadID}/stage", h.handleMoveStage)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.service.List(r.Context(), Stage(r.URL.Query().Get("stage")))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyName   string           `json:"companyName"`
		ContactName   string           `json:"contactName"`
		Email         string           `json:"email"`
		Phone         string           `json:"phone"`
		Source        string           `json:"source"`
		Requirement   string           `json:"requirement"`
		ExpectedValue *decimal.Decimal `json:"expectedValue"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	lead, err := h.service.Create(r.Context(), CreateInput{
		CompanyName:   req.CompanyName,
		ContactName:   req.ContactName,
		Email:         req.Email,
		Phone:         req.Phone,
		Source:        req.Source,
		Requirement:   req.Requirement,
		ExpectedValue: req.ExpectedValue,
	}, identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, lead)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	lead, err := h.service.Get(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, lead)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContactName   *string          `json:"contactName"`
		Email         *string          `json:"email"`
		Phone         *string          `json:"phone"`
		Requirement   *string          `json:"requirement"`
		ExpectedValue *decimal.Decimal `json:"expectedValue"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	lead, err := h.service.Update(r.Context(), chi.URLParam(r, "leadID"), UpdateInput{
		ContactName:   req.ContactName,
		Email:         req.Email,
		Phone:         req.Phone,
		Requirement:   req.Requirement,
		ExpectedValue: req.ExpectedValue,
	}, identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, lead)
}

func (h *Handler) handleMoveStage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To         string `json:"to"`
		Note       string `json:"note"`
		LostReason string `json:"lostReason"`
		ProjectID  string `json:"projectId"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	lead, err := h.service.MoveStage(r.Context(), chi.URLParam(r, "leadID"), MoveStageInput{
		To:         Stage(req.To),
		Note:       req.Note,
		LostReason: req.LostReason,
		ProjectID:  req.ProjectID,
	}, identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, lead)
}
