package po

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/QualitasTechnologies/bom-tracker/internal/identity"
	"github.com/QualitasTechnologies/bom-tracker/internal/observability"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Handler manages purchase order endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	enqueue func(poID string)
	metrics *observability.Metrics
}

// NewHandler builds Handler instance. enqueue, when non-nil, is called with
// the PO id after a successful send so the worker can render and mail the
// PDF.
func NewHandler(logger *slog.Logger, service *Service, enqueue func(poID string), metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, enqueue: enqueue, metrics: metrics}
}

// MountRoutes registers purchase order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/purchase-orders", h.handleList)
	r.Post("/purchase-orders", h.handleCreate)
	r.Get("/purchase-orders/{poID}", h.handleGet)
	r.Patch("/purchase-orders/{poID}", h.handleUpdateDraft)
	r.Post("/purchase-orders/{poID}/send", h.handleSend)
	r.Post("/purchase-orders/{poID}/close", h.handleClose)
}

type itemRequest struct {
	Description string          `json:"description"`
	HSN         string          `json:"hsn"`
	Quantity    decimal.Decimal `json:"quantity"`
	UOM         string          `json:"uom"`
	Rate        decimal.Decimal `json:"rate"`
	BOMItemID   string          `json:"bomItemId"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context(), r.URL.Query().Get("projectId"), Status(r.URL.Query().Get("status")))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"purchaseOrders": orders})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID     string          `json:"projectId"`
		Vendor        Party           `json:"vendor"`
		ShipTo        *Party          `json:"shipTo"`
		Items         []itemRequest   `json:"items"`
		TaxPercentage decimal.Decimal `json:"taxPercentage"`
		Terms         string          `json:"terms"`
		DeliveryNote  string          `json:"deliveryNote"`
		PODate        string          `json:"poDate"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}

	items := make([]ItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = ItemInput{
			Description: item.Description,
			HSN:         item.HSN,
			Quantity:    item.Quantity,
			UOM:         item.UOM,
			Rate:        item.Rate,
			BOMItemID:   item.BOMItemID,
		}
	}
	order, err := h.service.Create(r.Context(), CreateInput{
		ProjectID:     req.ProjectID,
		Vendor:        req.Vendor,
		ShipTo:        req.ShipTo,
		Items:         items,
		TaxPercentage: req.TaxPercentage,
		Terms:         req.Terms,
		DeliveryNote:  req.DeliveryNote,
		PODate:        req.PODate,
		CreatedBy:     identity.UserID(r.Context()),
	})
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	h.metrics.RecordPOCreated()
	shared.RespondJSON(w, http.StatusCreated, order)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), chi.URLParam(r, "poID"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, order)
}

func (h *Handler) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Terms        *string `json:"terms"`
		DeliveryNote *string `json:"deliveryNote"`
		ShipTo       *Party  `json:"shipTo"`
		PODate       *string `json:"poDate"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	order, err := h.service.UpdateDraft(r.Context(), chi.URLParam(r, "poID"), UpdateDraftInput{
		Terms:        req.Terms,
		DeliveryNote: req.DeliveryNote,
		ShipTo:       req.ShipTo,
		PODate:       req.PODate,
	}, identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, order)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Send(r.Context(), chi.URLParam(r, "poID"), identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	if h.enqueue != nil {
		h.enqueue(order.ID)
	}
	h.metrics.RecordPOSent()
	shared.RespondJSON(w, http.StatusOK, order)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Outcome string `json:"outcome"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	target := StatusCompleted
	if req.Outcome == "cancelled" {
		target = StatusCancelled
	}
	order, err := h.service.Close(r.Context(), chi.URLParam(r, "poID"), target, identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, order)
}
