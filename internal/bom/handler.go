package bom

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/QualitasTechnologies/bom-tracker/internal/identity"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Handler manages BOM endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers BOM routes under a project scope.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/projects/{projectID}/bom", h.handleGet)
	r.Get("/projects/{projectID}/bom/cost", h.handleCost)
	r.Post("/projects/{projectID}/bom/categories", h.handleAddCategory)
	r.Post("/projects/{projectID}/bom/items", h.handleAddItem)
	r.Patch("/projects/{projectID}/bom/items/{itemID}", h.handleUpdateItem)
	r.Post("/projects/{projectID}/bom/items/{itemID}/move", h.handleMoveItem)
	r.Delete("/projects/{projectID}/bom/items/{itemID}", h.handleDeleteItem)
	r.Post("/projects/{projectID}/bom/items/{itemID}/order", h.handleOrderItem)
	r.Post("/projects/{projectID}/bom/items/{itemID}/receive", h.handleReceiveItem)
	r.Post("/projects/{projectID}/bom/items/{itemID}/revert", h.handleRevertItem)
	r.Patch("/projects/{projectID}/bom/items/{itemID}/arrival", h.handleUpdateArrival)
	r.Get("/projects/{projectID}/bom/export", h.handleExport)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *Handler) handleCost(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalCost(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"totalCost": total})
}

func (h *Handler) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	categories, err := h.service.AddCategory(r.Context(), chi.URLParam(r, "projectID"), req.Name)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, map[string]any{"categories": categories})
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemType    string           `json:"itemType"`
		Name        string           `json:"name"`
		Description string           `json:"description"`
		Category    string           `json:"category"`
		Quantity    float64          `json:"quantity"`
		Price       *decimal.Decimal `json:"price"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	item, err := h.service.AddItem(r.Context(), chi.URLParam(r, "projectID"), AddItemInput{
		ItemType:    ItemType(req.ItemType),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Price:       req.Price,
	})
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            *string          `json:"name"`
		Description     *string          `json:"description"`
		Quantity        *float64         `json:"quantity"`
		Price           *decimal.Decimal `json:"price"`
		ClearPrice      bool             `json:"clearPrice"`
		FinalizedVendor *FinalizedVendor `json:"finalizedVendor"`
		ExpectedArrival *string          `json:"expectedArrival"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	item, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "itemID"), UpdateItemInput{
		Name:            req.Name,
		Description:     req.Description,
		Quantity:        req.Quantity,
		Price:           req.Price,
		ClearPrice:      req.ClearPrice,
		FinalizedVendor: req.FinalizedVendor,
		ExpectedArrival: req.ExpectedArrival,
	})
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetCategory string `json:"targetCategory"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	if err := h.service.MoveItem(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "itemID"), req.TargetCategory); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "itemID")); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleOrderItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Vendor          FinalizedVendor `json:"vendor"`
		PONumber        string          `json:"poNumber"`
		OrderDate       string          `json:"orderDate"`
		ExpectedArrival *string         `json:"expectedArrival"`
		PODocumentID    string          `json:"poDocumentId"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	item, err := h.service.OrderItem(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "itemID"), OrderItemInput{
		Vendor:          req.Vendor,
		PONumber:        req.PONumber,
		OrderDate:       req.OrderDate,
		ExpectedArrival: req.ExpectedArrival,
		PODocumentID:    req.PODocumentID,
	}, identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleReceiveItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActualArrival     string `json:"actualArrival"`
		InvoiceDocumentID string `json:"invoiceDocumentId"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	item, err := h.service.ReceiveItem(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "itemID"), ReceiveItemInput{
		ActualArrival:     req.ActualArrival,
		InvoiceDocumentID: req.InvoiceDocumentID,
	}, identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleRevertItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.RevertItem(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "itemID"), identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleUpdateArrival(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExpectedArrival *string `json:"expectedArrival"`
		ActualArrival   *string `json:"actualArrival"`
	}
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	item, err := h.service.UpdateArrival(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "itemID"), req.ExpectedArrival, req.ActualArrival)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	categories, err := h.service.Get(r.Context(), projectID)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bom-`+projectID+`.xlsx"`)
	if err := WriteExcel(w, categories); err != nil {
		h.logger.Error("bom export failed", "project_id", projectID, "error", err)
	}
}
