package report

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/QualitasTechnologies/bom-tracker/internal/po"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// OrderSource loads purchase orders for on-demand rendering.
type OrderSource interface {
	Get(ctx context.Context, id string) (po.PurchaseOrder, error)
}

// Handler serves report endpoints: a Gotenberg health probe and on-demand
// purchase order PDFs.
type Handler struct {
	client   *Client
	renderer *Renderer
	orders   OrderSource
	logger   *slog.Logger
}

// NewHandler creates a report handler.
func NewHandler(client *Client, renderer *Renderer, orders OrderSource, logger *slog.Logger) *Handler {
	return &Handler{client: client, renderer: renderer, orders: orders, logger: logger}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ping", h.ping)
	r.Get("/purchase-orders/{poID}/pdf", h.poPDF)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) poPDF(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "poID"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	pdf, err := h.renderer.RenderPO(r.Context(), order)
	if err != nil {
		h.logger.Error("render po pdf", slog.String("po_number", order.PONumber), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename="+order.PONumber+".pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
