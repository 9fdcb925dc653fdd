package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/QualitasTechnologies/bom-tracker/internal/jobs"
	"github.com/QualitasTechnologies/bom-tracker/internal/po"
)

// POSource reads and annotates purchase orders.
type POSource interface {
	Get(ctx context.Context, id string) (po.PurchaseOrder, error)
	SetPDFURL(ctx context.Context, id, url string) error
}

// PORenderer turns a purchase order into PDF bytes.
type PORenderer interface {
	RenderPO(ctx context.Context, order po.PurchaseOrder) ([]byte, error)
}

// PDFStore persists rendered PDFs.
type PDFStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachment []byte, filename string) error
}

// PODispatcher renders a sent purchase order, stores the PDF, and mails it
// to the vendor contact.
type PODispatcher struct {
	logger   *slog.Logger
	orders   POSource
	renderer PORenderer
	store    PDFStore
	mailer   Mailer
	metrics  *jobmetrics.Metrics
}

func NewPODispatcher(logger *slog.Logger, orders POSource, renderer PORenderer, store PDFStore, mailer Mailer, metrics *jobmetrics.Metrics) *PODispatcher {
	return &PODispatcher{logger: logger, orders: orders, renderer: renderer, store: store, mailer: mailer, metrics: metrics}
}

// Handle processes TaskTypePODispatch tasks.
func (d *PODispatcher) Handle(ctx context.Context, t *asynq.Task) error {
	var payload PODispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := d.metrics.Track("po_dispatch")
	return tracker.End(d.dispatch(ctx, payload.POID))
}

func (d *PODispatcher) dispatch(ctx context.Context, poID string) error {
	order, err := d.orders.Get(ctx, poID)
	if err != nil {
		return fmt.Errorf("load purchase order %s: %w", poID, err)
	}

	pdf, err := d.renderer.RenderPO(ctx, order)
	if err != nil {
		return fmt.Errorf("render purchase order %s: %w", order.PONumber, err)
	}

	key := fmt.Sprintf("purchase-orders/%s/%s.pdf", order.ProjectID, order.PONumber)
	if err := d.store.Put(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		return fmt.Errorf("store pdf for %s: %w", order.PONumber, err)
	}
	if err := d.orders.SetPDFURL(ctx, poID, key); err != nil {
		return fmt.Errorf("record pdf url for %s: %w", order.PONumber, err)
	}

	if order.Vendor.Email != "" && d.mailer != nil {
		subject := fmt.Sprintf("Purchase Order %s", order.PONumber)
		body := fmt.Sprintf("Dear %s,\n\nPlease find attached purchase order %s dated %s.\n\nRegards,\n%s",
			order.Vendor.Name, order.PONumber, order.PODate, order.InvoiceTo.Name)
		filename := order.PONumber + ".pdf"
		if err := d.mailer.Send(ctx, order.Vendor.Email, subject, body, pdf, filename); err != nil {
			// the PDF is already stored; mailing retries with the task
			return fmt.Errorf("mail %s to %s: %w", order.PONumber, order.Vendor.Email, err)
		}
	}

	d.logger.Info("purchase order dispatched",
		"po_number", order.PONumber,
		"vendor", order.Vendor.Name,
		"pdf_key", key,
		"at", time.Now().UTC().Format(time.RFC3339))
	return nil
}
