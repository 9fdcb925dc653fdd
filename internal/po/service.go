package po

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/QualitasTechnologies/bom-tracker/internal/settings"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, order PurchaseOrder) error
	Get(ctx context.Context, id string) (PurchaseOrder, error)
	Update(ctx context.Context, order PurchaseOrder) error
	List(ctx context.Context, projectID string, status Status) ([]PurchaseOrder, error)
}

// SettingsPort exposes the company configuration and the PO counter.
type SettingsPort interface {
	RequireForPO(ctx context.Context) (settings.CompanySettings, error)
	AllocatePONumber(ctx context.Context) (int64, error)
}

// BOMPort marks the BOM items referenced by a sent PO as ordered in one
// batch write.
type BOMPort interface {
	MarkItemsOrdered(ctx context.Context, projectID string, itemIDs []string, poNumber, orderDate string) error
}

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates the purchase order lifecycle.
type Service struct {
	repo     RepositoryPort
	settings SettingsPort
	bom      BOMPort
	audit    AuditPort
	now      func() time.Time
}

// NewService constructs the PO service.
func NewService(repo RepositoryPort, cfg SettingsPort, bomPort BOMPort, audit AuditPort) *Service {
	return &Service{repo: repo, settings: cfg, bom: bomPort, audit: audit, now: time.Now}
}

// ItemInput describes one requested line.
type ItemInput struct {
	Description string
	HSN         string
	Quantity    decimal.Decimal
	UOM         string
	Rate        decimal.Decimal
	BOMItemID   string
}

// CreateInput describes the creation payload.
type CreateInput struct {
	ProjectID     string
	Vendor        Party
	ShipTo        *Party
	Items         []ItemInput
	TaxPercentage decimal.Decimal
	Terms         string
	DeliveryNote  string
	PODate        string
	CreatedBy     string
}

// Create assembles a full purchase order: number from the configured
// counter, dense serials, computed totals, company invoice-to block, draft
// status. The counter is reserved atomically before the insert; a failed
// insert leaves a number gap, never a duplicate.
func (s *Service) Create(ctx context.Context, input CreateInput) (PurchaseOrder, error) {
	cfg, err := s.settings.RequireForPO(ctx)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if err := validateCreate(input); err != nil {
		return PurchaseOrder{}, err
	}

	now := s.now()
	seq, err := s.settings.AllocatePONumber(ctx)
	if err != nil {
		return PurchaseOrder{}, err
	}
	number := FormatNumber(cfg.PONumberPrefix, cfg.PONumberFormat, seq, now)

	items := make([]Item, len(input.Items))
	for i, in := range input.Items {
		items[i] = Item{
			Description: in.Description,
			HSN:         in.HSN,
			Quantity:    in.Quantity,
			UOM:         in.UOM,
			Rate:        in.Rate,
			BOMItemID:   in.BOMItemID,
		}
	}
	taxType := DetermineTaxType(cfg.StateCode, input.Vendor.StateCode)
	items, totals := RecomputeTotals(items, taxType, input.TaxPercentage)

	invoiceTo := Party{
		Name:      cfg.Name,
		Address:   cfg.Address,
		GSTIN:     cfg.GSTIN,
		StateCode: cfg.StateCode,
		StateName: cfg.StateName,
		Email:     cfg.Email,
		Phone:     cfg.Phone,
	}
	shipTo := invoiceTo
	if input.ShipTo != nil {
		shipTo = *input.ShipTo
	}

	poDate := input.PODate
	if poDate == "" {
		poDate = now.Format("2006-01-02")
	}

	order := PurchaseOrder{
		ID:           uuid.NewString(),
		ProjectID:    input.ProjectID,
		PONumber:     number,
		Vendor:       input.Vendor,
		InvoiceTo:    invoiceTo,
		ShipTo:       shipTo,
		Items:        items,
		Totals:       totals,
		Terms:        input.Terms,
		DeliveryNote: input.DeliveryNote,
		Status:       StatusDraft,
		Warnings:     []string{},
		PODate:       poDate,
		CreatedBy:    input.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return PurchaseOrder{}, err
	}
	s.recordAudit(ctx, input.CreatedBy, "PO_CREATE", order.ID, map[string]any{"number": order.PONumber, "total": order.TotalAmount.StringFixed(2)})
	return order, nil
}

// Get returns one purchase order.
func (s *Service) Get(ctx context.Context, id string) (PurchaseOrder, error) {
	return s.repo.Get(ctx, id)
}

// List returns purchase orders for a project, optionally filtered by status.
func (s *Service) List(ctx context.Context, projectID string, status Status) ([]PurchaseOrder, error) {
	return s.repo.List(ctx, projectID, status)
}

// UpdateDraftInput carries the fields editable while the order is a draft.
// Items are immutable after creation.
type UpdateDraftInput struct {
	Terms        *string
	DeliveryNote *string
	ShipTo       *Party
	PODate       *string
}

// UpdateDraft edits terms, dates, or the ship-to block on a draft order.
func (s *Service) UpdateDraft(ctx context.Context, id string, input UpdateDraftInput, actorID string) (PurchaseOrder, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if !order.Editable() {
		return PurchaseOrder{}, shared.NewInvalidStateError("purchase order", "only draft orders can be edited")
	}
	if input.Terms != nil {
		order.Terms = *input.Terms
	}
	if input.DeliveryNote != nil {
		order.DeliveryNote = *input.DeliveryNote
	}
	if input.ShipTo != nil {
		order.ShipTo = *input.ShipTo
	}
	if input.PODate != nil {
		order.PODate = *input.PODate
	}
	order.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, order); err != nil {
		return PurchaseOrder{}, err
	}
	return order, nil
}

// Send transitions a draft order to sent, exactly once, then batch-marks
// every BOM item referenced by the lines as ordered. The batch write keeps
// concurrent readers from ever seeing a half-ordered set.
func (s *Service) Send(ctx context.Context, id, actorID string) (PurchaseOrder, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if order.Status != StatusDraft {
		return PurchaseOrder{}, shared.NewInvalidStateError("purchase order", "already sent")
	}

	now := s.now()
	order.Status = StatusSent
	order.SentAt = &now
	order.UpdatedAt = now
	if err := s.repo.Update(ctx, order); err != nil {
		return PurchaseOrder{}, err
	}

	var itemIDs []string
	for _, line := range order.Items {
		if line.BOMItemID != "" {
			itemIDs = append(itemIDs, line.BOMItemID)
		}
	}
	if len(itemIDs) > 0 && s.bom != nil {
		if err := s.bom.MarkItemsOrdered(ctx, order.ProjectID, itemIDs, order.PONumber, now.Format("2006-01-02")); err != nil {
			return PurchaseOrder{}, err
		}
	}
	s.recordAudit(ctx, actorID, "PO_SEND", order.ID, map[string]any{"number": order.PONumber, "items": len(itemIDs)})
	return order, nil
}

// Close moves a sent order to completed or cancelled.
func (s *Service) Close(ctx context.Context, id string, target Status, actorID string) (PurchaseOrder, error) {
	if target != StatusCompleted && target != StatusCancelled {
		return PurchaseOrder{}, shared.NewInvalidStateError("purchase order", "close target must be completed or cancelled")
	}
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if order.Status != StatusSent {
		return PurchaseOrder{}, shared.NewInvalidStateError("purchase order", "only sent orders can be closed")
	}
	now := s.now()
	order.Status = target
	order.ClosedAt = &now
	order.UpdatedAt = now
	if err := s.repo.Update(ctx, order); err != nil {
		return PurchaseOrder{}, err
	}
	s.recordAudit(ctx, actorID, "PO_CLOSE", order.ID, map[string]any{"number": order.PONumber, "status": string(target)})
	return order, nil
}

// SetPDFURL records the stored PDF location after a successful render.
func (s *Service) SetPDFURL(ctx context.Context, id, url string) error {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	order.PDFURL = url
	order.UpdatedAt = s.now()
	return s.repo.Update(ctx, order)
}

func validateCreate(input CreateInput) error {
	verr := &shared.ValidationError{}
	if input.ProjectID == "" {
		verr.Add("Project is required")
	}
	if strings.TrimSpace(input.Vendor.Name) == "" {
		verr.Add("Vendor name is required")
	}
	if input.Vendor.StateCode == "" {
		verr.Add("Vendor state code is required")
	}
	if len(input.Items) == 0 {
		verr.Add("At least one line item is required")
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.Description) == "" {
			verr.Add("Line %d: Description is required", i+1)
		}
		if !item.Quantity.IsPositive() {
			verr.Add("Line %d: Quantity must be greater than zero", i+1)
		}
		if item.Rate.IsNegative() {
			verr.Add("Line %d: Rate cannot be negative", i+1)
		}
	}
	if input.TaxPercentage.IsNegative() || input.TaxPercentage.GreaterThan(hundred) {
		verr.Add("Tax percentage must be between 0 and 100")
	}
	return verr.OrNil()
}

func (s *Service) recordAudit(ctx context.Context, actorID, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: actorID, Action: action, Entity: "purchase_order", EntityID: entityID, Meta: meta})
}
