package bom

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// RepositoryPort describes repository operations used by Service. The whole
// category list of a project persists as one document, so every save is one
// atomic write and batch transitions never expose a half-updated set.
type RepositoryPort interface {
	Get(ctx context.Context, projectID string) ([]Category, error)
	Save(ctx context.Context, projectID string, categories []Category) error
}

// LinksPort lets the BOM orchestration keep document back-references in
// step with item pointers.
type LinksPort interface {
	SyncItemLink(ctx context.Context, projectID, itemID, newDocID, prevDocID string) error
	UnlinkItem(ctx context.Context, projectID, itemID string) error
}

// NotifierPort publishes collection-change events for live views.
type NotifierPort interface {
	Publish(ctx context.Context, collection, projectID string)
}

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates BOM mutations per project.
type Service struct {
	repo     RepositoryPort
	links    LinksPort
	notifier NotifierPort
	audit    AuditPort
}

// NewService constructs the BOM service.
func NewService(repo RepositoryPort, links LinksPort, notifier NotifierPort, audit AuditPort) *Service {
	return &Service{repo: repo, links: links, notifier: notifier, audit: audit}
}

// Get returns the project BOM.
func (s *Service) Get(ctx context.Context, projectID string) ([]Category, error) {
	return s.repo.Get(ctx, projectID)
}

// TotalCost returns the project cost rollup.
func (s *Service) TotalCost(ctx context.Context, projectID string) (decimal.Decimal, error) {
	categories, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return decimal.Zero, err
	}
	return TotalCost(categories), nil
}

// AddCategory appends an empty category. Names are unique per project.
func (s *Service) AddCategory(ctx context.Context, projectID, name string) ([]Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		verr := &shared.ValidationError{}
		verr.Add("Category name is required")
		return nil, verr
	}
	categories, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, cat := range categories {
		if cat.Name == name {
			return nil, ErrCategoryExists
		}
	}
	categories = append(CloneCategories(categories), Category{Name: name, IsExpanded: true, Items: []Item{}})
	if err := s.repo.Save(ctx, projectID, categories); err != nil {
		return nil, err
	}
	s.publish(ctx, projectID)
	return categories, nil
}

// AddItemInput describes a new part or service entry.
type AddItemInput struct {
	ItemType    ItemType
	Name        string
	Description string
	Category    string
	Quantity    float64
	Price       *decimal.Decimal
}

// AddItem creates an item in the named category with status not-ordered.
// The category name is denormalized onto the item.
func (s *Service) AddItem(ctx context.Context, projectID string, input AddItemInput) (Item, error) {
	verr := &shared.ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("Item name is required")
	}
	if input.Quantity < 0 {
		verr.Add("Quantity cannot be negative")
	}
	if input.ItemType != ItemTypeComponent && input.ItemType != ItemTypeService {
		verr.Add("Item type must be component or service")
	}
	if err := verr.OrNil(); err != nil {
		return Item{}, err
	}

	categories, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return Item{}, err
	}
	item := Item{
		ID:          uuid.NewString(),
		ItemType:    input.ItemType,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Status:      StatusNotOrdered,
	}

	updated := CloneCategories(categories)
	placed := false
	for i := range updated {
		if updated[i].Name == input.Category {
			updated[i].Items = append(updated[i].Items, item)
			placed = true
			break
		}
	}
	if !placed {
		return Item{}, shared.NewConfigurationError("category", "at least one matching category must exist before adding items")
	}
	if err := s.repo.Save(ctx, projectID, updated); err != nil {
		return Item{}, err
	}
	s.publish(ctx, projectID)
	return item, nil
}

// UpdateItemInput carries optional field edits.
type UpdateItemInput struct {
	Name            *string
	Description     *string
	Quantity        *float64
	Price           *decimal.Decimal
	ClearPrice      bool
	FinalizedVendor *FinalizedVendor
	ExpectedArrival *string
}

// UpdateItem edits basic fields on one item.
func (s *Service) UpdateItem(ctx context.Context, projectID, itemID string, input UpdateItemInput) (Item, error) {
	var updated Item
	err := s.mutateItem(ctx, projectID, itemID, func(item *Item) error {
		if input.Name != nil {
			item.Name = *input.Name
		}
		if input.Description != nil {
			item.Description = *input.Description
		}
		if input.Quantity != nil {
			item.Quantity = *input.Quantity
		}
		if input.ClearPrice {
			item.Price = nil
		} else if input.Price != nil {
			item.Price = input.Price
		}
		if input.FinalizedVendor != nil {
			item.FinalizedVendor = input.FinalizedVendor
		}
		if input.ExpectedArrival != nil {
			item.ExpectedArrival = input.ExpectedArrival
		}
		updated = *item
		return nil
	})
	return updated, err
}

// MoveItem relocates an item to another category: removal from the source
// list, then insertion into the target, in one saved document.
func (s *Service) MoveItem(ctx context.Context, projectID, itemID, targetCategory string) error {
	categories, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return err
	}
	updated := CloneCategories(categories)

	var moved *Item
	for i := range updated {
		for j := range updated[i].Items {
			if updated[i].Items[j].ID == itemID {
				item := updated[i].Items[j]
				updated[i].Items = append(updated[i].Items[:j], updated[i].Items[j+1:]...)
				moved = &item
				break
			}
		}
		if moved != nil {
			break
		}
	}
	if moved == nil {
		return ErrItemNotFound
	}

	for i := range updated {
		if updated[i].Name == targetCategory {
			moved.Category = targetCategory
			updated[i].Items = append(updated[i].Items, *moved)
			if err := s.repo.Save(ctx, projectID, updated); err != nil {
				return err
			}
			s.publish(ctx, projectID)
			return nil
		}
	}
	return shared.ErrNotFound
}

// DeleteItem removes an item from its category and clears any document
// back-references pointing at it.
func (s *Service) DeleteItem(ctx context.Context, projectID, itemID string) error {
	categories, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return err
	}
	updated := CloneCategories(categories)
	found := false
	for i := range updated {
		for j := range updated[i].Items {
			if updated[i].Items[j].ID == itemID {
				updated[i].Items = append(updated[i].Items[:j], updated[i].Items[j+1:]...)
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return ErrItemNotFound
	}
	if err := s.repo.Save(ctx, projectID, updated); err != nil {
		return err
	}
	if s.links != nil {
		if err := s.links.UnlinkItem(ctx, projectID, itemID); err != nil {
			return err
		}
	}
	s.publish(ctx, projectID)
	return nil
}

// OrderItemInput finalizes one item against a vendor and PO document.
type OrderItemInput struct {
	Vendor          FinalizedVendor
	PONumber        string
	OrderDate       string
	ExpectedArrival *string
	PODocumentID    string
}

// OrderItem marks a single item ordered. The vendor snapshot must be fixed
// first; the linked PO document switches atomically via the synchronizer.
func (s *Service) OrderItem(ctx context.Context, projectID, itemID string, input OrderItemInput, actorID string) (Item, error) {
	if input.Vendor.Name == "" {
		return Item{}, ErrVendorNotFinalized
	}
	var prevDocID string
	var updated Item
	err := s.mutateItem(ctx, projectID, itemID, func(item *Item) error {
		vendor := input.Vendor
		item.FinalizedVendor = &vendor
		item.Status = StatusOrdered
		if input.PONumber != "" {
			item.PONumber = &input.PONumber
		}
		if input.OrderDate != "" {
			item.OrderDate = &input.OrderDate
		}
		if input.ExpectedArrival != nil {
			item.ExpectedArrival = input.ExpectedArrival
		}
		if input.PODocumentID != "" {
			if item.LinkedPODocumentID != nil {
				prevDocID = *item.LinkedPODocumentID
			}
			item.LinkedPODocumentID = &input.PODocumentID
		}
		updated = *item
		return nil
	})
	if err != nil {
		return Item{}, err
	}
	if input.PODocumentID != "" && s.links != nil {
		if err := s.links.SyncItemLink(ctx, projectID, itemID, input.PODocumentID, prevDocID); err != nil {
			return Item{}, err
		}
	}
	s.recordAudit(ctx, actorID, "ITEM_ORDER", itemID, map[string]any{"po": input.PONumber})
	return updated, nil
}

// ReceiveItemInput closes the inward leg of an ordered item.
type ReceiveItemInput struct {
	ActualArrival     string
	InvoiceDocumentID string
}

// ReceiveItem marks an ordered item received and records the arrival date
// and invoice linkage.
func (s *Service) ReceiveItem(ctx context.Context, projectID, itemID string, input ReceiveItemInput, actorID string) (Item, error) {
	var prevDocID string
	var updated Item
	err := s.mutateItem(ctx, projectID, itemID, func(item *Item) error {
		if item.Status != StatusOrdered {
			return shared.NewInvalidStateError("bom item", "only ordered items can be received")
		}
		item.Status = StatusReceived
		if input.ActualArrival != "" {
			item.ActualArrival = &input.ActualArrival
		}
		if input.InvoiceDocumentID != "" {
			if item.LinkedInvoiceDocumentID != nil {
				prevDocID = *item.LinkedInvoiceDocumentID
			}
			item.LinkedInvoiceDocumentID = &input.InvoiceDocumentID
		}
		updated = *item
		return nil
	})
	if err != nil {
		return Item{}, err
	}
	if input.InvoiceDocumentID != "" && s.links != nil {
		if err := s.links.SyncItemLink(ctx, projectID, itemID, input.InvoiceDocumentID, prevDocID); err != nil {
			return Item{}, err
		}
	}
	s.recordAudit(ctx, actorID, "ITEM_RECEIVE", itemID, nil)
	return updated, nil
}

// RevertItem returns an item to not-ordered and clears its order fields.
func (s *Service) RevertItem(ctx context.Context, projectID, itemID string, actorID string) (Item, error) {
	var updated Item
	err := s.mutateItem(ctx, projectID, itemID, func(item *Item) error {
		item.Status = StatusNotOrdered
		item.PONumber = nil
		item.OrderDate = nil
		item.ActualArrival = nil
		item.LinkedPODocumentID = nil
		item.LinkedInvoiceDocumentID = nil
		updated = *item
		return nil
	})
	if err != nil {
		return Item{}, err
	}
	if s.links != nil {
		if err := s.links.UnlinkItem(ctx, projectID, itemID); err != nil {
			return Item{}, err
		}
	}
	s.recordAudit(ctx, actorID, "ITEM_REVERT", itemID, nil)
	return updated, nil
}

// MarkItemsOrdered applies the ordered status to every listed item in one
// saved document. Called when a PO is sent, so the whole set flips together.
// Every target must already carry a finalized vendor.
func (s *Service) MarkItemsOrdered(ctx context.Context, projectID string, itemIDs []string, poNumber, orderDate string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	categories, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return err
	}
	for _, id := range itemIDs {
		item, ok := FindItem(categories, id)
		if !ok {
			continue
		}
		if item.FinalizedVendor == nil {
			return ErrVendorNotFinalized
		}
	}

	updated := BatchUpdateStatus(categories, itemIDs, StatusOrdered)
	targets := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		targets[id] = struct{}{}
	}
	for i := range updated {
		for j := range updated[i].Items {
			if _, ok := targets[updated[i].Items[j].ID]; !ok {
				continue
			}
			if poNumber != "" {
				n := poNumber
				updated[i].Items[j].PONumber = &n
			}
			if orderDate != "" {
				d := orderDate
				updated[i].Items[j].OrderDate = &d
			}
		}
	}
	if err := s.repo.Save(ctx, projectID, updated); err != nil {
		return err
	}
	s.publish(ctx, projectID)
	return nil
}

// UpdateArrival sets expected/actual arrival dates for inward tracking.
func (s *Service) UpdateArrival(ctx context.Context, projectID, itemID string, expected, actual *string) (Item, error) {
	var updated Item
	err := s.mutateItem(ctx, projectID, itemID, func(item *Item) error {
		if expected != nil {
			item.ExpectedArrival = expected
		}
		if actual != nil {
			item.ActualArrival = actual
		}
		updated = *item
		return nil
	})
	return updated, err
}

func (s *Service) mutateItem(ctx context.Context, projectID, itemID string, mutate func(*Item) error) error {
	categories, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return err
	}
	updated := CloneCategories(categories)
	for i := range updated {
		for j := range updated[i].Items {
			if updated[i].Items[j].ID != itemID {
				continue
			}
			if err := mutate(&updated[i].Items[j]); err != nil {
				return err
			}
			if err := s.repo.Save(ctx, projectID, updated); err != nil {
				return err
			}
			s.publish(ctx, projectID)
			return nil
		}
	}
	return ErrItemNotFound
}

func (s *Service) publish(ctx context.Context, projectID string) {
	if s.notifier != nil {
		s.notifier.Publish(ctx, "bom", projectID)
	}
}

func (s *Service) recordAudit(ctx context.Context, actorID, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: actorID, Action: action, Entity: "bom_item", EntityID: entityID, Meta: meta})
}
