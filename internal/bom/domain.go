package bom

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// ItemType distinguishes physical parts from engineering services.
type ItemType string

const (
	ItemTypeComponent ItemType = "component"
	ItemTypeService   ItemType = "service"
)

// ItemStatus is the procurement lifecycle of a BOM item.
type ItemStatus string

const (
	StatusNotOrdered ItemStatus = "not-ordered"
	StatusOrdered    ItemStatus = "ordered"
	StatusReceived   ItemStatus = "received"
	// StatusApproved survives in historical records only. New transitions
	// never target it.
	//
	// Deprecated: accepted on read for legacy data.
	StatusApproved ItemStatus = "approved"
)

// FinalizedVendor is the vendor snapshot fixed at order time.
type FinalizedVendor struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	LeadTime     string          `json:"leadTime,omitempty"`
	Availability string          `json:"availability,omitempty"`
}

// Item is a procurable unit inside a project BOM. Optional fields are
// pointers so the persistence boundary can keep absence distinct from zero.
type Item struct {
	ID                      string           `json:"id"`
	ItemType                ItemType         `json:"itemType"`
	Name                    string           `json:"name"`
	Description             string           `json:"description,omitempty"`
	Category                string           `json:"category"`
	Quantity                float64          `json:"quantity"`
	Price                   *decimal.Decimal `json:"price,omitempty"`
	Status                  ItemStatus       `json:"status"`
	FinalizedVendor         *FinalizedVendor `json:"finalizedVendor,omitempty"`
	OrderDate               *string          `json:"orderDate,omitempty"`
	ExpectedArrival         *string          `json:"expectedArrival,omitempty"`
	ActualArrival           *string          `json:"actualArrival,omitempty"`
	PONumber                *string          `json:"poNumber,omitempty"`
	LinkedPODocumentID      *string          `json:"linkedPODocumentId,omitempty"`
	LinkedInvoiceDocumentID *string          `json:"linkedInvoiceDocumentId,omitempty"`
}

// Category groups items under a named section of the project BOM. Names are
// unique within one project.
type Category struct {
	Name       string `json:"name"`
	IsExpanded bool   `json:"isExpanded"`
	Items      []Item `json:"items"`
}

// KnownStatuses lists every status accepted on read, legacy included.
func KnownStatuses() []ItemStatus {
	return []ItemStatus{StatusNotOrdered, StatusOrdered, StatusReceived, StatusApproved}
}

// ValidTransitionTarget reports whether status may be produced by a new
// transition. The legacy approved value is read-only.
func ValidTransitionTarget(status ItemStatus) bool {
	switch status {
	case StatusNotOrdered, StatusOrdered, StatusReceived:
		return true
	default:
		return false
	}
}

var (
	// ErrVendorNotFinalized occurs when an item is ordered before a vendor
	// snapshot has been fixed. Typed so handlers respond 409.
	ErrVendorNotFinalized error = shared.NewInvalidStateError("bom item", "vendor must be finalized before ordering")
	// ErrCategoryExists occurs when a category name collides.
	ErrCategoryExists error = shared.NewInvalidStateError("bom category", "a category with that name already exists")
	// ErrItemNotFound indicates the item id is not present in any category.
	// Wraps the shared sentinel so handlers respond 404.
	ErrItemNotFound = fmt.Errorf("bom: item: %w", shared.ErrNotFound)
)

// FindItem locates an item by id across all categories.
func FindItem(categories []Category, itemID string) (Item, bool) {
	for _, cat := range categories {
		for _, item := range cat.Items {
			if item.ID == itemID {
				return item, true
			}
		}
	}
	return Item{}, false
}

// CloneItem returns a value copy with its own pointer fields, so callers can
// mutate the clone without touching the original.
func CloneItem(item Item) Item {
	out := item
	out.Price = cloneDecimalPtr(item.Price)
	if item.FinalizedVendor != nil {
		fv := *item.FinalizedVendor
		out.FinalizedVendor = &fv
	}
	out.OrderDate = cloneStringPtr(item.OrderDate)
	out.ExpectedArrival = cloneStringPtr(item.ExpectedArrival)
	out.ActualArrival = cloneStringPtr(item.ActualArrival)
	out.PONumber = cloneStringPtr(item.PONumber)
	out.LinkedPODocumentID = cloneStringPtr(item.LinkedPODocumentID)
	out.LinkedInvoiceDocumentID = cloneStringPtr(item.LinkedInvoiceDocumentID)
	return out
}

// CloneCategories deep-copies the category list.
func CloneCategories(categories []Category) []Category {
	out := make([]Category, len(categories))
	for i, cat := range categories {
		items := make([]Item, len(cat.Items))
		for j, item := range cat.Items {
			items[j] = CloneItem(item)
		}
		out[i] = Category{Name: cat.Name, IsExpanded: cat.IsExpanded, Items: items}
	}
	return out
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDecimalPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := d.Copy()
	return &v
}
