package documents

import (
	"fmt"

	"github.com/QualitasTechnologies/bom-tracker/internal/bom"
)

// DeleteCheck is the verdict of the deletion guard.
type DeleteCheck struct {
	CanDelete      bool       `json:"canDelete"`
	BlockedByItems []bom.Item `json:"blockedByItems,omitempty"`
	Reason         string     `json:"reason,omitempty"`
}

// CanDelete decides whether a document may be deleted given the current BOM
// items. Vendor POs are blocked while any linked item is ordered; vendor
// invoices while any linked item is received. Quotes, customer POs, and
// unrecognized types are deletable unconditionally.
//
// Linkage is checked from both directions: the document's linkedBOMItems
// list and the item's own reverse pointer. The two can transiently disagree
// while a link sync is in flight.
func CanDelete(doc Document, items []bom.Item) DeleteCheck {
	var blockingStatus bom.ItemStatus
	switch doc.Type {
	case TypeVendorPO:
		blockingStatus = bom.StatusOrdered
	case TypeVendorInvoice:
		blockingStatus = bom.StatusReceived
	default:
		return DeleteCheck{CanDelete: true}
	}

	var blocked []bom.Item
	for _, item := range items {
		if item.Status != blockingStatus {
			continue
		}
		if isLinked(doc, item) {
			blocked = append(blocked, item)
		}
	}
	if len(blocked) == 0 {
		return DeleteCheck{CanDelete: true}
	}
	return DeleteCheck{
		CanDelete:      false,
		BlockedByItems: blocked,
		Reason:         fmt.Sprintf("%d linked item(s) are %s; update their status before deleting this document", len(blocked), blockingStatus),
	}
}

func isLinked(doc Document, item bom.Item) bool {
	for _, id := range doc.LinkedBOMItems {
		if id == item.ID {
			return true
		}
	}
	switch doc.Type {
	case TypeVendorPO:
		return item.LinkedPODocumentID != nil && *item.LinkedPODocumentID == doc.ID
	case TypeVendorInvoice:
		return item.LinkedInvoiceDocumentID != nil && *item.LinkedInvoiceDocumentID == doc.ID
	}
	return false
}
