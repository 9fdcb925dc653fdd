package documents

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/QualitasTechnologies/bom-tracker/internal/bom"
)

func TestCanDeleteVendorPOBlockedByOrderedItem(t *testing.T) {
	doc := Document{ID: "docA", Type: TypeVendorPO, LinkedBOMItems: []string{"i1"}}
	items := []bom.Item{
		{ID: "i1", Name: "Contactor", Status: bom.StatusOrdered},
		{ID: "i2", Name: "Relay", Status: bom.StatusNotOrdered},
	}

	check := CanDelete(doc, items)
	require.False(t, check.CanDelete)
	require.Len(t, check.BlockedByItems, 1)
	require.Equal(t, "i1", check.BlockedByItems[0].ID)
	require.NotEmpty(t, check.Reason)

	// The same document becomes deletable once the item reverts.
	items[0].Status = bom.StatusNotOrdered
	check = CanDelete(doc, items)
	require.True(t, check.CanDelete)
	require.Empty(t, check.BlockedByItems)
}

func TestCanDeleteVendorInvoiceBlockedByReceivedItem(t *testing.T) {
	doc := Document{ID: "docI", Type: TypeVendorInvoice}
	invoiceRef := "docI"
	items := []bom.Item{
		{ID: "i1", Status: bom.StatusReceived, LinkedInvoiceDocumentID: &invoiceRef},
	}

	// Linkage found through the item's reverse pointer even though the
	// document's own list is empty.
	check := CanDelete(doc, items)
	require.False(t, check.CanDelete)
	require.Equal(t, "i1", check.BlockedByItems[0].ID)
}

func TestCanDeleteQuoteAlwaysAllowed(t *testing.T) {
	doc := Document{ID: "docQ", Type: TypeVendorQuote, LinkedBOMItems: []string{"i1", "i2"}}
	items := []bom.Item{
		{ID: "i1", Status: bom.StatusOrdered},
		{ID: "i2", Status: bom.StatusReceived},
	}
	require.True(t, CanDelete(doc, items).CanDelete)
}

func TestCanDeleteUnrecognizedTypeDefaultsToAllow(t *testing.T) {
	doc := Document{ID: "docX", Type: Type("mystery"), LinkedBOMItems: []string{"i1"}}
	items := []bom.Item{{ID: "i1", Status: bom.StatusOrdered}}
	require.True(t, CanDelete(doc, items).CanDelete)
}

func TestCanDeleteVendorPOReversePointerOnly(t *testing.T) {
	doc := Document{ID: "docA", Type: TypeVendorPO}
	poRef := "docA"
	items := []bom.Item{{ID: "i1", Status: bom.StatusOrdered, LinkedPODocumentID: &poRef}}

	check := CanDelete(doc, items)
	require.False(t, check.CanDelete)
}
