package bom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixtureCategories() []Category {
	lead := "2026-03-01"
	return []Category{
		{
			Name:       "Electrical",
			IsExpanded: true,
			Items: []Item{
				{ID: "i1", Name: "Contactor", Category: "Electrical", Quantity: 2, Price: price(1200), Status: StatusNotOrdered, ExpectedArrival: &lead},
				{ID: "i2", Name: "Relay", Category: "Electrical", Quantity: 4, Status: StatusNotOrdered},
			},
		},
		{
			Name: "Mechanical",
			Items: []Item{
				{ID: "i3", Name: "Baseplate", Category: "Mechanical", Quantity: 1, Price: price(4500), Status: StatusNotOrdered},
			},
		},
	}
}

func TestBatchUpdateStatusTargetsAcrossCategories(t *testing.T) {
	original := fixtureCategories()
	updated := BatchUpdateStatus(original, []string{"i1", "i3"}, StatusOrdered)

	// Targeted items flipped, in both categories.
	got1, ok := FindItem(updated, "i1")
	require.True(t, ok)
	require.Equal(t, StatusOrdered, got1.Status)
	got3, ok := FindItem(updated, "i3")
	require.True(t, ok)
	require.Equal(t, StatusOrdered, got3.Status)

	// Untouched item keeps its status and every other field.
	got2, ok := FindItem(updated, "i2")
	require.True(t, ok)
	require.Equal(t, StatusNotOrdered, got2.Status)
	orig2, _ := FindItem(original, "i2")
	require.Equal(t, orig2, got2)

	// Non-status fields of updated items are preserved.
	require.Equal(t, "Contactor", got1.Name)
	require.Equal(t, 2.0, got1.Quantity)
	require.NotNil(t, got1.ExpectedArrival)
	require.Equal(t, "2026-03-01", *got1.ExpectedArrival)
}

func TestBatchUpdateStatusDoesNotMutateInput(t *testing.T) {
	original := fixtureCategories()
	snapshot := CloneCategories(original)

	_ = BatchUpdateStatus(original, []string{"i1", "i2", "i3"}, StatusReceived)

	require.Equal(t, snapshot, original)
}

func TestBatchUpdateStatusIgnoresUnknownIDs(t *testing.T) {
	original := fixtureCategories()
	updated := BatchUpdateStatus(original, []string{"missing", "i2"}, StatusOrdered)

	got2, _ := FindItem(updated, "i2")
	require.Equal(t, StatusOrdered, got2.Status)
	got1, _ := FindItem(updated, "i1")
	require.Equal(t, StatusNotOrdered, got1.Status)
}

func TestBatchUpdateStatusEmptySetIsNoOp(t *testing.T) {
	original := fixtureCategories()
	updated := BatchUpdateStatus(original, nil, StatusOrdered)
	require.Equal(t, original, updated)
}

func TestValidTransitionTarget(t *testing.T) {
	require.True(t, ValidTransitionTarget(StatusNotOrdered))
	require.True(t, ValidTransitionTarget(StatusOrdered))
	require.True(t, ValidTransitionTarget(StatusReceived))
	require.False(t, ValidTransitionTarget(StatusApproved))
	require.False(t, ValidTransitionTarget(ItemStatus("bogus")))
}
