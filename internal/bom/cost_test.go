package bom

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestTotalCostEmpty(t *testing.T) {
	require.True(t, TotalCost(nil).IsZero())
	require.True(t, TotalCost([]Category{}).IsZero())
	require.True(t, TotalCost([]Category{{Name: "Electrical"}}).IsZero())
}

func TestTotalCostSumsAcrossCategories(t *testing.T) {
	categories := []Category{
		{
			Name: "Electrical",
			Items: []Item{
				{ID: "i1", Quantity: 2, Price: price(1000)},
				{ID: "i2", Quantity: 3, Price: price(500)},
			},
		},
	}
	require.Equal(t, "3500", TotalCost(categories).String())
}

func TestItemCostZeroRules(t *testing.T) {
	// Unpriced items contribute nothing.
	require.True(t, ItemCost(Item{Quantity: 4}).IsZero())

	// A price of zero is a real zero, not "unset".
	require.True(t, ItemCost(Item{Quantity: 4, Price: price(0)}).IsZero())

	// A quantity of zero counts as one unit.
	require.Equal(t, "1000", ItemCost(Item{Quantity: 0, Price: price(1000)}).String())
}

func TestTotalCostFractionalServiceQuantity(t *testing.T) {
	rate := decimal.NewFromInt(8000)
	categories := []Category{
		{
			Name: "Services",
			Items: []Item{
				{ID: "s1", ItemType: ItemTypeService, Quantity: 0.5, Price: &rate},
			},
		},
	}
	require.Equal(t, "4000", TotalCost(categories).String())
}

func TestCategoryCost(t *testing.T) {
	cat := Category{
		Name: "Pneumatics",
		Items: []Item{
			{ID: "i1", Quantity: 1, Price: price(250)},
			{ID: "i2", Quantity: 2},
		},
	}
	require.Equal(t, "250", CategoryCost(cat).String())
}
