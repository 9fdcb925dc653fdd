package bom

import "github.com/shopspring/decimal"

// ItemCost returns the cost contribution of a single item. Unpriced items
// contribute zero; a price of zero is a real zero. A quantity of zero means
// the field was never set, so it counts as one unit rather than as free.
func ItemCost(item Item) decimal.Decimal {
	if item.Price == nil {
		return decimal.Zero
	}
	qty := item.Quantity
	if qty == 0 {
		qty = 1
	}
	return item.Price.Mul(decimal.NewFromFloat(qty))
}

// TotalCost sums item cost across every category. The same formula covers
// components (unit price × count) and services (day rate × duration).
func TotalCost(categories []Category) decimal.Decimal {
	total := decimal.Zero
	for _, cat := range categories {
		for _, item := range cat.Items {
			total = total.Add(ItemCost(item))
		}
	}
	return total
}

// CategoryCost sums cost for one category, used for per-section rollups.
func CategoryCost(cat Category) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cat.Items {
		total = total.Add(ItemCost(item))
	}
	return total
}
