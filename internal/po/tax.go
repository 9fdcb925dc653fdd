package po

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineInput is the quantity/rate pair the calculator consumes. Amounts
// supplied by callers are ignored and recomputed.
type LineInput struct {
	Quantity decimal.Decimal
	Rate     decimal.Decimal
}

// DetermineTaxType compares buyer and seller GST state codes. Same state
// means intrastate supply taxed as CGST+SGST; different states mean
// interstate supply taxed as IGST. This mirrors Indian GST law.
func DetermineTaxType(buyerStateCode, sellerStateCode string) TaxType {
	if buyerStateCode == sellerStateCode {
		return TaxCGSTSGST
	}
	return TaxIGST
}

// LineAmount computes a single line amount as quantity times rate.
func LineAmount(line LineInput) decimal.Decimal {
	return line.Quantity.Mul(line.Rate)
}

// CalculateTotals computes subtotal, the GST split, grand total, and the
// amount in words from the line items. No intermediate rounding: values stay
// exact decimals until the display boundary.
func CalculateTotals(lines []LineInput, taxType TaxType, taxPercentage decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(LineAmount(line))
	}

	totals := Totals{
		Subtotal:      subtotal,
		TaxType:       taxType,
		TaxPercentage: taxPercentage,
	}

	switch taxType {
	case TaxIGST:
		igst := subtotal.Mul(taxPercentage).Div(hundred)
		totals.IGSTAmount = &igst
		totals.TotalAmount = subtotal.Add(igst)
	default:
		half := subtotal.Mul(taxPercentage.Div(decimal.NewFromInt(2))).Div(hundred)
		cgst := half
		sgst := half.Copy()
		totals.CGSTAmount = &cgst
		totals.SGSTAmount = &sgst
		totals.TotalAmount = subtotal.Add(cgst).Add(sgst)
	}

	totals.AmountInWords = AmountInWords(totals.TotalAmount)
	return totals
}

// RecomputeTotals reassigns dense serial numbers and line amounts on the
// items, then computes totals from them. Used both at creation and whenever
// quantities or rates change while the order is a draft.
func RecomputeTotals(items []Item, taxType TaxType, taxPercentage decimal.Decimal) ([]Item, Totals) {
	out := make([]Item, len(items))
	lines := make([]LineInput, len(items))
	for i, item := range items {
		item.SlNo = i + 1
		item.Amount = item.Quantity.Mul(item.Rate)
		out[i] = item
		lines[i] = LineInput{Quantity: item.Quantity, Rate: item.Rate}
	}
	return out, CalculateTotals(lines, taxType, taxPercentage)
}
