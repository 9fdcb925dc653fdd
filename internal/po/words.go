package po

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords renders a currency amount as English words using the Indian
// numbering convention (thousand, lakh, crore). The amount is rounded to
// paise first; this is the only rounding in the calculation chain. The
// result is the legal text printed on the PO.
func AmountInWords(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	rupees := rounded.IntPart()
	paise := rounded.Sub(decimal.NewFromInt(rupees)).Mul(hundred).Round(0).IntPart()

	var b strings.Builder
	b.WriteString("Rupees ")
	b.WriteString(integerWords(rupees))
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(integerWords(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// integerWords converts a non-negative integer using lakh/crore grouping.
func integerWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	var parts []string
	if crore := n / 1_00_00_000; crore > 0 {
		parts = append(parts, integerWords(crore), "Crore")
		n %= 1_00_00_000
	}
	if lakh := n / 1_00_000; lakh > 0 {
		parts = append(parts, twoDigitWords(int(lakh)), "Lakh")
		n %= 1_00_000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, twoDigitWords(int(thousand)), "Thousand")
		n %= 1000
	}
	if h := n / 100; h > 0 {
		parts = append(parts, onesWords[h], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, twoDigitWords(int(n)))
	}
	return strings.Join(parts, " ")
}

func twoDigitWords(n int) string {
	if n < 20 {
		return onesWords[n]
	}
	word := tensWords[n/10]
	if n%10 > 0 {
		word += " " + onesWords[n%10]
	}
	return word
}
