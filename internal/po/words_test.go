package po

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "Rupees Zero Only"},
		{"7", "Rupees Seven Only"},
		{"19", "Rupees Nineteen Only"},
		{"42", "Rupees Forty Two Only"},
		{"100", "Rupees One Hundred Only"},
		{"512", "Rupees Five Hundred Twelve Only"},
		{"2950", "Rupees Two Thousand Nine Hundred Fifty Only"},
		{"11800", "Rupees Eleven Thousand Eight Hundred Only"},
		{"100000", "Rupees One Lakh Only"},
		{"2350000", "Rupees Twenty Three Lakh Fifty Thousand Only"},
		{"10000000", "Rupees One Crore Only"},
		{"123456789", "Rupees Twelve Crore Thirty Four Lakh Fifty Six Thousand Seven Hundred Eighty Nine Only"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, AmountInWords(dec(tc.amount)), "amount %s", tc.amount)
	}
}

func TestAmountInWordsPaise(t *testing.T) {
	require.Equal(t, "Rupees Ninety Nine and Fifty Paise Only", AmountInWords(dec("99.50")))
	require.Equal(t, "Rupees One Thousand and Five Paise Only", AmountInWords(dec("1000.05")))
	// Sub-paise amounts round at this boundary, nowhere earlier.
	require.Equal(t, "Rupees Ten and Thirteen Paise Only", AmountInWords(dec("10.125")))
}
