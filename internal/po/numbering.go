package po

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultNumberFormat is used when company settings leave the format blank.
const DefaultNumberFormat = "{prefix}/{fy}/{seq:4}"

var seqPlaceholder = regexp.MustCompile(`\{seq(?::(\d+))?\}`)

// FormatNumber renders a PO number from the configured prefix, format
// template, and counter value. Deterministic given the counter. Supported
// placeholders: {prefix}, {seq}, {seq:N} (zero-padded to N digits), {year},
// and {fy} (Indian financial year, April to March, e.g. 2025-26).
func FormatNumber(prefix, format string, counter int64, at time.Time) string {
	if format == "" {
		format = DefaultNumberFormat
	}
	out := strings.ReplaceAll(format, "{prefix}", prefix)
	out = strings.ReplaceAll(out, "{year}", fmt.Sprintf("%d", at.Year()))
	out = strings.ReplaceAll(out, "{fy}", financialYear(at))
	out = seqPlaceholder.ReplaceAllStringFunc(out, func(match string) string {
		groups := seqPlaceholder.FindStringSubmatch(match)
		if groups[1] == "" {
			return fmt.Sprintf("%d", counter)
		}
		return fmt.Sprintf("%0*d", atoiSafe(groups[1]), counter)
	})
	return out
}

func financialYear(at time.Time) string {
	start := at.Year()
	if at.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
