package po

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	june := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	require.Equal(t, "QT/2026-27/0042", FormatNumber("QT", "", 42, june))
	require.Equal(t, "QT-2026-42", FormatNumber("QT", "{prefix}-{year}-{seq}", 42, june))
	require.Equal(t, "PO/000007", FormatNumber("PO", "{prefix}/{seq:6}", 7, june))
}

func TestFormatNumberFinancialYearRollsInApril(t *testing.T) {
	march := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, "QT/2025-26/0001", FormatNumber("QT", "", 1, march))
	require.Equal(t, "QT/2026-27/0001", FormatNumber("QT", "", 1, april))
}

func TestFormatNumberDeterministic(t *testing.T) {
	at := time.Date(2026, time.January, 2, 10, 30, 0, 0, time.UTC)
	first := FormatNumber("QT", "{prefix}/{fy}/{seq:4}", 17, at)
	second := FormatNumber("QT", "{prefix}/{fy}/{seq:4}", 17, at)
	require.Equal(t, first, second)
	require.Equal(t, "QT/2025-26/0017", first)
}
