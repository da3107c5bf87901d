package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// monthDays is the single source of truth for plan durations. The values are
// fixed day counts, not calendar months: a "3 months" order created on Jan 31
// expires exactly 90 days later.
var monthDays = map[int]int{
	1:  30,
	3:  90,
	6:  180,
	12: 365,
}

// KnownDurations lists the supported month counts in ascending order.
func KnownDurations() []int { return []int{1, 3, 6, 12} }

// DurationDays maps a month count to its fixed day count. Unknown counts
// return 0.
func DurationDays(months int) int { return monthDays[months] }

// DurationLabel renders a month count the way the storefront displays it,
// e.g. "6 Months". Zero months renders as "Unknown".
func DurationLabel(months int) string {
	switch {
	case months == 0:
		return "Unknown"
	case months == 1:
		return "1 Month"
	default:
		return fmt.Sprintf("%d Months", months)
	}
}

var durationRe = regexp.MustCompile(`(?i)(\d+)\s*month`)

// MonthsFromText extracts a month count from free text ("Adobe CC - 6 months")
// and returns 0 when the text does not name a known duration.
func MonthsFromText(s string) int {
	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || monthDays[n] == 0 {
		return 0
	}
	return n
}
