// Package timefmt renders timestamps in the display format used by the API:
// ordinal day + full month name + 24h time, e.g. "12th May 2024 at 22:45".
package timefmt

import (
	"fmt"
	"time"
)

// Format renders t as e.g. "12th May 2024 at 22:45".
func Format(t time.Time) string {
	return fmt.Sprintf("%d%s %s %d at %02d:%02d",
		t.Day(), ordinalSuffix(t.Day()), t.Month().String(), t.Year(),
		t.Hour(), t.Minute())
}

// ordinalSuffix returns the English ordinal suffix for a day of the month.
// 11–13 take "th" despite ending in 1/2/3.
func ordinalSuffix(day int) string {
	if day >= 10 && day <= 20 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
