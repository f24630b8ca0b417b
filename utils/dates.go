// utils/dates.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var acceptedDateLayouts = []string{DateLayout, "02/01/2006", time.RFC3339}

// CivilDate drops the clock and zone of t, keeping its calendar date at
// UTC midnight. All stored dates use this form.
func CivilDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func DaysBetween(start, end time.Time) int {
	start = CivilDate(start)
	end = CivilDate(end)
	return int(end.Sub(start).Hours() / 24)
}

// ParseDate accepts yyyy-mm-dd, dd/mm/yyyy and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CivilDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("data inválida: %q", s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
