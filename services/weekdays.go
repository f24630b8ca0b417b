package services

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// weekdayCodes are the canonical stored labels, indexed by time.Weekday.
var weekdayCodes = [7]string{"dom", "seg", "ter", "qua", "qui", "sex", "sab"}

var weekdayAliases = map[string]time.Weekday{
	"dom": time.Sunday, "domingo": time.Sunday, "sun": time.Sunday, "sunday": time.Sunday,
	"seg": time.Monday, "segunda": time.Monday, "segunda-feira": time.Monday, "mon": time.Monday, "monday": time.Monday,
	"ter": time.Tuesday, "terca": time.Tuesday, "terca-feira": time.Tuesday, "tue": time.Tuesday, "tuesday": time.Tuesday,
	"qua": time.Wednesday, "quarta": time.Wednesday, "quarta-feira": time.Wednesday, "wed": time.Wednesday, "wednesday": time.Wednesday,
	"qui": time.Thursday, "quinta": time.Thursday, "quinta-feira": time.Thursday, "thu": time.Thursday, "thursday": time.Thursday,
	"sex": time.Friday, "sexta": time.Friday, "sexta-feira": time.Friday, "fri": time.Friday, "friday": time.Friday,
	"sab": time.Saturday, "sabado": time.Saturday, "sat": time.Saturday, "saturday": time.Saturday,
}

func foldLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return strings.TrimSuffix(folded, ".")
}

// WeekdayIndex resolves a label such as "Sáb", "qua." or "monday".
func WeekdayIndex(label string) (time.Weekday, bool) {
	d, ok := weekdayAliases[foldLabel(label)]
	return d, ok
}

// WeekdaySet is a bitmask over time.Weekday.
type WeekdaySet uint8

func (s WeekdaySet) Has(d time.Weekday) bool { return s&(1<<uint(d)) != 0 }

func (s WeekdaySet) With(d time.Weekday) WeekdaySet { return s | 1<<uint(d) }

func (s WeekdaySet) Empty() bool { return s == 0 }

// Days lists the members from Sunday to Saturday.
func (s WeekdaySet) Days() []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s WeekdaySet) Codes() []string {
	out := make([]string, 0, 7)
	for _, d := range s.Days() {
		out = append(out, weekdayCodes[d])
	}
	return out
}

// ParseWeekdays reads a zone's stored day list. A native JSON array, a JSON
// string holding an encoded array and an object wrapping either under "dias"
// are accepted. Unknown labels are skipped and anything unreadable yields the
// empty set.
func ParseWeekdays(raw []byte) WeekdaySet {
	var set WeekdaySet
	for _, label := range decodeLabels(raw, 3) {
		if d, ok := WeekdayIndex(label); ok {
			set = set.With(d)
		}
	}
	return set
}

func decodeLabels(raw []byte, depth int) []string {
	if depth == 0 {
		return nil
	}
	var labels []string
	if err := json.Unmarshal(raw, &labels); err == nil {
		return labels
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		return decodeLabels([]byte(encoded), depth-1)
	}
	var wrapper struct {
		Days json.RawMessage `json:"dias"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Days) > 0 {
		return decodeLabels(wrapper.Days, depth-1)
	}
	return nil
}

// CanonicalWeekdays validates user-supplied labels and returns them as
// canonical codes in week order. Duplicates collapse.
func CanonicalWeekdays(labels []string) ([]string, error) {
	var set WeekdaySet
	var unknown []string
	for _, label := range labels {
		d, ok := WeekdayIndex(label)
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		set = set.With(d)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, validationf("Dias inválidos: %s. Use dom, seg, ter, qua, qui, sex ou sab", strings.Join(unknown, ", "))
	}
	return set.Codes(), nil
}
