package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"coleta-agenda/models"
	"coleta-agenda/utils"

	"github.com/robfig/cron/v3"
)

// DayStatus tags one date of a client's calendar.
type DayStatus string

const (
	DayRealized  DayStatus = "REALIZADO"
	DayCancelled DayStatus = "CANCELADO"
	DayMissed    DayStatus = "PERDIDO"
	DayPending   DayStatus = "PENDENTE"
)

// ExpectedDates lists every date in [start, end] whose weekday is in days.
// Bounds are treated as civil dates.
func ExpectedDates(days WeekdaySet, start, end time.Time) ([]time.Time, error) {
	if days.Empty() {
		return nil, nil
	}
	start, end = utils.CivilDate(start), utils.CivilDate(end)
	if end.Before(start) {
		return nil, nil
	}

	dows := make([]string, 0, 7)
	for _, d := range days.Days() {
		dows = append(dows, strconv.Itoa(int(d)))
	}
	schedule, err := cron.ParseStandard(fmt.Sprintf("CRON_TZ=UTC 0 0 * * %s", strings.Join(dows, ",")))
	if err != nil {
		return nil, fmt.Errorf("weekday schedule: %w", err)
	}

	var dates []time.Time
	for t := schedule.Next(start.Add(-time.Second)); !t.IsZero() && !t.After(end); t = schedule.Next(t) {
		dates = append(dates, utils.CivilDate(t))
	}
	return dates, nil
}

type dateSet map[string]struct{}

func (s dateSet) add(d string) { s[d] = struct{}{} }

func (s dateSet) has(d string) bool {
	_, ok := s[d]
	return ok
}

func (s dateSet) sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Reconciliation holds one client's expected dates and recorded events over
// a period. Dates are yyyy-mm-dd strings.
type Reconciliation struct {
	expected  []string
	realized  dateSet
	cancelled dateSet
	pending   dateSet
}

// Reconcile expands the weekday set over [start, end] and buckets the
// appointments by effective date and status. Appointments outside the
// period are ignored.
func Reconcile(days WeekdaySet, start, end time.Time, appointments []models.Appointment) (*Reconciliation, error) {
	expected, err := ExpectedDates(days, start, end)
	if err != nil {
		return nil, err
	}
	r := &Reconciliation{
		expected:  make([]string, 0, len(expected)),
		realized:  dateSet{},
		cancelled: dateSet{},
		pending:   dateSet{},
	}
	for _, d := range expected {
		r.expected = append(r.expected, utils.FormatDate(d))
	}

	from, to := utils.FormatDate(utils.CivilDate(start)), utils.FormatDate(utils.CivilDate(end))
	for _, a := range appointments {
		day := utils.FormatDate(utils.CivilDate(a.EffectiveDate()))
		if day < from || day > to {
			continue
		}
		switch a.Status {
		case models.StatusRealized:
			r.realized.add(day)
		case models.StatusCancelled:
			r.cancelled.add(day)
		case models.StatusPending:
			r.pending.add(day)
		}
	}
	return r, nil
}

func (r *Reconciliation) Expected() []string { return r.expected }

func (r *Reconciliation) Realized() []string { return r.realized.sorted() }

func (r *Reconciliation) Cancelled() []string { return r.cancelled.sorted() }

func (r *Reconciliation) Pending() []string { return r.pending.sorted() }

// Dates is the reportable set: expected dates plus every date carrying an
// event, sorted.
func (r *Reconciliation) Dates() []string {
	all := dateSet{}
	for _, d := range r.expected {
		all.add(d)
	}
	for _, set := range []dateSet{r.realized, r.cancelled, r.pending} {
		for d := range set {
			all.add(d)
		}
	}
	return all.sorted()
}

// DayMark is one cell of the calendar matrix.
type DayMark struct {
	Date   string    `json:"data"`
	Status DayStatus `json:"status"`
}

// Calendar tags each reportable date with REALIZADO > CANCELADO > PERDIDO >
// PENDENTE. A date is PERDIDO when it is strictly before today.
func (r *Reconciliation) Calendar(today time.Time) []DayMark {
	todayKey := utils.FormatDate(utils.CivilDate(today))
	dates := r.Dates()
	marks := make([]DayMark, 0, len(dates))
	for _, d := range dates {
		status := DayPending
		switch {
		case r.realized.has(d):
			status = DayRealized
		case r.cancelled.has(d):
			status = DayCancelled
		case d < todayKey:
			status = DayMissed
		}
		marks = append(marks, DayMark{Date: d, Status: status})
	}
	return marks
}

// Totals counts expected dates only. Each date lands in exactly one bucket:
// realized, else cancelled, else still expected.
type Totals struct {
	Expected  int `json:"coletasPrevistas"`
	Realized  int `json:"coletasRealizadas"`
	Cancelled int `json:"coletasCanceladas"`
}

func (r *Reconciliation) Totals() Totals {
	var t Totals
	for _, d := range r.expected {
		switch {
		case r.realized.has(d):
			t.Realized++
		case r.cancelled.has(d):
			t.Cancelled++
		default:
			t.Expected++
		}
	}
	return t
}
