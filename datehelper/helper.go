package datehelper

import (
	"time"

	"github.com/jinzhu/now"
)

// Helper does unit arithmetic under one week-start convention.
// Every returned timestamp keeps the location of its input.
type Helper struct {
	weekStartsMonday bool
	cfg              *now.Config
}

func NewHelper(weekStartsMonday bool) *Helper {
	weekStart := time.Sunday
	if weekStartsMonday {
		weekStart = time.Monday
	}

	return &Helper{
		weekStartsMonday: weekStartsMonday,
		cfg: &now.Config{
			WeekStartDay: weekStart,
			TimeFormats:  now.TimeFormats,
		},
	}
}

// ParseDate reads loose date strings such as "2024-02-01" or "2024-02-01 15:04" in loc.
func (h *Helper) ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	cfg := *h.cfg
	cfg.TimeLocation = loc

	return cfg.Parse(s)
}

func (h *Helper) WeekStartsMonday() bool {
	return h.weekStartsMonday
}

func (h *Helper) WeekStart() time.Weekday {
	return h.cfg.WeekStartDay
}

// ExtractUnit returns the start of the unit bucket holding t.
func (h *Helper) ExtractUnit(t time.Time, unit TimeUnit) time.Time {
	switch unit.Base() {
	case Minute:
		return truncateLocal(t, time.Minute)
	case Hour:
		return truncateLocal(t, time.Hour)
	case Day:
		return h.cfg.With(t).BeginningOfDay()
	case Week:
		return h.cfg.With(t).BeginningOfWeek()
	case Month:
		return h.cfg.With(t).BeginningOfMonth()
	case Year:
		return h.cfg.With(t).BeginningOfYear()
	}

	return t
}

// truncateLocal keeps repeated wall-clock hours (DST fall back) apart.
func truncateLocal(t time.Time, d time.Duration) time.Time {
	_, offset := t.Zone()
	shift := time.Duration(offset) * time.Second

	return t.Add(shift).Truncate(d).Add(-shift)
}

// Add returns the start of the unit n steps away from the unit holding t.
func (h *Helper) Add(t time.Time, unit TimeUnit, n int) time.Time {
	return h.step(h.ExtractUnit(t, unit), unit, n)
}

func (h *Helper) step(start time.Time, unit TimeUnit, n int) time.Time {
	if n == 0 {
		return start
	}

	switch unit.Base() {
	case Minute:
		return start.Add(time.Duration(n) * time.Minute)
	case Hour:
		return start.Add(time.Duration(n) * time.Hour)
	case Day:
		return h.ExtractUnit(start.AddDate(0, 0, n), Day)
	case Week:
		return h.ExtractUnit(start.AddDate(0, 0, 7*n), Week)
	case Month:
		return start.AddDate(0, n, 0)
	case Year:
		return start.AddDate(n, 0, 0)
	}

	return start
}

// Intervals lists count consecutive unit starts beginning at the unit holding anchor.
// A negative count lists the |count| units right before the anchor's unit, ascending.
func (h *Helper) Intervals(unit TimeUnit, anchor time.Time, count int) []time.Time {
	start := h.ExtractUnit(anchor, unit)

	lo, hi := 0, count
	if count < 0 {
		lo, hi = count, 0
	}

	ds := make([]time.Time, 0, hi-lo)
	for i := lo; i < hi; i++ {
		ds = append(ds, h.step(start, unit, i))
	}

	return ds
}

// Between lists the unit starts lying in [start, end).
func (h *Helper) Between(unit TimeUnit, start, end time.Time) []time.Time {
	first := h.Ceil(start, unit)
	n := h.Count(unit, start, end)

	ds := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		ds = append(ds, h.step(first, unit, i))
	}

	return ds
}

// Ceil returns the first unit start not before t.
func (h *Helper) Ceil(t time.Time, unit TimeUnit) time.Time {
	first := h.ExtractUnit(t, unit)
	if first.Before(t) {
		first = h.step(first, unit, 1)
	}

	return first
}

// Count returns how many unit starts lie in [start, end).
func (h *Helper) Count(unit TimeUnit, start, end time.Time) int {
	if !start.Before(end) {
		return 0
	}

	first := h.Ceil(start, unit)
	last := h.ExtractUnit(end.Add(-time.Nanosecond), unit)

	if last.Before(first) {
		return 0
	}

	return h.Diff(unit, first, last) + 1
}

// Diff returns the number of whole units from the unit start a to the unit start b.
func (h *Helper) Diff(unit TimeUnit, a, b time.Time) int {
	switch unit.Base() {
	case Minute:
		return int(b.Sub(a) / time.Minute)
	case Hour:
		return int(b.Sub(a) / time.Hour)
	case Day:
		return civilDays(b) - civilDays(a)
	case Week:
		return floorDiv(civilDays(b)-civilDays(a), 7)
	case Month:
		return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	case Year:
		return b.Year() - a.Year()
	}

	return 0
}

func civilDays(t time.Time) int {
	y, m, d := t.Date()

	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

// WeekDay is the position of t inside its week, 0 being the configured first weekday.
func (h *Helper) WeekDay(t time.Time) int {
	return (int(t.Weekday()) - int(h.cfg.WeekStartDay) + 7) % 7
}

// YearWeek numbers weeks inside t's year the way strftime %W (Monday) or %U (Sunday) does:
// days before the first full week belong to week 0. It never decreases within a year.
func (h *Helper) YearWeek(t time.Time) int {
	return (t.YearDay() - 1 + 7 - h.WeekDay(t)) / 7
}

// WeekNumber follows ISO-8601 for Monday-start weeks and strftime %U otherwise.
func WeekNumber(t time.Time, weekStartsMonday bool) int {
	if weekStartsMonday {
		_, week := t.ISOWeek()

		return week
	}

	return (t.YearDay() - 1 + 7 - int(t.Weekday())) / 7
}

func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func DaysInYear(t time.Time) int {
	if IsLeapYear(t.Year()) {
		return 366
	}

	return 365
}

// ISOWeeksInYear returns 52 or 53, the ISO-8601 week count of t's year.
func ISOWeeksInYear(t time.Time) int {
	_, week := time.Date(t.Year(), time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()

	return week
}
