package datehelper

import (
	"strings"

	"github.com/sgostarter/libcalheatmap/calerr"
)

type TimeUnit int

const (
	Minute TimeUnit = iota + 1
	Hour
	Day
	Week
	Month
	Year
)

const transposedFlag TimeUnit = 0x10

// Transposed variants lay subdomains out vertically.
const (
	XMinute = Minute | transposedFlag
	XHour   = Hour | transposedFlag
	XDay    = Day | transposedFlag
	XWeek   = Week | transposedFlag
	XMonth  = Month | transposedFlag
	XYear   = Year | transposedFlag
)

const transposedPrefix = "x_"

var unitNames = map[TimeUnit]string{
	Minute: "min",
	Hour:   "hour",
	Day:    "day",
	Week:   "week",
	Month:  "month",
	Year:   "year",
}

var unitAliases = map[string]TimeUnit{
	"min":    Minute,
	"minute": Minute,
	"hour":   Hour,
	"day":    Day,
	"week":   Week,
	"month":  Month,
	"year":   Year,
}

func ParseTimeUnit(s string) (TimeUnit, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	var flag TimeUnit

	if strings.HasPrefix(name, transposedPrefix) {
		flag = transposedFlag
		name = strings.TrimPrefix(name, transposedPrefix)
	}

	u, ok := unitAliases[name]
	if !ok {
		return 0, calerr.NewConfigError("unit", "invalid time unit %q", s)
	}

	return u | flag, nil
}

func (u TimeUnit) Base() TimeUnit {
	return u &^ transposedFlag
}

func (u TimeUnit) Transposed() bool {
	return u&transposedFlag != 0
}

// Transpose returns the vertical variant of u.
func (u TimeUnit) Transpose() TimeUnit {
	return u | transposedFlag
}

func (u TimeUnit) Level() int {
	return int(u.Base())
}

func (u TimeUnit) Valid() bool {
	b := u.Base()

	return b >= Minute && b <= Year
}

// FinerThan reports whether u is a strictly smaller granularity than o, ignoring orientation.
func (u TimeUnit) FinerThan(o TimeUnit) bool {
	return u.Level() < o.Level()
}

func (u TimeUnit) String() string {
	name, ok := unitNames[u.Base()]
	if !ok {
		return "unknown"
	}

	if u.Transposed() {
		return transposedPrefix + name
	}

	return name
}

// OptimalSubDomain returns the usual subdomain for a domain unit, keeping its orientation.
// Minute has no finer unit and yields 0.
func OptimalSubDomain(domain TimeUnit) TimeUnit {
	var sub TimeUnit

	switch domain.Base() {
	case Year:
		sub = Month
	case Month, Week:
		sub = Day
	case Day:
		sub = Hour
	case Hour:
		sub = Minute
	default:
		return 0
	}

	if domain.Transposed() {
		sub |= transposedFlag
	}

	return sub
}
