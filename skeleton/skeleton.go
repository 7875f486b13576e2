package skeleton

import (
	"time"

	"github.com/sgostarter/libcalheatmap/calerr"
	"github.com/sgostarter/libcalheatmap/datehelper"
)

// Skeleton lays the subdomain cells of one domain out on a grid.
type Skeleton struct {
	helper *datehelper.Helper
	domain datehelper.TimeUnit
	sub    datehelper.TimeUnit
	entry  templateEntry

	// limits in canonical (untransposed) orientation
	colLimit int
	rowLimit int
}

func New(helper *datehelper.Helper, domain, sub datehelper.TimeUnit, opts ...Option) (*Skeleton, error) {
	if helper == nil {
		helper = datehelper.NewHelper(false)
	}

	if !domain.Valid() {
		return nil, calerr.NewConfigError("domain", "invalid time unit %d", int(domain))
	}

	if !sub.Valid() {
		return nil, calerr.NewConfigError("subDomain", "invalid time unit %d", int(sub))
	}

	if !sub.FinerThan(domain) {
		return nil, calerr.NewConfigError("subDomain", "%s is not finer than domain %s", sub, domain)
	}

	options := optionNew(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	entry, ok := templates[sub]
	if !ok {
		return nil, calerr.NewConfigError("subDomain", "no layout for %s", sub)
	}

	s := &Skeleton{
		helper:   helper,
		domain:   domain,
		sub:      sub,
		entry:    entry,
		colLimit: options.colLimit,
		rowLimit: options.rowLimit,
	}

	if entry.transpose {
		s.colLimit, s.rowLimit = s.rowLimit, s.colLimit
	}

	return s, nil
}

func (s *Skeleton) Helper() *datehelper.Helper {
	return s.helper
}

func (s *Skeleton) DomainUnit() datehelper.TimeUnit {
	return s.domain
}

func (s *Skeleton) SubDomainUnit() datehelper.TimeUnit {
	return s.sub
}

func (s *Skeleton) DomainStart(d time.Time) time.Time {
	return s.helper.ExtractUnit(d, s.domain)
}

func (s *Skeleton) DomainEnd(d time.Time) time.Time {
	return s.helper.Add(d, s.domain, 1)
}

// Mapping lists the subdomain starts in [domainStart, domainEnd).
func (s *Skeleton) Mapping(domainStart, domainEnd time.Time) []time.Time {
	return s.helper.Between(s.sub, domainStart, domainEnd)
}

// DomainMapping is Mapping over the whole domain holding d.
func (s *Skeleton) DomainMapping(d time.Time) []time.Time {
	start := s.DomainStart(d)

	return s.Mapping(start, s.helper.Add(start, s.domain, 1))
}

func (s *Skeleton) Rows(d time.Time) int {
	rows, cols := s.canonicalDims(d)
	if s.entry.transpose {
		return cols
	}

	return rows
}

func (s *Skeleton) Columns(d time.Time) int {
	rows, cols := s.canonicalDims(d)
	if s.entry.transpose {
		return rows
	}

	return cols
}

// Capacity is the number of grid slots of the domain holding d, padding included. It equals the
// length of DomainMapping only for unpadded layouts: day cells of month and year domains start at
// their weekday row, limits round up to full columns or rows, and DST days leave slots empty.
func (s *Skeleton) Capacity(d time.Time) int {
	rows, cols := s.canonicalDims(d)

	return rows * cols
}

// Position returns the column (x) and row (y) of the subdomain holding t.
func (s *Skeleton) Position(t time.Time) (x, y int) {
	start := s.DomainStart(t)
	first := s.helper.Ceil(start, s.sub)
	i := s.helper.Diff(s.sub, first, s.helper.ExtractUnit(t, s.sub))

	rows, _ := s.canonicalDims(t)

	k := i
	if s.colLimit <= 0 && s.rowLimit <= 0 {
		k += s.offset(first)
	}

	x, y = k/rows, k%rows

	if s.entry.transpose {
		x, y = y, x
	}

	return
}

func (s *Skeleton) offset(first time.Time) int {
	if !s.entry.weekdayAligned(s.domain) {
		return 0
	}

	return s.helper.WeekDay(first)
}

func (s *Skeleton) count(d time.Time) (n int, first time.Time) {
	start := s.DomainStart(d)
	end := s.helper.Add(start, s.domain, 1)

	return s.helper.Count(s.sub, start, end), s.helper.Ceil(start, s.sub)
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 1
	}

	return (a + b - 1) / b
}

func (s *Skeleton) canonicalDims(d time.Time) (rows, cols int) {
	n, first := s.count(d)

	switch {
	case s.colLimit > 0:
		cols = s.colLimit
		rows = ceilDiv(n, cols)
	case s.rowLimit > 0:
		rows = s.rowLimit
		cols = ceilDiv(n, rows)
	default:
		rows = s.entry.naturalRows
		cols = ceilDiv(s.offset(first)+n, rows)
	}

	return
}
