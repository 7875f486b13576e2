package skeleton

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sgostarter/libcalheatmap/calerr"
	"github.com/sgostarter/libcalheatmap/datehelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	allUnits = []datehelper.TimeUnit{
		datehelper.Minute, datehelper.Hour, datehelper.Day,
		datehelper.Week, datehelper.Month, datehelper.Year,
	}

	// pairs whose grid has no padding
	densePairs = map[[2]datehelper.TimeUnit]bool{
		{datehelper.Hour, datehelper.Minute}:  true,
		{datehelper.Day, datehelper.Minute}:   true,
		{datehelper.Week, datehelper.Minute}:  true,
		{datehelper.Month, datehelper.Minute}: true,
		{datehelper.Year, datehelper.Minute}:  true,
		{datehelper.Day, datehelper.Hour}:     true,
		{datehelper.Week, datehelper.Hour}:    true,
		{datehelper.Month, datehelper.Hour}:   true,
		{datehelper.Year, datehelper.Hour}:    true,
		{datehelper.Week, datehelper.Day}:     true,
		{datehelper.Month, datehelper.Week}:   true,
		{datehelper.Year, datehelper.Week}:    true,
		{datehelper.Year, datehelper.Month}:   true,
	}
)

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFebruaryScenario(t *testing.T) {
	s, err := New(datehelper.NewHelper(true), datehelper.Month, datehelper.Day)
	require.Nil(t, err)

	start := utc(2024, 2, 1)
	ds := s.Mapping(start, s.DomainEnd(start))
	require.Len(t, ds, 29)
	assert.Equal(t, utc(2024, 2, 1), ds[0])
	assert.Equal(t, utc(2024, 2, 29), ds[28])

	assert.Equal(t, 7, s.Rows(start))
	assert.Equal(t, 5, s.Columns(start))

	// Thursday is the fourth row of a Monday-start week
	x, y := s.Position(ds[0])
	assert.Equal(t, 0, x)
	assert.Equal(t, 3, y)

	x, y = s.Position(ds[28])
	assert.Equal(t, 4, x)
	assert.Equal(t, 3, y)
}

func TestTransposedDayInMonth(t *testing.T) {
	h := datehelper.NewHelper(true)

	s, err := New(h, datehelper.Month, datehelper.Day)
	require.Nil(t, err)

	xs, err := New(h, datehelper.Month, datehelper.XDay)
	require.Nil(t, err)

	start := utc(2024, 2, 1)
	assert.Equal(t, s.Rows(start), xs.Columns(start))
	assert.Equal(t, s.Columns(start), xs.Rows(start))

	for _, d := range s.DomainMapping(start) {
		x, y := s.Position(d)
		tx, ty := xs.Position(d)
		assert.Equal(t, x, ty)
		assert.Equal(t, y, tx)
	}
}

func TestDefaultDimensions(t *testing.T) {
	h := datehelper.NewHelper(true)

	cases := []struct {
		domain, sub datehelper.TimeUnit
		at          time.Time
		rows, cols  int
	}{
		{datehelper.Hour, datehelper.Minute, utc(2024, 1, 1), 10, 6},
		{datehelper.Day, datehelper.Hour, utc(2024, 1, 1), 6, 4},
		{datehelper.Week, datehelper.Hour, utc(2024, 1, 1), 6, 28},
		{datehelper.Month, datehelper.Hour, utc(2024, 2, 1), 6, 116},
		{datehelper.Week, datehelper.Day, utc(2024, 1, 3), 7, 1},
		{datehelper.Year, datehelper.Day, utc(2024, 1, 1), 7, 53},
		{datehelper.Year, datehelper.Day, utc(2023, 1, 1), 7, 53},
		{datehelper.Year, datehelper.Week, utc(2024, 1, 1), 1, 53},
		{datehelper.Year, datehelper.Month, utc(2024, 1, 1), 1, 12},
		{datehelper.Month, datehelper.Week, utc(2024, 2, 1), 1, 4},
		{datehelper.Year, datehelper.XMonth, utc(2024, 1, 1), 12, 1},
	}

	for _, c := range cases {
		s, err := New(h, c.domain, c.sub)
		require.Nil(t, err)
		assert.Equal(t, c.rows, s.Rows(c.at), "%s/%s", c.domain, c.sub)
		assert.Equal(t, c.cols, s.Columns(c.at), "%s/%s", c.domain, c.sub)
	}
}

func TestLimits(t *testing.T) {
	h := datehelper.NewHelper(false)
	start := utc(2024, 2, 1)

	s, err := New(h, datehelper.Month, datehelper.Day, ColLimitOption(5))
	require.Nil(t, err)
	assert.Equal(t, 5, s.Columns(start))
	assert.Equal(t, 6, s.Rows(start))

	x, y := s.Position(utc(2024, 2, 29))
	assert.Equal(t, 4, x)
	assert.Equal(t, 4, y)

	s, err = New(h, datehelper.Month, datehelper.Day, RowLimitOption(3))
	require.Nil(t, err)
	assert.Equal(t, 3, s.Rows(start))
	assert.Equal(t, 10, s.Columns(start))

	// limits keep their meaning for vertical layouts
	s, err = New(h, datehelper.Month, datehelper.XDay, ColLimitOption(7))
	require.Nil(t, err)
	assert.Equal(t, 7, s.Columns(start))
	assert.Equal(t, 5, s.Rows(start))
}

func TestValidation(t *testing.T) {
	h := datehelper.NewHelper(true)

	_, err := New(h, datehelper.Day, datehelper.Month)
	assert.True(t, errors.Is(err, calerr.ErrConfiguration))

	_, err = New(h, datehelper.Day, datehelper.Day)
	assert.True(t, errors.Is(err, calerr.ErrConfiguration))

	_, err = New(h, datehelper.Day, datehelper.XDay)
	assert.True(t, errors.Is(err, calerr.ErrConfiguration))

	_, err = New(h, datehelper.Month, datehelper.Day, ColLimitOption(3), RowLimitOption(4))
	assert.True(t, errors.Is(err, calerr.ErrConfiguration))

	_, err = New(h, datehelper.Month, datehelper.Day, RowLimitOption(-1))
	assert.True(t, errors.Is(err, calerr.ErrConfiguration))

	_, err = New(h, datehelper.TimeUnit(42), datehelper.Day)
	assert.True(t, errors.Is(err, calerr.ErrConfiguration))
}

func checkDomain(t *testing.T, s *Skeleton, d time.Time, dense bool) {
	start := s.DomainStart(d)
	ds := s.Mapping(start, s.DomainEnd(start))
	rows, cols := s.Rows(start), s.Columns(start)

	require.NotEmpty(t, ds)
	assert.LessOrEqual(t, len(ds), rows*cols)

	if dense {
		assert.Equal(t, rows*cols, len(ds), "%s/%s at %v", s.DomainUnit(), s.SubDomainUnit(), start)
	}

	seen := make(map[string]time.Time, len(ds))

	for i, c := range ds {
		if i > 0 {
			assert.True(t, c.After(ds[i-1]))
		}

		x, y := s.Position(c)
		assert.True(t, x >= 0 && x < cols, "%s/%s %v x=%d cols=%d", s.DomainUnit(), s.SubDomainUnit(), c, x, cols)
		assert.True(t, y >= 0 && y < rows, "%s/%s %v y=%d rows=%d", s.DomainUnit(), s.SubDomainUnit(), c, y, rows)

		key := fmt.Sprintf("%d:%d", x, y)
		_, dup := seen[key]
		assert.False(t, dup, "%s/%s %v collides at %s", s.DomainUnit(), s.SubDomainUnit(), c, key)
		seen[key] = c
	}
}

func TestEveryPairCoversGrid(t *testing.T) {
	anchors := []time.Time{utc(2024, 2, 14), utc(2023, 2, 1), utc(2021, 1, 1), utc(2020, 12, 31), utc(2026, 10, 17)}

	for _, monday := range []bool{true, false} {
		h := datehelper.NewHelper(monday)

		for _, domain := range allUnits {
			for _, sub := range allUnits {
				if !sub.FinerThan(domain) {
					continue
				}

				if sub == datehelper.Minute && domain == datehelper.Year {
					continue
				}

				for _, variant := range []datehelper.TimeUnit{sub, sub.Transpose()} {
					optsSet := [][]Option{nil, {ColLimitOption(5)}, {RowLimitOption(3)}}

					for _, opts := range optsSet {
						s, err := New(h, domain, variant, opts...)
						require.Nil(t, err)

						for _, a := range anchors {
							checkDomain(t, s, a, opts == nil && densePairs[[2]datehelper.TimeUnit{domain, sub}])
						}
					}
				}
			}
		}
	}
}

func TestCapacityVsMapping(t *testing.T) {
	h := datehelper.NewHelper(true)
	feb := utc(2024, 2, 1)

	s, err := New(h, datehelper.Month, datehelper.Day)
	require.Nil(t, err)
	assert.Equal(t, 35, s.Capacity(feb))
	assert.Len(t, s.DomainMapping(feb), 29)

	s, err = New(h, datehelper.Month, datehelper.Day, ColLimitOption(4))
	require.Nil(t, err)
	assert.Equal(t, 32, s.Capacity(feb))

	s, err = New(h, datehelper.Day, datehelper.Hour)
	require.Nil(t, err)
	assert.Equal(t, len(s.DomainMapping(feb)), s.Capacity(feb))
}
