package domains

import (
	"testing"
	"time"

	"github.com/sgostarter/libcalheatmap/datehelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillModes(t *testing.T) {
	sk := newSkeleton(t, datehelper.Month, datehelper.Day)
	c := New(sk).CreateInitial(utc(2024, 2, 1), 2, nil)

	feb3 := time.Date(2024, 2, 3, 15, 4, 5, 0, time.UTC).Unix()
	mar1 := utc(2024, 3, 1).Unix()

	n := c.Fill(map[int64]float64{feb3: 2, mar1: 5}, ResetSingle)
	assert.Equal(t, 2, n)

	feb, _ := c.Get(utc(2024, 2, 1))
	assert.True(t, feb[2].HasValue())
	assert.EqualValues(t, 2, feb[2].Value())
	assert.False(t, feb[3].HasValue())

	n = c.Fill(map[int64]float64{feb3: 3}, Append)
	assert.Equal(t, 1, n)
	assert.EqualValues(t, 5, feb[2].Value())

	n = c.Fill(map[int64]float64{feb3: 1}, ResetSingle)
	assert.Equal(t, 1, n)
	assert.EqualValues(t, 1, feb[2].Value())

	mar, _ := c.Get(utc(2024, 3, 1))
	assert.EqualValues(t, 5, mar[0].Value())

	n = c.Fill(map[int64]float64{utc(2024, 2, 10).Unix(): 7}, ResetAll)
	assert.Equal(t, 1, n)
	assert.False(t, feb[2].HasValue())
	assert.False(t, mar[0].HasValue())
	assert.EqualValues(t, 7, feb[9].Value())
}

func TestFillIgnoresEvictedDomains(t *testing.T) {
	sk := newSkeleton(t, datehelper.Month, datehelper.Day)
	c := New(sk).CreateInitial(utc(2024, 1, 1), 2, nil)

	jan, _ := c.Get(utc(2024, 1, 1))

	_, evicted, err := c.Merge(NewCandidates(sk, []time.Time{utc(2024, 3, 1)}), 2, nil)
	require.Nil(t, err)
	require.Equal(t, []time.Time{utc(2024, 1, 1)}, evicted)

	n := c.Fill(map[int64]float64{utc(2024, 1, 5).Unix(): 9}, ResetSingle)
	assert.Equal(t, 0, n)
	assert.False(t, jan[4].HasValue())

	n = c.FillRange(map[int64]float64{utc(2024, 1, 5).Unix(): 9}, Append, utc(2024, 1, 1), utc(2024, 2, 1), true)
	assert.Equal(t, 0, n)
	assert.False(t, jan[4].HasValue())
}

func TestFillRangeMissingAsZero(t *testing.T) {
	sk := newSkeleton(t, datehelper.Day, datehelper.Hour)
	c := New(sk).CreateInitial(utc(2024, 1, 1), 3, nil)

	values := map[int64]float64{
		time.Date(2024, 1, 2, 5, 30, 0, 0, time.UTC).Unix(): 4,
		time.Date(2024, 1, 3, 5, 30, 0, 0, time.UTC).Unix(): 8,
	}

	n := c.FillRange(values, ResetSingle, utc(2024, 1, 2), utc(2024, 1, 3), true)
	assert.Equal(t, 1, n)

	d2, _ := c.Get(utc(2024, 1, 2))
	d3, _ := c.Get(utc(2024, 1, 3))

	assert.EqualValues(t, 4, d2[5].Value())

	for _, cell := range d2 {
		assert.True(t, cell.HasValue())
	}

	for _, cell := range d3 {
		assert.False(t, cell.HasValue())
	}
}
