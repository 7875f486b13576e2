package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecodeJSON(t *testing.T) {
	values, err := Decode(DataTypeJSON, []byte(`{"1704067200": 3, "1704153600": "4.5"}`))
	assert.Nil(t, err)
	assert.Equal(t, map[int64]float64{1704067200: 3, 1704153600: 4.5}, values)

	_, err = Decode(DataTypeJSON, []byte(`{"soon": 3}`))
	assert.NotNil(t, err)

	_, err = Decode(DataTypeJSON, []byte(`[1,2]`))
	assert.NotNil(t, err)
}

func TestDecodeDelimited(t *testing.T) {
	values, err := Decode(DataTypeCSV, []byte("timestamp,value\n1704067200,3\n1704153600, 7\n"))
	assert.Nil(t, err)
	assert.Equal(t, map[int64]float64{1704067200: 3, 1704153600: 7}, values)

	values, err = Decode(DataTypeTSV, []byte("1704067200\t2\n"))
	assert.Nil(t, err)
	assert.Equal(t, map[int64]float64{1704067200: 2}, values)

	_, err = Decode(DataTypeCSV, []byte("1704067200,3\nlater,4\n"))
	assert.NotNil(t, err)

	_, err = Decode(DataTypeCSV, []byte("1704067200,many\n"))
	assert.NotNil(t, err)
}

func TestDecodeText(t *testing.T) {
	values, err := Decode(DataTypeTXT, []byte("# ts value\n1704067200 1\n\n1704153600 2.5\n"))
	assert.Nil(t, err)
	assert.Equal(t, map[int64]float64{1704067200: 1, 1704153600: 2.5}, values)

	_, err = Decode(DataTypeTXT, []byte("1704067200\n"))
	assert.NotNil(t, err)

	_, err = Decode(DataType("xml"), nil)
	assert.NotNil(t, err)
}

func TestParseDataType(t *testing.T) {
	dt, err := ParseDataType("CSV")
	assert.Nil(t, err)
	assert.Equal(t, DataTypeCSV, dt)

	dt, err = ParseDataType("")
	assert.Nil(t, err)
	assert.Equal(t, DataTypeJSON, dt)

	_, err = ParseDataType("xml")
	assert.NotNil(t, err)
}

func TestExpandURI(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	uri := ExpandURI("/data?from={{t:start}}&to={{t:end}}&d={{d:start}}..{{d:end}}", start, end)
	assert.Equal(t, "/data?from=1704067200&to=1706745600&d=2024-01-01T00:00:00Z..2024-02-01T00:00:00Z", uri)
}

func TestStaticSource(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	src := NewStaticSource(map[int64]float64{start.Unix(): 1, start.Unix() + 86400: 2})
	assert.Nil(t, src.Add(ctx, start, 2))
	assert.Nil(t, src.Set(ctx, start.Add(48*time.Hour), 5))

	values, err := src.Load(ctx, start, start.Add(48*time.Hour))
	assert.Nil(t, err)
	assert.Equal(t, map[int64]float64{start.Unix(): 3, start.Unix() + 86400: 2}, values)
}

func TestCachedSource(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	calls := 0
	src := NewCachedSource(SourceFunc(func(ctx context.Context, start, end time.Time) (map[int64]float64, error) {
		calls++

		return map[int64]float64{start.Unix(): float64(calls)}, nil
	}), time.Minute)

	values, err := src.Load(ctx, start, end)
	assert.Nil(t, err)
	assert.EqualValues(t, 1, values[start.Unix()])

	values[start.Unix()] = 100

	values, err = src.Load(ctx, start, end)
	assert.Nil(t, err)
	assert.EqualValues(t, 1, values[start.Unix()])
	assert.Equal(t, 1, calls)

	_, _ = src.Load(ctx, start, end.Add(time.Hour))
	assert.Equal(t, 2, calls)

	src.Invalidate()

	values, err = src.Load(ctx, start, end)
	assert.Nil(t, err)
	assert.EqualValues(t, 3, values[start.Unix()])
}
