package sqlitesource

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.db")

	src, err := Open(path, nil)
	require.Nil(t, err)

	ctx := context.Background()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, src.Add(ctx, day, 1))
	assert.Nil(t, src.Add(ctx, day, 2))
	assert.Nil(t, src.Set(ctx, day.Add(time.Hour), 5))
	assert.Nil(t, src.Set(ctx, day.Add(time.Hour), 6))
	assert.Nil(t, src.Set(ctx, day.AddDate(0, 0, 1), 9))

	values, err := src.Load(ctx, day, day.AddDate(0, 0, 1))
	assert.Nil(t, err)
	assert.Equal(t, map[int64]float64{day.Unix(): 3, day.Add(time.Hour).Unix(): 6}, values)
	assert.Nil(t, src.Close())

	src, err = Open(path, nil)
	require.Nil(t, err)

	defer func() {
		_ = src.Close()
	}()

	values, err = src.Load(ctx, day, day.AddDate(0, 0, 2))
	assert.Nil(t, err)
	assert.Len(t, values, 3)

	_, err = Open(" ", nil)
	assert.NotNil(t, err)
}
