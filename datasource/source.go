package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type staticSourceImpl struct {
	lock   sync.RWMutex
	values map[int64]float64
}

// NewStaticSource serves and stores values in memory.
func NewStaticSource(values map[int64]float64) Storage {
	impl := &staticSourceImpl{
		values: make(map[int64]float64, len(values)),
	}

	for ts, v := range values {
		impl.values[ts] = v
	}

	return impl
}

func (impl *staticSourceImpl) Load(_ context.Context, start, end time.Time) (map[int64]float64, error) {
	impl.lock.RLock()
	defer impl.lock.RUnlock()

	values := make(map[int64]float64)

	for ts, v := range impl.values {
		if InRange(ts, start, end) {
			values[ts] = v
		}
	}

	return values, nil
}

func (impl *staticSourceImpl) Add(_ context.Context, at time.Time, v float64) error {
	impl.lock.Lock()
	impl.values[at.Unix()] += v
	impl.lock.Unlock()

	return nil
}

func (impl *staticSourceImpl) Set(_ context.Context, at time.Time, v float64) error {
	impl.lock.Lock()
	impl.values[at.Unix()] = v
	impl.lock.Unlock()

	return nil
}

// CachedSource remembers the answer of src per requested range for ttl.
type CachedSource struct {
	src    Source
	cached *cache.Cache
}

func NewCachedSource(src Source, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &CachedSource{
		src:    src,
		cached: cache.New(ttl, ttl*2),
	}
}

func (impl *CachedSource) genCachedKey(start, end time.Time) string {
	return fmt.Sprintf("%d:%d", start.Unix(), end.Unix())
}

func (impl *CachedSource) Load(ctx context.Context, start, end time.Time) (map[int64]float64, error) {
	key := impl.genCachedKey(start, end)

	if i, ok := impl.cached.Get(key); ok {
		if values, ok := i.(map[int64]float64); ok {
			return copyValues(values), nil
		}
	}

	values, err := impl.src.Load(ctx, start, end)
	if err != nil {
		return nil, err
	}

	impl.cached.Set(key, copyValues(values), cache.DefaultExpiration)

	return values, nil
}

// Invalidate drops every cached range.
func (impl *CachedSource) Invalidate() {
	impl.cached.Flush()
}

func copyValues(values map[int64]float64) map[int64]float64 {
	m := make(map[int64]float64, len(values))
	for k, v := range values {
		m[k] = v
	}

	return m
}
