package datasource

import (
	"context"
	"time"
)

// Source returns values keyed by unix seconds for timestamps in [start, end).
type Source interface {
	Load(ctx context.Context, start, end time.Time) (map[int64]float64, error)
}

type SourceFunc func(ctx context.Context, start, end time.Time) (map[int64]float64, error)

func (f SourceFunc) Load(ctx context.Context, start, end time.Time) (map[int64]float64, error) {
	return f(ctx, start, end)
}

// Writer is implemented by sources that also store values.
type Writer interface {
	// Add accumulates v on the value stored at at.
	Add(ctx context.Context, at time.Time, v float64) error
	// Set replaces the value stored at at.
	Set(ctx context.Context, at time.Time, v float64) error
}

type Storage interface {
	Source
	Writer
}

func InRange(ts int64, start, end time.Time) bool {
	return ts >= start.Unix() && ts < end.Unix()
}
