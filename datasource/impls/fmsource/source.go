package fmsource

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libcalheatmap/datasource"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
)

func NewFMSource(root string, storage stg.FileStorage) datasource.Storage {
	return NewFMSourceEx(root, storage, "values.json")
}

// NewFMSourceEx keeps values in memory and mirrors every change to root/fileName.
func NewFMSourceEx(root string, storage stg.FileStorage, fileName string) datasource.Storage {
	if storage == nil {
		storage = rawfs.NewFSStorage("")
	}

	return &fmSourceImpl{
		storage: mwf.NewMemWithFile[map[int64]float64, mwf.Serial, mwf.Lock](
			make(map[int64]float64), &mwf.JSONSerial{}, &sync.RWMutex{}, filepath.Join(root, fileName), storage),
	}
}

type fmSourceImpl struct {
	storage *mwf.MemWithFile[map[int64]float64, mwf.Serial, mwf.Lock]
}

func (impl *fmSourceImpl) Load(ctx context.Context, start, end time.Time) (values map[int64]float64, err error) {
	if err = ctx.Err(); err != nil {
		return
	}

	values = make(map[int64]float64)

	impl.storage.Read(func(m map[int64]float64) {
		for ts, v := range m {
			if datasource.InRange(ts, start, end) {
				values[ts] = v
			}
		}
	})

	return
}

func (impl *fmSourceImpl) change(at time.Time, fn func(old float64) float64) error {
	return impl.storage.Change(func(oldM map[int64]float64) (map[int64]float64, error) {
		newM := oldM
		if newM == nil {
			newM = make(map[int64]float64)
		}

		newM[at.Unix()] = fn(newM[at.Unix()])

		return newM, nil
	})
}

func (impl *fmSourceImpl) Add(ctx context.Context, at time.Time, v float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return impl.change(at, func(old float64) float64 {
		return old + v
	})
}

func (impl *fmSourceImpl) Set(ctx context.Context, at time.Time, v float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return impl.change(at, func(float64) float64 {
		return v
	})
}
