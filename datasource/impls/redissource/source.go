package redissource

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libcalheatmap/datasource"
	"github.com/spf13/cast"
)

// NewRedisSource keeps a sorted index of timestamps next to a hash of their values, both under preKey.
func NewRedisSource(preKey string, redisCli *redis.Client, logger l.Wrapper) datasource.Storage {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "redisSource"))

	if redisCli == nil {
		logger.Fatal("no redis client")
	}

	return &redisSourceImpl{
		logger:   logger,
		preKey:   preKey,
		redisCli: redisCli,
	}
}

type redisSourceImpl struct {
	logger   l.Wrapper
	preKey   string
	redisCli *redis.Client
}

func (impl *redisSourceImpl) indexKey() string {
	return impl.preKey + ":calheatmap:idx"
}

func (impl *redisSourceImpl) valuesKey() string {
	return impl.preKey + ":calheatmap:vals"
}

func (impl *redisSourceImpl) Load(ctx context.Context, start, end time.Time) (values map[int64]float64, err error) {
	members, err := impl.redisCli.ZRangeByScore(ctx, impl.indexKey(), &redis.ZRangeBy{
		Min: cast.ToString(start.Unix()),
		Max: "(" + cast.ToString(end.Unix()),
	}).Result()
	if err != nil {
		return
	}

	values = make(map[int64]float64, len(members))

	if len(members) == 0 {
		return
	}

	vs, err := impl.redisCli.HMGet(ctx, impl.valuesKey(), members...).Result()
	if err != nil {
		return
	}

	for idx, member := range members {
		if vs[idx] == nil {
			continue
		}

		v, e := cast.ToFloat64E(vs[idx])
		if e != nil {
			impl.logger.WithFields(l.StringField("ts", member), l.ErrorField(e)).Error("bad stored value")

			continue
		}

		values[cast.ToInt64(member)] = v
	}

	return
}

func (impl *redisSourceImpl) write(ctx context.Context, at time.Time, v float64, mode int) error {
	return writeScript.Run(ctx, impl.redisCli, []string{impl.indexKey(), impl.valuesKey()},
		at.Unix(), v, mode).Err()
}

func (impl *redisSourceImpl) Add(ctx context.Context, at time.Time, v float64) error {
	return impl.write(ctx, at, v, writeModeAdd)
}

func (impl *redisSourceImpl) Set(ctx context.Context, at time.Time, v float64) error {
	return impl.write(ctx, at, v, writeModeSet)
}
