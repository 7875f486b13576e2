package redissource

import "github.com/go-redis/redis/v8"

const (
	writeModeSet = 0
	writeModeAdd = 1
)

var writeScript = redis.NewScript(`
	local indexKey = KEYS[1]
	local valuesKey = KEYS[2]

	local ts = ARGV[1]
	local val = ARGV[2]
	local mode = tonumber(ARGV[3])

	redis.call("ZADD", indexKey, tonumber(ts), ts)

	if mode == 1 then
		return redis.call("HINCRBYFLOAT", valuesKey, ts, val)
	end

	redis.call("HSET", valuesKey, ts, val)

	return val
`)
