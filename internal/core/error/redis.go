package errx

import (
	"github.com/redis/go-redis/v9"
)

// WrapRedisRead maps a Redis read failure onto the lookup kind.
// redis.Nil is not an error at this layer; callers handle absence themselves.
func WrapRedisRead(err error) error {
	if err == nil || err == redis.Nil {
		return nil
	}
	return Lookup(err)
}

// WrapRedisWrite maps a Redis write failure onto the persistence kind.
func WrapRedisWrite(err error) error {
	if err == nil {
		return nil
	}
	return Persistence(err)
}
