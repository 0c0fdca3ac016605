package database

import (
	"github.com/redis/go-redis/v9"
)

// OpenRedis parses a redis:// or rediss:// URL. An empty URL returns a nil client: Redis is optional.
func OpenRedis(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}
