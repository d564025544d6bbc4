package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens a redis client and pings it.
func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	ctx, cancel := withConnectTimeout(ctx)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		PoolSize: 10,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("database: redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
