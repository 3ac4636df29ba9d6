// Package cache connects to the Redis instance that holds unlock sessions.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quotebook/quotebook/internal/shared"
)

// PingTimeout bounds the startup connectivity check.
const PingTimeout = 5 * time.Second

// New connects to Redis at addr and pings it. An unreachable server is reported as
// shared.ErrStorageUnavailable and the client is closed.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis %s: %w", shared.ErrStorageUnavailable, addr, err)
	}
	return client, nil
}
