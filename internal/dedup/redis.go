package dedup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "shopgate:webhook:event:"

// Redis is a Suppressor whose record set survives process restarts. SETNX
// with the retention window as TTL gives the atomic check-and-insert; Redis
// handles expiry, so there is no sweep.
type Redis struct {
	cli    *redis.Client
	window time.Duration
}

func NewRedis(cli *redis.Client, window time.Duration) *Redis {
	return &Redis{cli: cli, window: window}
}

func (r *Redis) CheckAndRecord(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, nil
	}
	inserted, err := r.cli.SetNX(ctx, redisKeyPrefix+eventID, 1, r.window).Result()
	if err != nil {
		return false, err
	}
	return !inserted, nil
}
