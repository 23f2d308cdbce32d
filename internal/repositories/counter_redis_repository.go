package repositories

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCounterRepository issues sequence values with INCR, which creates the
// key at 1 on first use. Keys are "seq:<name>".
type RedisCounterRepository struct {
	client *redis.Client
}

// NewRedisCounterRepository creates a new instance of RedisCounterRepository.
func NewRedisCounterRepository(client *redis.Client) *RedisCounterRepository {
	return &RedisCounterRepository{client: client}
}

func (r *RedisCounterRepository) Next(ctx context.Context, name string) (int64, error) {
	value, err := r.client.Incr(ctx, "seq:"+name).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", name, err)
	}
	return value, nil
}
