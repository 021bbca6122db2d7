package idempotent

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type RedisIdempotencyService struct {
	client     redis.Cmdable
	expiration time.Duration
}

func NewRedisService(client redis.Cmdable, expiration time.Duration) *RedisIdempotencyService {
	return &RedisIdempotencyService{
		client:     client,
		expiration: expiration,
	}
}

func (s *RedisIdempotencyService) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, 1, s.expiration).Result()
	if err != nil {
		return false, errors.Wrap(err, "幂等检查失败")
	}
	return !ok, nil
}
