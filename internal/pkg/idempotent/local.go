package idempotent

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// LocalIdempotencyService 单机版本，进程重启之后丢失
type LocalIdempotencyService struct {
	cache *cache.Cache
}

func NewLocalService(expiration time.Duration) *LocalIdempotencyService {
	return &LocalIdempotencyService{
		cache: cache.New(expiration, 2*expiration),
	}
}

func (s *LocalIdempotencyService) Exists(_ context.Context, key string) (bool, error) {
	// Add 在 key 已经存在的时候返回 error
	err := s.cache.Add(key, struct{}{}, cache.DefaultExpiration)
	return err != nil, nil
}
