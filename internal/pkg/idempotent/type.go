package idempotent

import "context"

// IdempotencyService 检查并标记 key，第一次出现返回 false，之后返回 true
type IdempotencyService interface {
	Exists(ctx context.Context, key string) (bool, error)
}
