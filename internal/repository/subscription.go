package repository

import (
	"context"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

//go:generate mockgen -source=./subscription.go -destination=./mocks/subscription.mock.go -package=repomocks
type SubscriptionRepository interface {
	Save(ctx context.Context, sub domain.Subscription) error
	Delete(ctx context.Context, endpoint string) error
	// DeleteStale 按 FindAll 拿到的快照删除，快照之后重新登记过的保留
	DeleteStale(ctx context.Context, sub domain.Subscription) error
	FindAll(ctx context.Context) ([]domain.Subscription, error)
	Count(ctx context.Context) (int64, error)
}

type subscriptionRepository struct {
	dao dao.SubscriptionDAO
}

// NewSubscriptionRepository 创建订阅仓库实例
func NewSubscriptionRepository(d dao.SubscriptionDAO) SubscriptionRepository {
	return &subscriptionRepository{
		dao: d,
	}
}

func (r *subscriptionRepository) Save(ctx context.Context, sub domain.Subscription) error {
	return r.dao.Upsert(ctx, r.toEntity(sub))
}

func (r *subscriptionRepository) Delete(ctx context.Context, endpoint string) error {
	return r.dao.Delete(ctx, endpoint)
}

func (r *subscriptionRepository) DeleteStale(ctx context.Context, sub domain.Subscription) error {
	entity := r.toEntity(sub)
	entity.Utime = sub.UpdatedAt.UnixMilli()
	return r.dao.DeleteStale(ctx, entity)
}

func (r *subscriptionRepository) FindAll(ctx context.Context) ([]domain.Subscription, error) {
	subs, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return slice.Map(subs, func(_ int, src dao.Subscription) domain.Subscription {
		return r.toDomain(src)
	}), nil
}

func (r *subscriptionRepository) Count(ctx context.Context) (int64, error) {
	return r.dao.Count(ctx)
}

func (r *subscriptionRepository) toEntity(sub domain.Subscription) dao.Subscription {
	return dao.Subscription{
		Endpoint: sub.Endpoint,
		P256dh:   sub.Keys.P256dh,
		Auth:     sub.Keys.Auth,
		Metadata: sub.Metadata,
	}
}

func (r *subscriptionRepository) toDomain(sub dao.Subscription) domain.Subscription {
	return domain.Subscription{
		Endpoint: sub.Endpoint,
		Keys: domain.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
		Metadata:     sub.Metadata,
		RegisteredAt: time.UnixMilli(sub.Ctime),
		UpdatedAt:    time.UnixMilli(sub.Utime),
	}
}
