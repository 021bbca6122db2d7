package subscription

import (
	"context"
	"fmt"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/errs"
	"gitee.com/flycash/webpush-platform/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

// Service 订阅登记簿
type Service interface {
	// Register 按 endpoint 幂等登记，重复登记只刷新元数据和密钥
	Register(ctx context.Context, sub domain.Subscription) error
	// Unregister 删除订阅，不存在也不报错
	Unregister(ctx context.Context, endpoint string) error
	// Prune 清理推送服务判定失效的订阅，sub 必须来自 ListAll
	// 快照之后又重新登记过的不会被删
	Prune(ctx context.Context, sub domain.Subscription) error
	// ListAll 订阅快照，不保证顺序
	ListAll(ctx context.Context) ([]domain.Subscription, error)
	Count(ctx context.Context) (int64, error)
}

type service struct {
	repo   repository.SubscriptionRepository
	logger *elog.Component
}

// NewService 创建订阅服务
func NewService(repo repository.SubscriptionRepository) Service {
	return &service{
		repo:   repo,
		logger: elog.DefaultLogger,
	}
}

func (s *service) Register(ctx context.Context, sub domain.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return fmt.Errorf("登记订阅失败: %w", err)
	}
	s.logger.Info("新增订阅",
		elog.String("endpoint", sub.RedactedEndpoint()),
		elog.String("userAgent", sub.Metadata))
	return nil
}

func (s *service) Unregister(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: endpoint 为空", errs.ErrInvalidSubscription)
	}
	if err := s.repo.Delete(ctx, endpoint); err != nil {
		return fmt.Errorf("删除订阅失败: %w", err)
	}
	return nil
}

func (s *service) Prune(ctx context.Context, sub domain.Subscription) error {
	if sub.Endpoint == "" {
		return fmt.Errorf("%w: endpoint 为空", errs.ErrInvalidSubscription)
	}
	if err := s.repo.DeleteStale(ctx, sub); err != nil {
		return fmt.Errorf("清理订阅失败: %w", err)
	}
	return nil
}

func (s *service) ListAll(ctx context.Context) ([]domain.Subscription, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
