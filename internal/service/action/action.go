package action

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/pkg/idempotent"
	"github.com/gotomicro/ego/core/elog"
)

// Service 处理设备回调的后台动作（归档、点赞）
// 离线重放可能重复到达，同一设备对同一通知的同一动作只生效一次
type Service interface {
	Record(ctx context.Context, act domain.BackgroundAction) (domain.BackgroundActionResult, error)
	Archived(ctx context.Context) []string
	Likes(ctx context.Context) []domain.LikeStat
}

type service struct {
	idempotentSvc idempotent.IdempotencyService

	mu            sync.RWMutex
	archived      map[string]struct{}
	archivedOrder []string
	likes         map[string]*domain.LikeStat
	likeOrder     []string

	now    func() time.Time
	logger *elog.Component
}

func NewService(idempotentSvc idempotent.IdempotencyService) Service {
	return &service{
		idempotentSvc: idempotentSvc,
		archived:      make(map[string]struct{}),
		likes:         make(map[string]*domain.LikeStat),
		now:           time.Now,
		logger:        elog.DefaultLogger,
	}
}

func (s *service) Record(ctx context.Context, act domain.BackgroundAction) (domain.BackgroundActionResult, error) {
	if err := act.Validate(); err != nil {
		return domain.BackgroundActionResult{}, err
	}
	if act.Timestamp.IsZero() {
		act.Timestamp = s.now()
	}

	duplicate, err := s.isDuplicate(ctx, act)
	if err != nil {
		return domain.BackgroundActionResult{}, err
	}

	res := domain.BackgroundActionResult{
		Kind:           act.Kind,
		NotificationID: act.NotificationID,
		Duplicate:      duplicate,
		Timestamp:      act.Timestamp,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch act.Kind {
	case domain.BackgroundActionArchive:
		if !duplicate {
			s.archive(act.NotificationID)
		}
	case domain.BackgroundActionLike:
		if !duplicate {
			s.like(act.NotificationID, act.Timestamp)
		}
		if stat, ok := s.likes[act.NotificationID]; ok {
			res.TotalLikes = stat.Likes
		}
	}

	s.logger.Info("后台动作",
		elog.String("action", act.Kind.String()),
		elog.String("notificationId", act.NotificationID),
		elog.String("deviceId", act.DeviceID),
		elog.Any("duplicate", duplicate))
	return res, nil
}

// isDuplicate 没带设备 id 的请求无法区分设备，每次都生效
func (s *service) isDuplicate(ctx context.Context, act domain.BackgroundAction) (bool, error) {
	if act.DeviceID == "" {
		return false, nil
	}
	duplicate, err := s.idempotentSvc.Exists(ctx, act.IdempotencyKey())
	if err != nil {
		return false, fmt.Errorf("检查动作是否重复失败: %w", err)
	}
	return duplicate, nil
}

func (s *service) archive(id string) {
	if _, ok := s.archived[id]; ok {
		return
	}
	s.archived[id] = struct{}{}
	s.archivedOrder = append(s.archivedOrder, id)
}

func (s *service) like(id string, ts time.Time) {
	stat, ok := s.likes[id]
	if !ok {
		stat = &domain.LikeStat{NotificationID: id}
		s.likes[id] = stat
		s.likeOrder = append(s.likeOrder, id)
	}
	stat.Likes++
	if ts.After(stat.LastLiked) {
		stat.LastLiked = ts
	}
}

func (s *service) Archived(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]string, len(s.archivedOrder))
	copy(res, s.archivedOrder)
	return res
}

func (s *service) Likes(_ context.Context) []domain.LikeStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.LikeStat, 0, len(s.likeOrder))
	for _, id := range s.likeOrder {
		res = append(res, *s.likes[id])
	}
	return res
}
