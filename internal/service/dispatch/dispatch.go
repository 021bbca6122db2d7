package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/errs"
	"gitee.com/flycash/webpush-platform/internal/event/dispatched"
	"gitee.com/flycash/webpush-platform/internal/service/provider"
	"gitee.com/flycash/webpush-platform/internal/service/subscription"
	"github.com/ecodeclub/ekit/slice"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 16
	DefaultSendTimeout = 10 * time.Second

	ReasonRemovedInvalid = "Removed invalid subscription"
	eventTimeout         = 3 * time.Second
)

type Config struct {
	Concurrency int           `yaml:"concurrency"`
	SendTimeout time.Duration `yaml:"sendTimeout"`
}

// Service 把一份通知扇出到所有订阅
type Service interface {
	// Dispatch 每个端点都会尝试一次，互不影响；失效端点在本次调用内删除
	Dispatch(ctx context.Context, payload domain.NotificationPayload) (domain.DispatchResult, error)
	// UpdateConcurrency 调整扇出并发度，只影响之后的分发
	UpdateConcurrency(n int)
}

type service struct {
	subSvc      subscription.Service
	provider    provider.Provider
	producer    dispatched.EventProducer
	concurrency atomic.Int64
	sendTimeout time.Duration
	logger      *elog.Component
}

// NewService 创建分发引擎，producer 可以为 nil
func NewService(
	subSvc subscription.Service,
	p provider.Provider,
	producer dispatched.EventProducer,
	cfg Config,
) Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	s := &service{
		subSvc:      subSvc,
		provider:    p,
		producer:    producer,
		sendTimeout: cfg.SendTimeout,
		logger:      elog.DefaultLogger,
	}
	s.concurrency.Store(int64(cfg.Concurrency))
	return s
}

func (s *service) UpdateConcurrency(n int) {
	if n <= 0 {
		s.logger.Warn("忽略非法的并发度", elog.Int("concurrency", n))
		return
	}
	s.concurrency.Store(int64(n))
	s.logger.Info("更新分发并发度", elog.Int("concurrency", n))
}

func (s *service) Dispatch(ctx context.Context, payload domain.NotificationPayload) (domain.DispatchResult, error) {
	// 一旦开始就要把所有端点都试一遍，调用方取消也不停
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	subs, err := s.subSvc.ListAll(ctx)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("查询订阅失败: %w", err)
	}
	if len(subs) == 0 {
		return domain.DispatchResult{}, errs.ErrNoSubscribers
	}

	// 只序列化一次，所有端点收到的内容完全一样
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("%w: %w", errs.ErrPayloadEncode, err)
	}

	results := make([]domain.DeliveryResult, len(subs))
	var eg errgroup.Group
	eg.SetLimit(int(s.concurrency.Load()))
	for i := range subs {
		eg.Go(func() error {
			results[i] = s.deliver(ctx, subs[i], body)
			return nil
		})
	}
	// deliver 不返回错误
	_ = eg.Wait()

	res := domain.DispatchResult{
		NotificationID: payload.NotificationID(),
		Template:       payload.DataString("template"),
		Results:        results,
		Payload:        payload,
		Actions:        payload.Actions,
		FailedReasons:  make([]string, 0),
		StartedAt:      start,
		Duration:       time.Since(start),
	}
	for _, r := range results {
		if !r.Failed() {
			res.Sent++
			continue
		}
		res.Failed++
		res.FailedReasons = append(res.FailedReasons, r.Reason)
		if r.Outcome == domain.DeliveryOutcomePermanentFailure {
			res.Pruned++
		}
	}

	s.logger.Info("分发通知完成",
		elog.String("notificationId", res.NotificationID),
		elog.String("title", payload.Title),
		elog.String("template", res.Template),
		elog.Any("actions", slice.Map(payload.Actions, func(_ int, src domain.ActionDescriptor) string {
			return src.Title
		})),
		elog.Int("sent", res.Sent),
		elog.Int("failed", res.Failed),
		elog.Int("pruned", res.Pruned))

	s.produceEvent(ctx, res)
	return res, nil
}

func (s *service) deliver(ctx context.Context, sub domain.Subscription, body []byte) domain.DeliveryResult {
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	// 推送通道不一定尊重 ctx，这里自己兜住超时
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.provider.Send(sendCtx, sub, body)
	}()
	var err error
	select {
	case err = <-errCh:
	case <-sendCtx.Done():
		err = fmt.Errorf("%w: 推送超时 %w", errs.ErrDeliveryFailed, sendCtx.Err())
	}

	res := domain.DeliveryResult{
		Endpoint: sub.Endpoint,
		Outcome:  domain.ClassifyDelivery(err),
	}
	switch res.Outcome {
	case domain.DeliveryOutcomeDelivered:
	case domain.DeliveryOutcomePermanentFailure:
		res.Reason = ReasonRemovedInvalid
		if err1 := s.subSvc.Prune(ctx, sub); err1 != nil {
			s.logger.Error("删除失效订阅失败",
				elog.String("endpoint", sub.RedactedEndpoint()),
				elog.FieldErr(err1))
		}
	default:
		res.Reason = "Error: " + err.Error()
		s.logger.Warn("推送失败",
			elog.String("endpoint", sub.RedactedEndpoint()),
			elog.FieldErr(err))
	}
	return res
}

func (s *service) produceEvent(ctx context.Context, res domain.DispatchResult) {
	if s.producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()
	err := s.producer.Produce(ctx, dispatched.DispatchedEvent{
		NotificationID: res.NotificationID,
		Template:       res.Template,
		Sent:           res.Sent,
		Failed:         res.Failed,
		Pruned:         res.Pruned,
		Timestamp:      res.StartedAt.UnixMilli(),
	})
	if err != nil {
		s.logger.Warn("发送分发事件失败", elog.FieldErr(err))
	}
}
