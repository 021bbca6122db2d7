package notification

import (
	"context"
	"fmt"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/service/composer"
	"gitee.com/flycash/webpush-platform/internal/service/dispatch"
	"gitee.com/flycash/webpush-platform/internal/service/template"
	"github.com/gotomicro/ego/core/elog"
)

// SendService 对外的发送入口，组装之后交给分发引擎
//
//go:generate mockgen -source=./send_notification.go -destination=./mocks/send_notification.mock.go -package=notificationmocks SendService
type SendService interface {
	// Send 按调用方给的内容发送
	Send(ctx context.Context, req domain.DispatchRequest) (domain.DispatchResult, error)
	// SendTest 用模板自带的示例内容发送，模板不存在时用 social 的示例
	SendTest(ctx context.Context, templateName string) (domain.DispatchResult, error)
}

type sendService struct {
	composer   composer.Composer
	resolver   template.Resolver
	dispatcher dispatch.Service
	logger     *elog.Component
}

func NewSendService(c composer.Composer, resolver template.Resolver, dispatcher dispatch.Service) SendService {
	return &sendService{
		composer:   c,
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     elog.DefaultLogger,
	}
}

func (s *sendService) Send(ctx context.Context, req domain.DispatchRequest) (domain.DispatchResult, error) {
	// 校验在组装里做，不合法的请求不会碰到订阅
	payload, err := s.composer.Compose(req)
	if err != nil {
		return domain.DispatchResult{}, err
	}
	res, err := s.dispatcher.Dispatch(ctx, payload)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("分发通知失败: %w", err)
	}
	return res, nil
}

func (s *sendService) SendTest(ctx context.Context, templateName string) (domain.DispatchResult, error) {
	if templateName == "" {
		templateName = template.DefaultSampleTemplate
	}
	req := s.resolver.Sample(templateName)
	s.logger.Info("发送测试通知",
		elog.String("template", templateName),
		elog.String("sample", req.Template))
	return s.Send(ctx, req)
}
