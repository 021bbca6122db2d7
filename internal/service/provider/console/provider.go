package console

import (
	"context"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"github.com/gotomicro/ego/core/elog"
)

// Provider 只打日志，本地开发没有 VAPID 密钥的时候用
type Provider struct {
	logger *elog.Component
}

func NewProvider() *Provider {
	return &Provider{
		logger: elog.DefaultLogger,
	}
}

func (p *Provider) Send(_ context.Context, sub domain.Subscription, payload []byte) error {
	p.logger.Info("发送通知",
		elog.String("endpoint", sub.RedactedEndpoint()),
		elog.String("payload", string(payload)))
	return nil
}
