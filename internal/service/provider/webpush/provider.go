package webpush

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/errs"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gotomicro/ego/core/elog"
)

const (
	defaultTTL     = 24 * 60 * 60
	defaultTimeout = 10 * time.Second
	// 出错时最多读这么多响应体放进错误信息里
	maxErrBodySize = 512
)

type Config struct {
	// Subscriber 邮箱或者网址，推送服务出问题时用来联系我们
	Subscriber      string        `yaml:"subscriber"`
	VAPIDPublicKey  string        `yaml:"vapidPublicKey"`
	VAPIDPrivateKey string        `yaml:"vapidPrivateKey"`
	TTL             int           `yaml:"ttl"`
	Timeout         time.Duration `yaml:"timeout"`
}

// Provider 基于 VAPID 的 Web Push 实现
type Provider struct {
	cfg    Config
	client *http.Client
	logger *elog.Component
}

// NewProvider 创建 Web Push 推送通道
func NewProvider(cfg Config) *Provider {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: elog.DefaultLogger,
	}
}

func (p *Provider) Send(ctx context.Context, sub domain.Subscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Keys.Auth,
			P256dh: sub.Keys.P256dh,
		},
	}, &webpush.Options{
		HTTPClient:      p.client,
		Subscriber:      p.cfg.Subscriber,
		VAPIDPublicKey:  p.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: p.cfg.VAPIDPrivateKey,
		TTL:             p.cfg.TTL,
		Urgency:         webpush.UrgencyNormal,
	})
	if err != nil {
		// 网络错误、超时、密钥不合法都算临时失败
		return fmt.Errorf("%w: %w", errs.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("%w: status=%d", errs.ErrEndpointGone, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		p.logger.Warn("推送服务返回异常状态码",
			elog.String("endpoint", sub.RedactedEndpoint()),
			elog.Int("status", resp.StatusCode),
			elog.String("body", string(body)))
		return fmt.Errorf("%w: Received unexpected response code %d", errs.ErrDeliveryFailed, resp.StatusCode)
	}
}
