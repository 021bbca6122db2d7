package tracing

import (
	"context"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/service/provider"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Provider 为推送通道添加链路追踪的装饰器
type Provider struct {
	provider provider.Provider
	tracer   trace.Tracer
}

// NewProvider 创建一个新的带有链路追踪的推送通道
func NewProvider(p provider.Provider) *Provider {
	return &Provider{
		provider: p,
		tracer:   otel.Tracer("webpush-platform/provider"),
	}
}

func (p *Provider) Send(ctx context.Context, sub domain.Subscription, payload []byte) error {
	ctx, span := p.tracer.Start(ctx, "Provider.Send",
		trace.WithAttributes(
			attribute.String("subscription.endpoint", sub.RedactedEndpoint()),
			attribute.Int("payload.size", len(payload)),
		))
	defer span.End()

	err := p.provider.Send(ctx, sub, payload)
	span.SetAttributes(attribute.String("delivery.outcome", string(domain.ClassifyDelivery(err))))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
