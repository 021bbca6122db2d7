package provider

import (
	"context"

	"gitee.com/flycash/webpush-platform/internal/domain"
)

// Provider 推送通道，负责把已经序列化好的通知发给一个端点
//
// 返回的错误需要能用 errors.Is 区分：
//   - errs.ErrEndpointGone 端点已经失效，需要删除订阅
//   - errs.ErrDeliveryFailed 其余失败，包括超时
//
//go:generate mockgen -source=./types.go -destination=./mocks/provider.mock.go -package=providermocks Provider
type Provider interface {
	Send(ctx context.Context, sub domain.Subscription, payload []byte) error
}
