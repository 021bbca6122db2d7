// Package metrics 为推送通道添加指标收集的装饰器
package metrics

import (
	"context"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/service/provider"
	"github.com/prometheus/client_golang/prometheus"
)

// Provider 为推送通道添加指标收集的装饰器
type Provider struct {
	provider            provider.Provider
	sendDurationSummary *prometheus.SummaryVec
	sendCounter         *prometheus.CounterVec
	sendStatusCounter   *prometheus.CounterVec
	name                string
}

// NewProvider 创建一个新的带有指标收集的推送通道，指标注册到 reg 上
func NewProvider(name string, p provider.Provider, reg prometheus.Registerer) *Provider {
	sendDurationSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "webpush_send_duration_seconds",
			Help:       "推送单个端点耗时统计（秒）",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.95: 0.005, 0.99: 0.001},
			MaxAge:     time.Minute * 5,
		},
		[]string{"provider", "status"},
	)

	sendCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webpush_send_total",
			Help: "推送端点总数",
		},
		[]string{"provider"},
	)

	sendStatusCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webpush_send_status_total",
			Help: "推送结果统计",
		},
		[]string{"provider", "status"},
	)

	// 注册指标
	reg.MustRegister(sendDurationSummary, sendCounter, sendStatusCounter)

	return &Provider{
		provider:            p,
		sendDurationSummary: sendDurationSummary,
		sendCounter:         sendCounter,
		sendStatusCounter:   sendStatusCounter,
		name:                name,
	}
}

// Send 发送通知并记录指标
func (p *Provider) Send(ctx context.Context, sub domain.Subscription, payload []byte) error {
	startTime := time.Now()
	p.sendCounter.WithLabelValues(p.name).Inc()

	err := p.provider.Send(ctx, sub, payload)

	duration := time.Since(startTime).Seconds()
	status := string(domain.ClassifyDelivery(err))
	p.sendStatusCounter.WithLabelValues(p.name, status).Inc()
	p.sendDurationSummary.WithLabelValues(p.name, status).Observe(duration)
	return err
}
