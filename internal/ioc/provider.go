package ioc

import (
	"gitee.com/flycash/webpush-platform/internal/service/provider"
	"gitee.com/flycash/webpush-platform/internal/service/provider/console"
	"gitee.com/flycash/webpush-platform/internal/service/provider/metrics"
	"gitee.com/flycash/webpush-platform/internal/service/provider/tracing"
	"gitee.com/flycash/webpush-platform/internal/service/provider/webpush"
	"github.com/gotomicro/ego/core/econf"
	"github.com/prometheus/client_golang/prometheus"
)

type pushConfig struct {
	// Driver webpush 或者 console，console 只打日志
	Driver  string         `yaml:"driver"`
	WebPush webpush.Config `yaml:"webpush"`
}

func loadPushConfig() pushConfig {
	cfg := pushConfig{Driver: "webpush"}
	err := econf.UnmarshalKey("push", &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

// InitProvider 推送通道外面依次包上指标和链路追踪
func InitProvider() provider.Provider {
	cfg := loadPushConfig()
	var p provider.Provider
	switch cfg.Driver {
	case "webpush":
		if cfg.WebPush.VAPIDPublicKey == "" || cfg.WebPush.VAPIDPrivateKey == "" {
			panic("push.webpush 缺少 VAPID 密钥")
		}
		p = webpush.NewProvider(cfg.WebPush)
	case "console":
		p = console.NewProvider()
	default:
		panic("未知的推送通道: " + cfg.Driver)
	}
	return tracing.NewProvider(metrics.NewProvider(cfg.Driver, p, prometheus.DefaultRegisterer))
}

// VAPIDPublicKey 下发给设备用来订阅
type VAPIDPublicKey string

func InitVAPIDPublicKey() VAPIDPublicKey {
	return VAPIDPublicKey(loadPushConfig().WebPush.VAPIDPublicKey)
}
