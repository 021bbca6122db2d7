package ioc

import (
	"time"

	"gitee.com/flycash/webpush-platform/internal/pkg/idempotent"
	redismetrics "gitee.com/flycash/webpush-platform/internal/pkg/redis/metrics"
	"github.com/gotomicro/ego/core/econf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func InitRedisClient() *redis.Client {
	type Config struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	}
	var cfg Config
	err := econf.UnmarshalKey("redis", &cfg)
	if err != nil {
		panic(err)
	}
	cmd := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return redismetrics.WithMetrics(cmd, prometheus.DefaultRegisterer)
}

// InitIdempotencyService 后台动作去重，默认单机，多实例部署时切到 redis
func InitIdempotencyService() idempotent.IdempotencyService {
	type Config struct {
		Driver     string        `yaml:"driver"`
		Expiration time.Duration `yaml:"expiration"`
	}
	cfg := Config{Driver: "local", Expiration: 24 * time.Hour}
	err := econf.UnmarshalKey("idempotency", &cfg)
	if err != nil {
		panic(err)
	}
	switch cfg.Driver {
	case "redis":
		return idempotent.NewRedisService(InitRedisClient(), cfg.Expiration)
	case "local", "":
		return idempotent.NewLocalService(cfg.Expiration)
	default:
		panic("未知的幂等实现: " + cfg.Driver)
	}
}
