package metrics

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Hook 给 redis 命令加上耗时和状态统计
type Hook struct {
	commands  *prometheus.CounterVec
	duration  *prometheus.SummaryVec
	pipelines *prometheus.CounterVec
	dials     *prometheus.CounterVec
}

// NewHook 指标注册到 reg 上，同一个 reg 只能创建一次
func NewHook(reg prometheus.Registerer) *Hook {
	h := &Hook{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redis_commands_total",
			Help: "Total number of Redis commands executed",
		}, []string{"command", "status"}),
		duration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       "redis_command_duration_seconds",
			Help:       "Redis command execution time in seconds",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"command"}),
		pipelines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redis_pipeline_commands_total",
			Help: "Total number of commands sent in Redis pipelines",
		}, []string{"status"}),
		dials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redis_connections_total",
			Help: "Total number of Redis connections created",
		}, []string{"status"}),
	}
	reg.MustRegister(h.commands, h.duration, h.pipelines, h.dials)
	return h
}

func (h *Hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.duration.WithLabelValues(cmd.Name()).Observe(time.Since(start).Seconds())
		h.commands.WithLabelValues(cmd.Name(), status(err)).Inc()
		return err
	}
}

// ProcessPipelineHook 管道里的命令按条数计
func (h *Hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		st := status(err)
		for _, cmd := range cmds {
			if status(cmd.Err()) == statusError {
				st = statusError
				break
			}
		}
		h.pipelines.WithLabelValues(st).Add(float64(len(cmds)))
		return err
	}
}

func (h *Hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		h.dials.WithLabelValues(status(err)).Inc()
		return conn, err
	}
}

// redis.Nil 不算失败
func status(err error) string {
	if err != nil && !errors.Is(err, redis.Nil) {
		return statusError
	}
	return statusSuccess
}

// WithMetrics 给客户端挂上指标统计
func WithMetrics(client *redis.Client, reg prometheus.Registerer) *redis.Client {
	client.AddHook(NewHook(reg))
	return client
}
