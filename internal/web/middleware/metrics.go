package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsBuilder struct {
	apiDurationHistogram *prometheus.HistogramVec
}

// NewMetricsBuilder reg 为 nil 时注册到默认的 Registerer
func NewMetricsBuilder(reg prometheus.Registerer) *MetricsBuilder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &MetricsBuilder{
		apiDurationHistogram: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_server_handling_seconds",
				Help:    "Histogram of response latency (seconds) of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (b *MetricsBuilder) Build() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		startTime := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			// 没有匹配到路由，避免标签基数失控
			route = "unknown"
		}
		b.apiDurationHistogram.WithLabelValues(
			ctx.Request.Method,
			route,
			strconv.Itoa(ctx.Writer.Status()),
		).Observe(time.Since(startTime).Seconds())
	}
}
