package provider_test

import (
	"context"
	"fmt"
	"testing"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/errs"
	"gitee.com/flycash/webpush-platform/internal/service/provider/console"
	"gitee.com/flycash/webpush-platform/internal/service/provider/metrics"
	providermocks "gitee.com/flycash/webpush-platform/internal/service/provider/mocks"
	"gitee.com/flycash/webpush-platform/internal/service/provider/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

func TestMetricsProvider(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sub := domain.Subscription{Endpoint: "https://push.example.com/1"}
	mockProvider := providermocks.NewMockProvider(ctrl)
	gomock.InOrder(
		mockProvider.EXPECT().Send(gomock.Any(), sub, gomock.Any()).Return(nil),
		mockProvider.EXPECT().Send(gomock.Any(), sub, gomock.Any()).Return(fmt.Errorf("%w: 410", errs.ErrEndpointGone)),
		mockProvider.EXPECT().Send(gomock.Any(), sub, gomock.Any()).Return(errs.ErrDeliveryFailed),
	)

	reg := prometheus.NewRegistry()
	p := metrics.NewProvider("webpush", mockProvider, reg)
	ctx := context.Background()
	assert.NoError(t, p.Send(ctx, sub, nil))
	assert.ErrorIs(t, p.Send(ctx, sub, nil), errs.ErrEndpointGone)
	assert.ErrorIs(t, p.Send(ctx, sub, nil), errs.ErrDeliveryFailed)

	cnt, err := testutil.GatherAndCount(reg, "webpush_send_status_total")
	assert.NoError(t, err)
	// 三种结果各一个时间序列
	assert.Equal(t, 3, cnt)
}

func TestTracingProvider(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	old := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(old)
	})

	p := tracing.NewProvider(console.NewProvider())
	err := p.Send(context.Background(), domain.Subscription{Endpoint: "https://push.example.com/1"}, []byte("{}"))
	assert.NoError(t, err)

	spans := exporter.GetSpans()
	if assert.Len(t, spans, 1) {
		assert.Equal(t, "Provider.Send", spans[0].Name)
	}
}
