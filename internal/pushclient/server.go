package pushclient

import (
	"context"
	"fmt"
	"time"

	"gitee.com/flycash/webpush-platform/internal/errs"
	"github.com/go-resty/resty/v2"
)

// ActionRequest 后台动作回调的请求体
type ActionRequest struct {
	NotificationID string `json:"notificationId"`
	Action         string `json:"action"`
	Timestamp      int64  `json:"timestamp"`
	DeviceID       string `json:"deviceId,omitempty"`
	UserAgent      string `json:"userAgent,omitempty"`
}

// EventRequest 互动事件上报的请求体
type EventRequest struct {
	Event          string         `json:"event"`
	Action         string         `json:"action,omitempty"`
	NotificationID string         `json:"notificationId,omitempty"`
	Timestamp      int64          `json:"timestamp"`
	UserAgent      string         `json:"userAgent,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// ServerAPI 设备侧访问服务端
// 网络不通的时候返回的错误 errors.Is(err, errs.ErrOffline)
//
//go:generate mockgen -source=./server.go -destination=./mocks/server.mock.go -package=pushclientmocks ServerAPI
type ServerAPI interface {
	PostAction(ctx context.Context, kind string, req ActionRequest) error
	TrackEvent(ctx context.Context, req EventRequest) error
}

type restyServerAPI struct {
	client *resty.Client
}

func NewServerAPI(baseURL string, timeout time.Duration) ServerAPI {
	return NewServerAPIWithClient(resty.New().SetBaseURL(baseURL).SetTimeout(timeout))
}

func NewServerAPIWithClient(client *resty.Client) ServerAPI {
	return &restyServerAPI{client: client}
}

func (s *restyServerAPI) PostAction(ctx context.Context, kind string, req ActionRequest) error {
	return s.post(ctx, "/api/notifications/"+kind, req)
}

func (s *restyServerAPI) TrackEvent(ctx context.Context, req EventRequest) error {
	return s.post(ctx, "/api/notifications/analytics", req)
}

func (s *restyServerAPI) post(ctx context.Context, path string, body any) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		// 连接不上、超时都按离线处理
		return fmt.Errorf("%w: %w", errs.ErrOffline, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("请求 %s 失败, status=%d", path, resp.StatusCode())
	}
	return nil
}
