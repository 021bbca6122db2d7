package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gitee.com/flycash/webpush-platform/internal/errs"
)

// MaxActions 浏览器最多展示三个按钮，多出来的截断
const MaxActions = 3

// ActionDescriptor 通知上的一个按钮
type ActionDescriptor struct {
	Action string `json:"action" yaml:"action"`
	Title  string `json:"title" yaml:"title"`
	Icon   string `json:"icon,omitempty" yaml:"icon"`
}

// NotificationPayload 发给设备的通知内容，字段名就是线上格式
// 一次分发只构造一次，所有端点共享
type NotificationPayload struct {
	Title              string             `json:"title"`
	Body               string             `json:"body"`
	Icon               string             `json:"icon,omitempty"`
	Badge              string             `json:"badge,omitempty"`
	Image              string             `json:"image,omitempty"`
	Actions            []ActionDescriptor `json:"actions"`
	Data               map[string]any     `json:"data"`
	Tag                string             `json:"tag,omitempty"`
	RequireInteraction bool               `json:"requireInteraction"`
	Vibrate            []int              `json:"vibrate,omitempty"`
	Silent             bool               `json:"silent"`
	Renotify           bool               `json:"renotify"`
	Timestamp          int64              `json:"timestamp"`
}

// NotificationID 从 data 里取服务端生成的通知 ID
func (p NotificationPayload) NotificationID() string {
	return p.DataString("id")
}

// DataString 取 data 里的字符串字段，不存在或者类型不对返回空串
func (p NotificationPayload) DataString(key string) string {
	if p.Data == nil {
		return ""
	}
	v, ok := p.Data[key].(string)
	if !ok {
		return ""
	}
	return v
}

// DataBool 取 data 里的布尔字段
func (p NotificationPayload) DataBool(key string) bool {
	if p.Data == nil {
		return false
	}
	v, ok := p.Data[key].(bool)
	return ok && v
}

// DispatchRequest 调用方的发送意图
type DispatchRequest struct {
	Title              string
	Body               string
	Template           string
	Actions            []ActionDescriptor
	Icon               string
	Badge              string
	Image              string
	Tag                string
	RequireInteraction bool
	Vibrate            []int
	Silent             bool
	Data               map[string]any
}

func (r DispatchRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title 为空", errs.ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Body) == "" {
		return fmt.Errorf("%w: body 为空", errs.ErrInvalidRequest)
	}
	return nil
}

// DeliveryOutcome 单个端点的投递结果
type DeliveryOutcome string

const (
	DeliveryOutcomeDelivered        DeliveryOutcome = "DELIVERED"
	DeliveryOutcomeTransientFailure DeliveryOutcome = "TRANSIENT_FAILURE"
	DeliveryOutcomePermanentFailure DeliveryOutcome = "PERMANENT_FAILURE"
)

// ClassifyDelivery 根据推送通道返回的错误归类
func ClassifyDelivery(err error) DeliveryOutcome {
	switch {
	case err == nil:
		return DeliveryOutcomeDelivered
	case errors.Is(err, errs.ErrEndpointGone):
		return DeliveryOutcomePermanentFailure
	default:
		return DeliveryOutcomeTransientFailure
	}
}

type DeliveryResult struct {
	Endpoint string
	Outcome  DeliveryOutcome
	Reason   string
}

func (r DeliveryResult) Failed() bool {
	return r.Outcome != DeliveryOutcomeDelivered
}

// DispatchResult 一次分发的汇总
type DispatchResult struct {
	NotificationID string
	Template       string
	Sent           int
	Failed         int
	Pruned         int // 因为端点失效被删除的订阅数
	FailedReasons  []string
	Results        []DeliveryResult
	Payload        NotificationPayload
	Actions        []ActionDescriptor
	StartedAt      time.Time
	Duration       time.Duration
}
