package domain

import (
	"fmt"
	"time"

	"gitee.com/flycash/webpush-platform/internal/errs"
)

const redactedEndpointLen = 50

// Keys 浏览器生成的加密参数
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscription 一个设备上的推送通道，Endpoint 是天然主键
type Subscription struct {
	Endpoint     string
	Keys         Keys
	Metadata     string // 客户端信息，一般是 UserAgent
	RegisteredAt time.Time
	UpdatedAt    time.Time
}

func (s Subscription) Validate() error {
	if s.Endpoint == "" {
		return fmt.Errorf("%w: endpoint 为空", errs.ErrInvalidSubscription)
	}
	return nil
}

// RedactedEndpoint 对外展示时只暴露前 50 个字符
func (s Subscription) RedactedEndpoint() string {
	if len(s.Endpoint) <= redactedEndpointLen {
		return s.Endpoint
	}
	return s.Endpoint[:redactedEndpointLen] + "..."
}
