package pushclient

import (
	"encoding/json"
	"fmt"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
)

const (
	DefaultTitle = "Cool PWA"
	DefaultBody  = "You have a new notification"
	DefaultIcon  = "/pwa-192x192.png"
	DefaultBadge = "/favicon.ico"
	DefaultTag   = "default"
	DefaultURL   = "/"

	fallbackTitle = "New Notification"
	fallbackBody  = "You have a new message"
)

var defaultVibrate = []int{200, 100, 200}

func defaultActions() []domain.ActionDescriptor {
	return []domain.ActionDescriptor{
		{Action: "open", Title: "👀 View", Icon: DefaultIcon},
		{Action: "close", Title: "❌ Dismiss"},
	}
}

// ParsePayload 解析推送内容，总是返回一份可以展示的通知
// 内容不是合法 JSON 时返回通用通知，同时返回错误用于记录日志
func ParsePayload(raw []byte, now time.Time) (domain.NotificationPayload, error) {
	var (
		p   domain.NotificationPayload
		err error
	)
	if len(raw) > 0 {
		if err1 := json.Unmarshal(raw, &p); err1 != nil {
			err = fmt.Errorf("解析推送内容失败: %w", err1)
			p = domain.NotificationPayload{
				Title: fallbackTitle,
				Body:  fallbackBody,
				Icon:  DefaultIcon,
			}
		}
	}
	fillDefaults(&p, now)
	return p, err
}

func fillDefaults(p *domain.NotificationPayload, now time.Time) {
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Body == "" {
		p.Body = DefaultBody
	}
	if p.Icon == "" {
		p.Icon = DefaultIcon
	}
	if p.Badge == "" {
		p.Badge = DefaultBadge
	}
	if p.Data == nil {
		p.Data = map[string]any{"url": DefaultURL}
	}
	// 显式给了空数组的保留，不展示按钮
	if p.Actions == nil {
		p.Actions = defaultActions()
	}
	if p.Tag == "" {
		p.Tag = DefaultTag
	}
	if p.Timestamp == 0 {
		p.Timestamp = now.UnixMilli()
	}
	if len(p.Vibrate) == 0 {
		p.Vibrate = append([]int(nil), defaultVibrate...)
	}
	p.Renotify = true
}
