package composer

import (
	"fmt"
	"strconv"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/errs"
	"gitee.com/flycash/webpush-platform/internal/service/template"
)

const (
	DefaultIcon  = "/pwa-192x192.png"
	DefaultBadge = "/favicon.ico"
	DefaultURL   = "/"
)

var defaultVibrate = []int{200, 100, 200}

// IDGenerator *sonyflake.Sonyflake 就满足这个接口
type IDGenerator interface {
	NextID() (uint64, error)
}

// Composer 把调用方的意图变成一份标准的通知内容
type Composer interface {
	Compose(req domain.DispatchRequest) (domain.NotificationPayload, error)
}

type composer struct {
	resolver template.Resolver
	idGen    IDGenerator
	now      func() time.Time
}

// NewComposer 创建通知组装器
func NewComposer(resolver template.Resolver, idGen IDGenerator) Composer {
	return &composer{
		resolver: resolver,
		idGen:    idGen,
		now:      time.Now,
	}
}

func (c *composer) Compose(req domain.DispatchRequest) (domain.NotificationPayload, error) {
	if err := req.Validate(); err != nil {
		return domain.NotificationPayload{}, err
	}
	now := c.now()
	id, err := c.notificationID(now)
	if err != nil {
		return domain.NotificationPayload{}, err
	}

	templateName := req.Template
	if templateName == "" {
		templateName = template.DefaultTemplate
	}

	// 显式指定的按钮优先，其次是模板，都没有就用 default
	var actions []domain.ActionDescriptor
	if len(req.Actions) > 0 {
		actions = make([]domain.ActionDescriptor, len(req.Actions))
		copy(actions, req.Actions)
	} else {
		actions = c.resolver.Resolve(req.Template)
	}
	if len(actions) > domain.MaxActions {
		actions = actions[:domain.MaxActions]
	}

	data := make(map[string]any, len(req.Data)+4)
	for k, v := range req.Data {
		data[k] = v
	}
	data["id"] = id
	if u, ok := data["url"].(string); !ok || u == "" {
		data["url"] = DefaultURL
	}
	data["template"] = templateName
	data["timestamp"] = now.UnixMilli()

	payload := domain.NotificationPayload{
		Title:              req.Title,
		Body:               req.Body,
		Icon:               orDefault(req.Icon, DefaultIcon),
		Badge:              orDefault(req.Badge, DefaultBadge),
		Image:              req.Image,
		Actions:            actions,
		Data:               data,
		Tag:                orDefault(req.Tag, id),
		RequireInteraction: req.RequireInteraction,
		Silent:             req.Silent,
		Renotify:           true,
		Timestamp:          now.UnixMilli(),
	}
	if len(req.Vibrate) > 0 {
		payload.Vibrate = append([]int(nil), req.Vibrate...)
	} else {
		payload.Vibrate = append([]int(nil), defaultVibrate...)
	}
	return payload, nil
}

// notificationID 形如 notif_<毫秒时间戳>_<sonyflake 的 36 进制>
func (c *composer) notificationID(now time.Time) (string, error) {
	seq, err := c.idGen.NextID()
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrNotificationIDGenerateFailed, err)
	}
	const base = 36
	return fmt.Sprintf("notif_%d_%s", now.UnixMilli(), strconv.FormatUint(seq, base)), nil
}

func orDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}
