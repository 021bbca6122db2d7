package domain

import (
	"fmt"
	"time"

	"gitee.com/flycash/webpush-platform/internal/errs"
)

// BackgroundActionKind 不打开窗口、直接回调服务端的动作
type BackgroundActionKind string

const (
	BackgroundActionArchive BackgroundActionKind = "archive"
	BackgroundActionLike    BackgroundActionKind = "like"
)

func (k BackgroundActionKind) IsValid() bool {
	return k == BackgroundActionArchive || k == BackgroundActionLike
}

func (k BackgroundActionKind) String() string {
	return string(k)
}

// BackgroundAction 设备回调的一次动作，离线重放时可能重复到达
type BackgroundAction struct {
	Kind           BackgroundActionKind
	NotificationID string
	DeviceID       string
	Timestamp      time.Time
	Metadata       string
}

func (a BackgroundAction) Validate() error {
	if !a.Kind.IsValid() {
		return fmt.Errorf("%w: 未知的动作 %q", errs.ErrInvalidParameter, a.Kind)
	}
	if a.NotificationID == "" {
		return fmt.Errorf("%w: id 为空", errs.ErrInvalidParameter)
	}
	return nil
}

// IdempotencyKey 同一设备对同一通知的同一动作只算一次
func (a BackgroundAction) IdempotencyKey() string {
	return fmt.Sprintf("bg_action:%s:%s:%s", a.Kind, a.NotificationID, a.DeviceID)
}

// BackgroundActionResult 处理结果
type BackgroundActionResult struct {
	Kind           BackgroundActionKind
	NotificationID string
	TotalLikes     int64
	Duplicate      bool
	Timestamp      time.Time
}

// OfflineActionRecord 设备离线时暂存的动作，重放成功后删除
type OfflineActionRecord struct {
	ID             string
	Action         string
	NotificationID string
	Payload        []byte
	CreatedAt      time.Time
}

// LikeStat 单条通知的点赞统计
type LikeStat struct {
	NotificationID string
	Likes          int64
	LastLiked      time.Time
}
