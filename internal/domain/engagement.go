package domain

import (
	"fmt"
	"time"

	"gitee.com/flycash/webpush-platform/internal/errs"
)

// EventKind 互动事件类型
type EventKind string

const (
	EventKindClick EventKind = "click"
	EventKindView  EventKind = "view"
	EventKindClose EventKind = "close"
)

func (k EventKind) IsValid() bool {
	switch k {
	case EventKindClick, EventKindView, EventKindClose:
		return true
	default:
		return false
	}
}

func (k EventKind) String() string {
	return string(k)
}

// EngagementEvent 设备上报的互动事件，只追加不修改
type EngagementEvent struct {
	Kind           EventKind
	Action         string
	NotificationID string
	Timestamp      time.Time
	UserAgent      string
	Data           map[string]any
}

func (e EngagementEvent) Validate() error {
	if e.Kind == "" {
		return fmt.Errorf("%w: event 为空", errs.ErrInvalidEvent)
	}
	if !e.Kind.IsValid() {
		return fmt.Errorf("%w: 未知的 event %q", errs.ErrInvalidEvent, e.Kind)
	}
	return nil
}

// ActionCount 按钮点击计数
type ActionCount struct {
	Action string
	Count  int64
}

// DailyStat 单日统计
type DailyStat struct {
	Events  int64
	Actions map[string]int64
}

type Insights struct {
	MostEngaging         string
	TotalInteractions    int64
	AverageActionsPerDay int64
}

// EngagementSummary 互动统计快照
type EngagementSummary struct {
	TotalClicks     int64
	TotalViews      int64
	TotalCloses     int64
	TotalEvents     int
	EngagementRate  int64 // 百分比
	ActionClicks    map[string]int64
	DailyStats      map[string]DailyStat
	TopActions      []ActionCount
	RecentEvents    []EngagementEvent
	Insights        Insights
	TotalDispatched int64
	TotalDelivered  int64
}
