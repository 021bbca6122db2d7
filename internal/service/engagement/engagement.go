package engagement

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/pkg/ringbuffer"
	"github.com/gotomicro/ego/core/elog"
)

const (
	DefaultMaxEvents    = 1000
	DefaultRecentEvents = 50
	DefaultTopActions   = 5

	dayLayout = "2006-01-02"
	noAction  = "N/A"
)

// Tracker 互动事件的统计，进程内存储
type Tracker interface {
	// Record 记录一次互动，返回当前保留的原始事件数
	Record(ctx context.Context, evt domain.EngagementEvent) (int, error)
	// Summary 当前统计快照
	Summary(ctx context.Context) domain.EngagementSummary
	// TopActions 点击次数最多的按钮，次数相同按首次出现顺序
	TopActions(limit int) []domain.ActionCount
	// RecordDispatch 累加分发结果
	RecordDispatch(sent, failed int)
}

type Config struct {
	MaxEvents    int `yaml:"maxEvents"`
	RecentEvents int `yaml:"recentEvents"`
	TopActions   int `yaml:"topActions"`
}

type tracker struct {
	mu sync.RWMutex

	events  *ringbuffer.RingBuffer[domain.EngagementEvent]
	totals  map[domain.EventKind]int64
	actions map[string]int64
	// 按首次出现的顺序记录按钮
	actionOrder []string
	daily       map[string]*domain.DailyStat

	dispatched int64
	delivered  int64

	cfg    Config
	now    func() time.Time
	logger *elog.Component
}

func NewTracker(cfg Config) Tracker {
	return newTracker(cfg, time.Now)
}

func newTracker(cfg Config, now func() time.Time) *tracker {
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = DefaultMaxEvents
	}
	if cfg.RecentEvents <= 0 {
		cfg.RecentEvents = DefaultRecentEvents
	}
	if cfg.TopActions <= 0 {
		cfg.TopActions = DefaultTopActions
	}
	return &tracker{
		events:  ringbuffer.New[domain.EngagementEvent](cfg.MaxEvents),
		totals:  make(map[domain.EventKind]int64, 3),
		actions: make(map[string]int64),
		daily:   make(map[string]*domain.DailyStat),
		cfg:     cfg,
		now:     now,
		logger:  elog.DefaultLogger,
	}
}

func (t *tracker) Record(_ context.Context, evt domain.EngagementEvent) (int, error) {
	if err := evt.Validate(); err != nil {
		t.logger.Warn("非法的互动事件",
			elog.String("event", evt.Kind.String()),
			elog.String("notificationId", evt.NotificationID),
			elog.FieldErr(err))
		return 0, err
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = t.now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.events.Push(evt)
	t.totals[evt.Kind]++

	day := evt.Timestamp.UTC().Format(dayLayout)
	stat, ok := t.daily[day]
	if !ok {
		stat = &domain.DailyStat{Actions: make(map[string]int64)}
		t.daily[day] = stat
	}
	stat.Events++

	// 任何带按钮的事件都计入按钮统计
	if evt.Action != "" {
		if _, seen := t.actions[evt.Action]; !seen {
			t.actionOrder = append(t.actionOrder, evt.Action)
		}
		t.actions[evt.Action]++
		stat.Actions[evt.Action]++
	}

	t.logger.Debug("记录互动事件",
		elog.String("event", evt.Kind.String()),
		elog.String("action", evt.Action),
		elog.String("notificationId", evt.NotificationID))
	return t.events.Len(), nil
}

func (t *tracker) RecordDispatch(sent, failed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dispatched += int64(sent + failed)
	t.delivered += int64(sent)
}

func (t *tracker) TopActions(limit int) []domain.ActionCount {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.topActions(limit)
}

func (t *tracker) topActions(limit int) []domain.ActionCount {
	res := make([]domain.ActionCount, 0, len(t.actionOrder))
	for _, a := range t.actionOrder {
		res = append(res, domain.ActionCount{Action: a, Count: t.actions[a]})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Count > res[j].Count
	})
	if limit > 0 && limit < len(res) {
		res = res[:limit]
	}
	return res
}

func (t *tracker) Summary(_ context.Context) domain.EngagementSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	clicks := t.totals[domain.EventKindClick]
	views := t.totals[domain.EventKindView]
	res := domain.EngagementSummary{
		TotalClicks:     clicks,
		TotalViews:      views,
		TotalCloses:     t.totals[domain.EventKindClose],
		TotalEvents:     t.events.Len(),
		EngagementRate:  engagementRate(clicks, views),
		ActionClicks:    make(map[string]int64, len(t.actions)),
		DailyStats:      make(map[string]domain.DailyStat, len(t.daily)),
		TopActions:      t.topActions(t.cfg.TopActions),
		RecentEvents:    t.events.Last(t.cfg.RecentEvents),
		TotalDispatched: t.dispatched,
		TotalDelivered:  t.delivered,
	}
	for k, v := range t.actions {
		res.ActionClicks[k] = v
	}
	for day, stat := range t.daily {
		actions := make(map[string]int64, len(stat.Actions))
		for k, v := range stat.Actions {
			actions[k] = v
		}
		res.DailyStats[day] = domain.DailyStat{Events: stat.Events, Actions: actions}
	}

	res.Insights = domain.Insights{
		MostEngaging:         noAction,
		TotalInteractions:    clicks,
		AverageActionsPerDay: perDay(clicks, len(t.daily)),
	}
	if len(res.TopActions) > 0 {
		res.Insights.MostEngaging = res.TopActions[0].Action
	}
	return res
}

// 没有 view 的时候定义为 0
func engagementRate(clicks, views int64) int64 {
	if views == 0 {
		return 0
	}
	return int64(math.Round(float64(clicks) / float64(views) * 100))
}

func perDay(clicks int64, days int) int64 {
	return int64(math.Round(float64(clicks) / float64(max(days, 1))))
}

// FormatRate 百分比展示
func FormatRate(rate int64) string {
	return fmt.Sprintf("%d%%", rate)
}
