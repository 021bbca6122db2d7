package pushclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/errs"
	"github.com/gofrs/uuid"
	"github.com/gotomicro/ego/core/elog"
	"github.com/hashicorp/go-multierror"
)

// State 一条通知在设备上的状态
type State uint8

const (
	StateReceived State = iota + 1
	StatePresented
	StateActionTriggered
	StateDismissed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StatePresented:
		return "presented"
	case StateActionTriggered:
		return "action_triggered"
	case StateDismissed:
		return "dismissed"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

func (s State) IsTerminal() bool {
	return s == StateActionTriggered || s == StateDismissed || s == StateTimedOut
}

var (
	ErrUnknownNotification = errors.New("通知不存在")
	ErrInvalidTransition   = errors.New("非法的状态流转")
)

// Presenter 负责把通知展示出来
//
//go:generate mockgen -source=./controller.go -destination=./mocks/controller.mock.go -package=pushclientmocks Presenter,WindowManager
type Presenter interface {
	Show(ctx context.Context, p domain.NotificationPayload) error
}

// Window 一个已经打开的页面
type Window struct {
	ID  string
	URL string
}

// WindowManager 设备上的窗口
type WindowManager interface {
	Windows(ctx context.Context) ([]Window, error)
	Focus(ctx context.Context, w Window) error
	Open(ctx context.Context, url string) error
}

type Config struct {
	// Origin 拼上 data.url 之后用来匹配已经打开的页面
	Origin string
	// DeviceID 为空时随机生成一个，服务端按它给后台动作去重
	DeviceID  string
	UserAgent string
}

type instance struct {
	payload domain.NotificationPayload
	state   State
}

// Controller 设备侧的通知控制器，按 tag 跟踪每条通知
type Controller struct {
	presenter Presenter
	windows   WindowManager
	server    ServerAPI
	queue     Queue
	cfg       Config

	mu        sync.Mutex
	instances map[string]*instance

	now    func() time.Time
	logger *elog.Component
}

func NewController(presenter Presenter, windows WindowManager, server ServerAPI, queue Queue, cfg Config) *Controller {
	if cfg.DeviceID == "" {
		cfg.DeviceID = uuid.Must(uuid.NewV4()).String()
	}
	return &Controller{
		presenter: presenter,
		windows:   windows,
		server:    server,
		queue:     queue,
		cfg:       cfg,
		instances: make(map[string]*instance),
		now:       time.Now,
		logger:    elog.DefaultLogger,
	}
}

// OnPush 收到推送，内容非法时展示通用通知
func (c *Controller) OnPush(ctx context.Context, raw []byte) (string, error) {
	p, err := ParsePayload(raw, c.now())
	if err != nil {
		c.logger.Warn("推送内容非法，展示通用通知", elog.FieldErr(err))
	}

	c.mu.Lock()
	// 同一个 tag 的新通知替换旧的
	c.instances[p.Tag] = &instance{payload: p, state: StateReceived}
	c.mu.Unlock()

	if err = c.presenter.Show(ctx, p); err != nil {
		return p.Tag, fmt.Errorf("展示通知失败: %w", err)
	}
	if _, err = c.transit(p.Tag, StatePresented); err != nil {
		return p.Tag, err
	}
	c.track(ctx, domain.EventKindView, "", p)
	return p.Tag, nil
}

// OnAction 用户点击了按钮，action 为空表示点击通知本身
func (c *Controller) OnAction(ctx context.Context, tag, action string) error {
	res := Resolve(action, domain.NotificationPayload{})
	next := StateActionTriggered
	if res.Behavior == BehaviorNoop {
		next = StateDismissed
	}
	p, err := c.transit(tag, next)
	if err != nil {
		return err
	}
	res = Resolve(action, p)

	c.logger.Debug("通知按钮被点击",
		elog.String("tag", tag),
		elog.String("action", action),
		elog.String("behavior", res.Behavior.String()))

	switch res.Behavior {
	case BehaviorNoop:
		return nil
	case BehaviorBackgroundCall:
		c.track(ctx, domain.EventKindClick, action, p)
		return c.background(ctx, res.Kind, p)
	default:
		c.track(ctx, domain.EventKindClick, action, p)
		return c.focusOrOpen(ctx, res.URL)
	}
}

// OnClose 用户关掉了通知
func (c *Controller) OnClose(ctx context.Context, tag string) error {
	p, err := c.transit(tag, StateDismissed)
	if err != nil {
		return err
	}
	if p.DataBool("trackClose") {
		c.track(ctx, domain.EventKindClose, "", p)
	}
	return nil
}

// OnTimeout 通知超时没有被处理
func (c *Controller) OnTimeout(tag string) error {
	_, err := c.transit(tag, StateTimedOut)
	return err
}

// State 查询通知当前状态
func (c *Controller) State(tag string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst, ok := c.instances[tag]
	if !ok {
		return 0, false
	}
	return inst.state, true
}

// Sync 网络恢复之后重放离线动作，成功的才删除，失败的留给下一次
func (c *Controller) Sync(ctx context.Context) error {
	records, err := c.queue.List(ctx)
	if err != nil {
		return fmt.Errorf("读取离线动作失败: %w", err)
	}
	var result *multierror.Error
	for _, rec := range records {
		var req ActionRequest
		if err1 := json.Unmarshal(rec.Payload, &req); err1 != nil {
			// 坏数据重放也不会成功
			c.logger.Error("离线动作内容非法，丢弃",
				elog.String("id", rec.ID),
				elog.FieldErr(err1))
			result = multierror.Append(result, c.queue.Remove(ctx, rec.ID))
			continue
		}
		if err1 := c.server.PostAction(ctx, rec.Action, req); err1 != nil {
			result = multierror.Append(result, fmt.Errorf("重放离线动作 %s 失败: %w", rec.ID, err1))
			continue
		}
		if err1 := c.queue.Remove(ctx, rec.ID); err1 != nil {
			result = multierror.Append(result, err1)
			continue
		}
		c.logger.Info("离线动作重放成功",
			elog.String("id", rec.ID),
			elog.String("action", rec.Action),
			elog.String("notificationId", rec.NotificationID))
	}
	return result.ErrorOrNil()
}

func (c *Controller) transit(tag string, next State) (domain.NotificationPayload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst, ok := c.instances[tag]
	if !ok {
		return domain.NotificationPayload{}, fmt.Errorf("%w: tag=%s", ErrUnknownNotification, tag)
	}
	allowed := false
	switch next {
	case StatePresented:
		allowed = inst.state == StateReceived
	case StateActionTriggered, StateDismissed, StateTimedOut:
		allowed = inst.state == StatePresented
	}
	if !allowed {
		return domain.NotificationPayload{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inst.state, next)
	}
	inst.state = next
	return inst.payload, nil
}

func (c *Controller) background(ctx context.Context, kind domain.BackgroundActionKind, p domain.NotificationPayload) error {
	req := ActionRequest{
		NotificationID: p.NotificationID(),
		Action:         kind.String(),
		Timestamp:      c.now().UnixMilli(),
		DeviceID:       c.cfg.DeviceID,
		UserAgent:      c.cfg.UserAgent,
	}
	err := c.server.PostAction(ctx, kind.String(), req)
	switch {
	case err == nil:
		return c.confirm(ctx, kind)
	case errors.Is(err, errs.ErrOffline):
		return c.enqueue(ctx, kind, req)
	default:
		c.logger.Error("后台动作失败",
			elog.String("action", kind.String()),
			elog.String("notificationId", req.NotificationID),
			elog.FieldErr(err))
		return nil
	}
}

// enqueue 离线的时候先存起来，对用户来说动作已经成功
func (c *Controller) enqueue(ctx context.Context, kind domain.BackgroundActionKind, req ActionRequest) error {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("生成离线动作 ID 失败: %w", err)
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("序列化离线动作失败: %w", err)
	}
	rec := domain.OfflineActionRecord{
		ID:             id.String(),
		Action:         kind.String(),
		NotificationID: req.NotificationID,
		Payload:        payload,
		CreatedAt:      c.now(),
	}
	if err = c.queue.Enqueue(ctx, rec); err != nil {
		return fmt.Errorf("保存离线动作失败: %w", err)
	}
	c.logger.Info("离线，动作已入队",
		elog.String("id", rec.ID),
		elog.String("action", rec.Action),
		elog.String("notificationId", rec.NotificationID))
	return nil
}

func (c *Controller) confirm(ctx context.Context, kind domain.BackgroundActionKind) error {
	var p domain.NotificationPayload
	switch kind {
	case domain.BackgroundActionArchive:
		p = domain.NotificationPayload{
			Title:  "Archived",
			Body:   "Message has been archived",
			Tag:    "archive-confirmation",
			Icon:   DefaultBadge,
			Silent: true,
		}
	case domain.BackgroundActionLike:
		p = domain.NotificationPayload{
			Title:  "Liked! ❤️",
			Body:   "Thanks for your feedback",
			Tag:    "like-confirmation",
			Icon:   DefaultIcon,
			Silent: true,
		}
	default:
		return nil
	}
	p.Actions = []domain.ActionDescriptor{}
	p.Timestamp = c.now().UnixMilli()
	if err := c.presenter.Show(ctx, p); err != nil {
		c.logger.Warn("展示确认通知失败", elog.FieldErr(err))
	}
	return nil
}

func (c *Controller) focusOrOpen(ctx context.Context, url string) error {
	windows, err := c.windows.Windows(ctx)
	if err != nil {
		return fmt.Errorf("获取窗口失败: %w", err)
	}
	target := c.cfg.Origin + url
	for _, w := range windows {
		if w.URL == target {
			return c.windows.Focus(ctx, w)
		}
	}
	return c.windows.Open(ctx, url)
}

// track 上报互动事件，失败只记日志
func (c *Controller) track(ctx context.Context, kind domain.EventKind, action string, p domain.NotificationPayload) {
	err := c.server.TrackEvent(ctx, EventRequest{
		Event:          kind.String(),
		Action:         action,
		NotificationID: p.NotificationID(),
		Timestamp:      c.now().UnixMilli(),
		UserAgent:      c.cfg.UserAgent,
		Data:           p.Data,
	})
	if err != nil {
		c.logger.Warn("上报互动事件失败",
			elog.String("event", kind.String()),
			elog.String("notificationId", p.NotificationID()),
			elog.FieldErr(err))
	}
}
