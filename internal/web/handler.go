package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/errs"
	"gitee.com/flycash/webpush-platform/internal/service/action"
	"gitee.com/flycash/webpush-platform/internal/service/engagement"
	"gitee.com/flycash/webpush-platform/internal/service/notification"
	"gitee.com/flycash/webpush-platform/internal/service/subscription"
	"gitee.com/flycash/webpush-platform/internal/service/template"
	"github.com/ecodeclub/ekit/slice"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

const (
	msgInvalidJSON         = "Invalid JSON in request body"
	msgInternalError       = "Internal server error"
	msgInvalidSubscription = "Invalid subscription data"
	hintNoSubscribers      = "Make sure users have enabled notifications first"
)

type Handler struct {
	subSvc         subscription.Service
	sendSvc        notification.SendService
	tracker        engagement.Tracker
	actionSvc      action.Service
	resolver       template.Resolver
	vapidPublicKey string
	logger         *elog.Component
}

func NewHandler(
	subSvc subscription.Service,
	sendSvc notification.SendService,
	tracker engagement.Tracker,
	actionSvc action.Service,
	resolver template.Resolver,
	vapidPublicKey string,
) *Handler {
	return &Handler{
		subSvc:         subSvc,
		sendSvc:        sendSvc,
		tracker:        tracker,
		actionSvc:      actionSvc,
		resolver:       resolver,
		vapidPublicKey: vapidPublicKey,
		logger:         elog.DefaultLogger,
	}
}

// PublicRoutes 设备侧调用的接口，不需要鉴权
func (h *Handler) PublicRoutes(server *gin.Engine) {
	api := server.Group("/api")
	api.POST("/subscribe", h.Subscribe)
	api.GET("/subscribe", h.ListSubscriptions)
	api.DELETE("/subscribe", h.Unsubscribe)
	api.GET("/vapid-public-key", h.VAPIDPublicKey)

	ng := api.Group("/notifications")
	ng.POST("/analytics", h.RecordEngagement)
	ng.GET("/analytics", h.Analytics)
	ng.POST("/archive", h.BackgroundAction(domain.BackgroundActionArchive))
	ng.GET("/archive", h.Archived)
	ng.POST("/like", h.BackgroundAction(domain.BackgroundActionLike))
	ng.GET("/like", h.Likes)
}

// PrivateRoutes 发送通知的接口，配置了鉴权就走鉴权
func (h *Handler) PrivateRoutes(server *gin.Engine, mws ...gin.HandlerFunc) {
	g := server.Group("/api/send-notification", mws...)
	g.POST("", h.SendNotification)
	g.GET("", h.SendTestNotification)
}

func (h *Handler) Subscribe(ctx *gin.Context) {
	var req SubscribeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResp{Error: msgInvalidJSON})
		return
	}
	if req.Subscription == nil || req.Subscription.Endpoint == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResp{Error: msgInvalidSubscription})
		return
	}
	err := h.subSvc.Register(ctx.Request.Context(), domain.Subscription{
		Endpoint: req.Subscription.Endpoint,
		Keys: domain.Keys{
			P256dh: req.Subscription.Keys.P256dh,
			Auth:   req.Subscription.Keys.Auth,
		},
		Metadata: req.UserAgent,
	})
	if err != nil {
		h.handleError(ctx, err)
		return
	}
	total, err := h.subSvc.Count(ctx.Request.Context())
	if err != nil {
		h.handleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, SubscribeResp{
		Success:            true,
		Message:            "Subscription saved successfully",
		TotalSubscriptions: total,
	})
}

func (h *Handler) ListSubscriptions(ctx *gin.Context) {
	subs, err := h.subSvc.ListAll(ctx.Request.Context())
	if err != nil {
		h.handleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ListSubscriptionsResp{
		TotalSubscriptions: int64(len(subs)),
		Subscriptions: slice.Map(subs, func(_ int, src domain.Subscription) SubscriptionInfo {
			return SubscriptionInfo{
				Endpoint:   src.RedactedEndpoint(),
				UserAgent:  src.Metadata,
				Subscribed: src.RegisteredAt.UTC().Format(time.RFC3339Nano),
			}
		}),
	})
}

func (h *Handler) Unsubscribe(ctx *gin.Context) {
	var req UnsubscribeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResp{Error: msgInvalidJSON})
		return
	}
	if err := h.subSvc.Unregister(ctx.Request.Context(), req.Endpoint); err != nil {
		h.handleError(ctx, err)
		return
	}
	total, err := h.subSvc.Count(ctx.Request.Context())
	if err != nil {
		h.handleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, SubscribeResp{Success: true, TotalSubscriptions: total})
}

func (h *Handler) VAPIDPublicKey(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, VAPIDPublicKeyResp{PublicKey: h.vapidPublicKey})
}

func (h *Handler) SendNotification(ctx *gin.Context) {
	var req SendNotificationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResp{Error: msgInvalidJSON})
		return
	}
	res, err := h.sendSvc.Send(ctx.Request.Context(), req.toDomain())
	if err != nil {
		h.handleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newSendNotificationResp(res))
}

func (h *Handler) SendTestNotification(ctx *gin.Context) {
	name := ctx.DefaultQuery("template", template.DefaultSampleTemplate)
	res, err := h.sendSvc.SendTest(ctx.Request.Context(), name)
	if err != nil {
		h.handleError(ctx, err)
		return
	}
	resp := newSendNotificationResp(res)
	resp.TestTemplate = name
	resp.AvailableTemplates = h.resolver.SampleNames()
	resp.Message = fmt.Sprintf("Test notification sent using '%s' template", name)
	ctx.JSON(http.StatusOK, resp)
}

func (h *Handler) RecordEngagement(ctx *gin.Context) {
	var req EngagementEventReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResp{Error: msgInvalidJSON})
		return
	}
	evt := domain.EngagementEvent{
		Kind:           domain.EventKind(req.Event),
		Action:         req.Action,
		NotificationID: req.NotificationID,
		UserAgent:      req.UserAgent,
		Data:           req.Data,
	}
	if req.Timestamp > 0 {
		evt.Timestamp = time.UnixMilli(req.Timestamp)
	}
	total, err := h.tracker.Record(ctx.Request.Context(), evt)
	switch {
	case errors.Is(err, errs.ErrInvalidParameter):
		// 统计是尽力而为，非法事件丢掉，不让调用方失败
		ctx.JSON(http.StatusOK, EngagementEventResp{
			Success:     true,
			TotalEvents: h.tracker.Summary(ctx.Request.Context()).TotalEvents,
		})
		return
	case err != nil:
		h.handleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, EngagementEventResp{
		Success:       true,
		EventRecorded: true,
		TotalEvents:   total,
	})
}

func (h *Handler) Analytics(ctx *gin.Context) {
	s := h.tracker.Summary(ctx.Request.Context())
	daily := make(map[string]DailyStat, len(s.DailyStats))
	for day, stat := range s.DailyStats {
		daily[day] = DailyStat{Events: stat.Events, Actions: stat.Actions}
	}
	ctx.JSON(http.StatusOK, AnalyticsResp{
		Summary: EngagementSummary{
			TotalClicks:     s.TotalClicks,
			TotalViews:      s.TotalViews,
			TotalCloses:     s.TotalCloses,
			ActionClicks:    s.ActionClicks,
			DailyStats:      daily,
			EngagementRate:  engagement.FormatRate(s.EngagementRate),
			TotalEvents:     s.TotalEvents,
			TotalDispatched: s.TotalDispatched,
			TotalDelivered:  s.TotalDelivered,
		},
		RecentEvents: slice.Map(s.RecentEvents, func(_ int, src domain.EngagementEvent) EngagementEvent {
			return EngagementEvent{
				Event:          src.Kind.String(),
				Action:         src.Action,
				NotificationID: src.NotificationID,
				Timestamp:      src.Timestamp.UnixMilli(),
				UserAgent:      src.UserAgent,
				Data:           src.Data,
			}
		}),
		PopularActions: slice.Map(s.TopActions, func(_ int, src domain.ActionCount) PopularAction {
			return PopularAction(src)
		}),
		Insights: Insights(s.Insights),
	})
}

func (h *Handler) BackgroundAction(kind domain.BackgroundActionKind) gin.HandlerFunc {
	past := map[domain.BackgroundActionKind]string{
		domain.BackgroundActionArchive: "archived",
		domain.BackgroundActionLike:    "liked",
	}[kind]
	return func(ctx *gin.Context) {
		var req BackgroundActionReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResp{Error: msgInvalidJSON})
			return
		}
		act := domain.BackgroundAction{
			Kind:           kind,
			NotificationID: req.NotificationID,
			DeviceID:       req.DeviceID,
			Metadata:       req.UserAgent,
		}
		if req.Timestamp > 0 {
			act.Timestamp = time.UnixMilli(req.Timestamp)
		}
		res, err := h.actionSvc.Record(ctx.Request.Context(), act)
		if err != nil {
			h.handleError(ctx, err)
			return
		}
		resp := BackgroundActionResp{
			Success:   true,
			Action:    past,
			ID:        res.NotificationID,
			Duplicate: res.Duplicate,
			Timestamp: res.Timestamp.UnixMilli(),
		}
		if kind == domain.BackgroundActionLike {
			resp.TotalLikes = &res.TotalLikes
		}
		ctx.JSON(http.StatusOK, resp)
	}
}

func (h *Handler) Archived(ctx *gin.Context) {
	ids := h.actionSvc.Archived(ctx.Request.Context())
	ctx.JSON(http.StatusOK, ArchivedResp{Archived: ids, Count: len(ids)})
}

func (h *Handler) Likes(ctx *gin.Context) {
	stats := h.actionSvc.Likes(ctx.Request.Context())
	resp := LikesResp{
		LikedNotifications: make([]LikeStat, 0, len(stats)),
	}
	for _, s := range stats {
		resp.LikedNotifications = append(resp.LikedNotifications, LikeStat{
			ID:        s.NotificationID,
			Likes:     s.Likes,
			LastLiked: s.LastLiked.UnixMilli(),
		})
		resp.TotalLikes += s.Likes
	}
	ctx.JSON(http.StatusOK, resp)
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNoSubscribers):
		ctx.JSON(http.StatusBadRequest, ErrorResp{Error: "No subscribers found", Hint: hintNoSubscribers})
	case errors.Is(err, errs.ErrInvalidParameter):
		h.logger.Warn("非法请求",
			elog.String("path", ctx.FullPath()),
			elog.FieldErr(err))
		ctx.JSON(http.StatusBadRequest, ErrorResp{Error: err.Error()})
	default:
		h.logger.Error("处理请求失败",
			elog.String("path", ctx.FullPath()),
			elog.FieldErr(err))
		ctx.JSON(http.StatusInternalServerError, ErrorResp{Error: msgInternalError})
	}
}
