package web

import (
	"gitee.com/flycash/webpush-platform/internal/domain"
)

type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type PushSubscription struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

type SubscribeReq struct {
	Subscription *PushSubscription `json:"subscription"`
	UserAgent    string            `json:"userAgent"`
	Timestamp    int64             `json:"timestamp"`
}

type SubscribeResp struct {
	Success            bool   `json:"success"`
	Message            string `json:"message,omitempty"`
	TotalSubscriptions int64  `json:"totalSubscriptions"`
}

type UnsubscribeReq struct {
	Endpoint string `json:"endpoint"`
}

type SubscriptionInfo struct {
	Endpoint   string `json:"endpoint"`
	UserAgent  string `json:"userAgent"`
	Subscribed string `json:"subscribed"`
}

type ListSubscriptionsResp struct {
	TotalSubscriptions int64              `json:"totalSubscriptions"`
	Subscriptions      []SubscriptionInfo `json:"subscriptions"`
}

type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

type SendNotificationReq struct {
	Title              string         `json:"title"`
	Body               string         `json:"body"`
	Icon               string         `json:"icon"`
	Badge              string         `json:"badge"`
	Image              string         `json:"image"`
	Data               map[string]any `json:"data"`
	Actions            []Action       `json:"actions"`
	Tag                string         `json:"tag"`
	RequireInteraction bool           `json:"requireInteraction"`
	Template           string         `json:"template"`
	Vibrate            []int          `json:"vibrate"`
	Silent             bool           `json:"silent"`
}

func (r SendNotificationReq) toDomain() domain.DispatchRequest {
	var actions []domain.ActionDescriptor
	if len(r.Actions) > 0 {
		actions = make([]domain.ActionDescriptor, 0, len(r.Actions))
		for _, a := range r.Actions {
			actions = append(actions, domain.ActionDescriptor(a))
		}
	}
	return domain.DispatchRequest{
		Title:              r.Title,
		Body:               r.Body,
		Template:           r.Template,
		Actions:            actions,
		Icon:               r.Icon,
		Badge:              r.Badge,
		Image:              r.Image,
		Tag:                r.Tag,
		RequireInteraction: r.RequireInteraction,
		Vibrate:            r.Vibrate,
		Silent:             r.Silent,
		Data:               r.Data,
	}
}

type ActionBrief struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

type SendNotificationResp struct {
	Success        bool                       `json:"success"`
	NotificationID string                     `json:"notificationId"`
	Template       string                     `json:"template"`
	Sent           int                        `json:"sent"`
	Failed         int                        `json:"failed"`
	FailedReasons  []string                   `json:"failedReasons"`
	Payload        domain.NotificationPayload `json:"payload"`
	Actions        []ActionBrief              `json:"actions"`

	// 测试发送才有
	TestTemplate       string   `json:"testTemplate,omitempty"`
	AvailableTemplates []string `json:"availableTemplates,omitempty"`
	Message            string   `json:"message,omitempty"`
}

func newSendNotificationResp(res domain.DispatchResult) SendNotificationResp {
	actions := make([]ActionBrief, 0, len(res.Actions))
	for _, a := range res.Actions {
		actions = append(actions, ActionBrief{Action: a.Action, Title: a.Title})
	}
	return SendNotificationResp{
		Success:        true,
		NotificationID: res.NotificationID,
		Template:       res.Template,
		Sent:           res.Sent,
		Failed:         res.Failed,
		FailedReasons:  res.FailedReasons,
		Payload:        res.Payload,
		Actions:        actions,
	}
}

type EngagementEventReq struct {
	Event          string         `json:"event"`
	Action         string         `json:"action"`
	NotificationID string         `json:"notificationId"`
	Timestamp      int64          `json:"timestamp"`
	UserAgent      string         `json:"userAgent"`
	Data           map[string]any `json:"data"`
}

type EngagementEventResp struct {
	Success       bool `json:"success"`
	EventRecorded bool `json:"eventRecorded"`
	TotalEvents   int  `json:"totalEvents"`
}

type EngagementEvent struct {
	Event          string         `json:"event"`
	Action         string         `json:"action,omitempty"`
	NotificationID string         `json:"notificationId,omitempty"`
	Timestamp      int64          `json:"timestamp"`
	UserAgent      string         `json:"userAgent,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

type DailyStat struct {
	Events  int64            `json:"events"`
	Actions map[string]int64 `json:"actions"`
}

type EngagementSummary struct {
	TotalClicks     int64                `json:"totalClicks"`
	TotalViews      int64                `json:"totalViews"`
	TotalCloses     int64                `json:"totalCloses"`
	ActionClicks    map[string]int64     `json:"actionClicks"`
	DailyStats      map[string]DailyStat `json:"dailyStats"`
	EngagementRate  string               `json:"engagementRate"`
	TotalEvents     int                  `json:"totalEvents"`
	TotalDispatched int64                `json:"totalDispatched"`
	TotalDelivered  int64                `json:"totalDelivered"`
}

type PopularAction struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

type Insights struct {
	MostEngaging         string `json:"mostEngaging"`
	TotalInteractions    int64  `json:"totalInteractions"`
	AverageActionsPerDay int64  `json:"averageActionsPerDay"`
}

type AnalyticsResp struct {
	Summary        EngagementSummary `json:"summary"`
	RecentEvents   []EngagementEvent `json:"recentEvents"`
	PopularActions []PopularAction   `json:"popularActions"`
	Insights       Insights          `json:"insights"`
}

type BackgroundActionReq struct {
	NotificationID string `json:"notificationId"`
	Action         string `json:"action"`
	Timestamp      int64  `json:"timestamp"`
	DeviceID       string `json:"deviceId"`
	UserAgent      string `json:"userAgent"`
}

type BackgroundActionResp struct {
	Success    bool   `json:"success"`
	Action     string `json:"action"`
	ID         string `json:"id"`
	TotalLikes *int64 `json:"totalLikes,omitempty"`
	Duplicate  bool   `json:"duplicate"`
	Timestamp  int64  `json:"timestamp"`
}

type ArchivedResp struct {
	Archived []string `json:"archived"`
	Count    int      `json:"count"`
}

type LikeStat struct {
	ID        string `json:"id"`
	Likes     int64  `json:"likes"`
	LastLiked int64  `json:"lastLiked"`
}

type LikesResp struct {
	LikedNotifications []LikeStat `json:"likedNotifications"`
	TotalLikes         int64      `json:"totalLikes"`
}

type VAPIDPublicKeyResp struct {
	PublicKey string `json:"publicKey"`
}

type ErrorResp struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}
