package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/errs"
	"gitee.com/flycash/webpush-platform/internal/pkg/idempotent"
	"gitee.com/flycash/webpush-platform/internal/repository"
	"gitee.com/flycash/webpush-platform/internal/repository/dao"
	"gitee.com/flycash/webpush-platform/internal/service/action"
	"gitee.com/flycash/webpush-platform/internal/service/engagement"
	notificationmocks "gitee.com/flycash/webpush-platform/internal/service/notification/mocks"
	"gitee.com/flycash/webpush-platform/internal/service/subscription"
	"gitee.com/flycash/webpush-platform/internal/service/template"
	"gitee.com/flycash/webpush-platform/internal/test"
	"gitee.com/flycash/webpush-platform/internal/web/middleware"
	"github.com/ecodeclub/ekit/iox"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandlerTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(HandlerTestSuite))
}

type HandlerTestSuite struct {
	suite.Suite
	sendSvc   *notificationmocks.MockSendService
	subSvc    subscription.Service
	tracker   engagement.Tracker
	actionSvc action.Service
	server    *gin.Engine
}

func (s *HandlerTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.sendSvc = notificationmocks.NewMockSendService(ctrl)
	s.subSvc = subscription.NewService(repository.NewSubscriptionRepository(dao.NewMemorySubscriptionDAO()))
	s.tracker = engagement.NewTracker(engagement.Config{})
	s.actionSvc = action.NewService(idempotent.NewLocalService(time.Hour))

	handler := NewHandler(s.subSvc, s.sendSvc, s.tracker, s.actionSvc, template.NewResolver(), "BPublicKey")
	s.server = gin.New()
	handler.PublicRoutes(s.server)
	handler.PrivateRoutes(s.server)
}

func newJSONRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, iox.NewJSONReader(body))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	return req
}

func newRawRequest(t *testing.T, method, url, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	return req
}

func (s *HandlerTestSuite) TestSubscribe() {
	t := s.T()
	longEndpoint := "https://fcm.googleapis.com/fcm/send/" + strings.Repeat("x", 80)

	testCases := []struct {
		name      string
		req       *http.Request
		wantCode  int
		wantTotal int64
	}{
		{
			name: "注册成功",
			req: newJSONRequest(t, http.MethodPost, "/api/subscribe", SubscribeReq{
				Subscription: &PushSubscription{
					Endpoint: longEndpoint,
					Keys:     SubscriptionKeys{P256dh: "p256dh", Auth: "auth"},
				},
				UserAgent: "Chrome",
			}),
			wantCode:  http.StatusOK,
			wantTotal: 1,
		},
		{
			name: "重复注册不增加数量",
			req: newJSONRequest(t, http.MethodPost, "/api/subscribe", SubscribeReq{
				Subscription: &PushSubscription{Endpoint: longEndpoint},
				UserAgent:    "Firefox",
			}),
			wantCode:  http.StatusOK,
			wantTotal: 1,
		},
		{
			name:     "没有 subscription",
			req:      newJSONRequest(t, http.MethodPost, "/api/subscribe", SubscribeReq{UserAgent: "Chrome"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "非法 JSON",
			req:      newRawRequest(t, http.MethodPost, "/api/subscribe", "{"),
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			recorder := test.NewJSONResponseRecorder[SubscribeResp]()
			s.server.ServeHTTP(recorder, tc.req)
			require.Equal(t, tc.wantCode, recorder.Code)
			if tc.wantCode != http.StatusOK {
				return
			}
			resp := recorder.MustScan()
			assert.True(t, resp.Success)
			assert.Equal(t, tc.wantTotal, resp.TotalSubscriptions)
		})
	}

	recorder := test.NewJSONResponseRecorder[ListSubscriptionsResp]()
	s.server.ServeHTTP(recorder, newRawRequest(t, http.MethodGet, "/api/subscribe", ""))
	require.Equal(t, http.StatusOK, recorder.Code)
	resp := recorder.MustScan()
	require.Len(t, resp.Subscriptions, 1)
	assert.Equal(t, longEndpoint[:50]+"...", resp.Subscriptions[0].Endpoint)
	assert.Equal(t, "Firefox", resp.Subscriptions[0].UserAgent)
	assert.NotEmpty(t, resp.Subscriptions[0].Subscribed)

	delRecorder := test.NewJSONResponseRecorder[SubscribeResp]()
	s.server.ServeHTTP(delRecorder, newJSONRequest(t, http.MethodDelete, "/api/subscribe", UnsubscribeReq{Endpoint: longEndpoint}))
	require.Equal(t, http.StatusOK, delRecorder.Code)
	assert.Equal(t, int64(0), delRecorder.MustScan().TotalSubscriptions)

	badRecorder := test.NewJSONResponseRecorder[ErrorResp]()
	s.server.ServeHTTP(badRecorder, newJSONRequest(t, http.MethodDelete, "/api/subscribe", UnsubscribeReq{}))
	assert.Equal(t, http.StatusBadRequest, badRecorder.Code)
}

func (s *HandlerTestSuite) TestSendNotification() {
	t := s.T()
	payload := domain.NotificationPayload{
		Title:   "hi",
		Body:    "there",
		Actions: []domain.ActionDescriptor{{Action: "like", Title: "❤️ Like", Icon: "/pwa-192x192.png"}},
		Data:    map[string]any{"id": "notif_1_a", "template": "social"},
	}

	testCases := []struct {
		name     string
		req      *http.Request
		before   func()
		wantCode int
		wantErr  string
		assert   func(t *testing.T, resp SendNotificationResp)
	}{
		{
			name: "发送成功",
			req: newJSONRequest(t, http.MethodPost, "/api/send-notification", SendNotificationReq{
				Title:    "hi",
				Body:     "there",
				Template: "social",
				Actions:  []Action{{Action: "like", Title: "❤️ Like"}},
			}),
			before: func() {
				s.sendSvc.EXPECT().Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req domain.DispatchRequest) (domain.DispatchResult, error) {
						assert.Equal(t, "social", req.Template)
						assert.Equal(t, []domain.ActionDescriptor{{Action: "like", Title: "❤️ Like"}}, req.Actions)
						return domain.DispatchResult{
							NotificationID: "notif_1_a",
							Template:       "social",
							Sent:           1,
							Failed:         1,
							FailedReasons:  []string{"Removed invalid subscription"},
							Payload:        payload,
							Actions:        payload.Actions,
						}, nil
					})
			},
			wantCode: http.StatusOK,
			assert: func(t *testing.T, resp SendNotificationResp) {
				assert.True(t, resp.Success)
				assert.Equal(t, "notif_1_a", resp.NotificationID)
				assert.Equal(t, 1, resp.Sent)
				assert.Equal(t, 1, resp.Failed)
				assert.Equal(t, []string{"Removed invalid subscription"}, resp.FailedReasons)
				assert.Equal(t, []ActionBrief{{Action: "like", Title: "❤️ Like"}}, resp.Actions)
				assert.Equal(t, "hi", resp.Payload.Title)
			},
		},
		{
			name: "标题为空",
			req:  newJSONRequest(t, http.MethodPost, "/api/send-notification", SendNotificationReq{Body: "there"}),
			before: func() {
				s.sendSvc.EXPECT().Send(gomock.Any(), gomock.Any()).
					Return(domain.DispatchResult{}, fmt.Errorf("%w: title 为空", errs.ErrInvalidRequest))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "没有订阅",
			req:  newJSONRequest(t, http.MethodPost, "/api/send-notification", SendNotificationReq{Title: "hi", Body: "there"}),
			before: func() {
				s.sendSvc.EXPECT().Send(gomock.Any(), gomock.Any()).
					Return(domain.DispatchResult{}, fmt.Errorf("分发通知失败: %w", errs.ErrNoSubscribers))
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "No subscribers found",
		},
		{
			name: "内部错误",
			req:  newJSONRequest(t, http.MethodPost, "/api/send-notification", SendNotificationReq{Title: "hi", Body: "there"}),
			before: func() {
				s.sendSvc.EXPECT().Send(gomock.Any(), gomock.Any()).
					Return(domain.DispatchResult{}, fmt.Errorf("db down"))
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  msgInternalError,
		},
		{
			name:     "非法 JSON",
			req:      newRawRequest(t, http.MethodPost, "/api/send-notification", "title=hi"),
			before:   func() {},
			wantCode: http.StatusBadRequest,
			wantErr:  msgInvalidJSON,
		},
		{
			name: "测试发送",
			req:  newRawRequest(t, http.MethodGet, "/api/send-notification?template=message", ""),
			before: func() {
				s.sendSvc.EXPECT().SendTest(gomock.Any(), "message").
					Return(domain.DispatchResult{NotificationID: "notif_2_b", Template: "message", Sent: 1}, nil)
			},
			wantCode: http.StatusOK,
			assert: func(t *testing.T, resp SendNotificationResp) {
				assert.Equal(t, "message", resp.TestTemplate)
				assert.Contains(t, resp.AvailableTemplates, "social")
				assert.Equal(t, "Test notification sent using 'message' template", resp.Message)
				assert.Equal(t, []ActionBrief{}, resp.Actions)
			},
		},
		{
			name: "测试发送默认 social",
			req:  newRawRequest(t, http.MethodGet, "/api/send-notification", ""),
			before: func() {
				s.sendSvc.EXPECT().SendTest(gomock.Any(), "social").
					Return(domain.DispatchResult{NotificationID: "notif_3_c", Template: "social", Sent: 1}, nil)
			},
			wantCode: http.StatusOK,
			assert: func(t *testing.T, resp SendNotificationResp) {
				assert.Equal(t, "social", resp.TestTemplate)
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			tc.before()
			if tc.assert != nil {
				recorder := test.NewJSONResponseRecorder[SendNotificationResp]()
				s.server.ServeHTTP(recorder, tc.req)
				require.Equal(t, tc.wantCode, recorder.Code)
				tc.assert(t, recorder.MustScan())
				return
			}
			recorder := test.NewJSONResponseRecorder[ErrorResp]()
			s.server.ServeHTTP(recorder, tc.req)
			require.Equal(t, tc.wantCode, recorder.Code)
			resp := recorder.MustScan()
			assert.NotEmpty(t, resp.Error)
			if tc.wantErr != "" {
				assert.Equal(t, tc.wantErr, resp.Error)
			}
		})
	}
}

func (s *HandlerTestSuite) TestAnalytics() {
	t := s.T()
	events := []EngagementEventReq{
		{Event: "click", Action: "like", NotificationID: "notif_1"},
		{Event: "click", Action: "reply", NotificationID: "notif_1"},
		{Event: "click", Action: "like", NotificationID: "notif_1"},
		{Event: "click", NotificationID: "notif_1"},
		{Event: "view", NotificationID: "notif_1"},
		{Event: "view", NotificationID: "notif_1", Timestamp: time.Now().UnixMilli()},
	}
	for i, evt := range events {
		recorder := test.NewJSONResponseRecorder[EngagementEventResp]()
		s.server.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/notifications/analytics", evt))
		require.Equal(t, http.StatusOK, recorder.Code)
		resp := recorder.MustScan()
		assert.True(t, resp.EventRecorded)
		assert.Equal(t, i+1, resp.TotalEvents)
	}

	// 非法事件不改变统计
	badRecorder := test.NewJSONResponseRecorder[EngagementEventResp]()
	s.server.ServeHTTP(badRecorder, newJSONRequest(t, http.MethodPost, "/api/notifications/analytics", EngagementEventReq{Action: "like"}))
	require.Equal(t, http.StatusOK, badRecorder.Code)
	badResp := badRecorder.MustScan()
	assert.False(t, badResp.EventRecorded)
	assert.Equal(t, 6, badResp.TotalEvents)

	recorder := test.NewJSONResponseRecorder[AnalyticsResp]()
	s.server.ServeHTTP(recorder, newRawRequest(t, http.MethodGet, "/api/notifications/analytics", ""))
	require.Equal(t, http.StatusOK, recorder.Code)
	resp := recorder.MustScan()
	assert.Equal(t, int64(4), resp.Summary.TotalClicks)
	assert.Equal(t, int64(2), resp.Summary.TotalViews)
	assert.Equal(t, "200%", resp.Summary.EngagementRate)
	assert.Equal(t, 6, resp.Summary.TotalEvents)
	assert.Equal(t, map[string]int64{"like": 2, "reply": 1}, resp.Summary.ActionClicks)
	assert.Equal(t, []PopularAction{{Action: "like", Count: 2}, {Action: "reply", Count: 1}}, resp.PopularActions)
	assert.Len(t, resp.RecentEvents, 6)
	assert.Equal(t, Insights{MostEngaging: "like", TotalInteractions: 4, AverageActionsPerDay: 4}, resp.Insights)
}

func (s *HandlerTestSuite) TestBackgroundActions() {
	t := s.T()

	like := func(device string) BackgroundActionResp {
		recorder := test.NewJSONResponseRecorder[BackgroundActionResp]()
		s.server.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/notifications/like", BackgroundActionReq{
			NotificationID: "notif_1",
			Action:         "like",
			DeviceID:       device,
			Timestamp:      1741420800000,
		}))
		require.Equal(t, http.StatusOK, recorder.Code)
		return recorder.MustScan()
	}
	first := like("d1")
	assert.Equal(t, "liked", first.Action)
	require.NotNil(t, first.TotalLikes)
	assert.Equal(t, int64(1), *first.TotalLikes)
	replay := like("d1")
	assert.True(t, replay.Duplicate)
	assert.Equal(t, int64(1), *replay.TotalLikes)
	other := like("d2")
	assert.Equal(t, int64(2), *other.TotalLikes)

	archiveRecorder := test.NewJSONResponseRecorder[BackgroundActionResp]()
	s.server.ServeHTTP(archiveRecorder, newJSONRequest(t, http.MethodPost, "/api/notifications/archive", BackgroundActionReq{
		NotificationID: "notif_2",
		DeviceID:       "d1",
	}))
	require.Equal(t, http.StatusOK, archiveRecorder.Code)
	archived := archiveRecorder.MustScan()
	assert.Equal(t, "archived", archived.Action)
	assert.Equal(t, "notif_2", archived.ID)
	assert.Nil(t, archived.TotalLikes)

	badRecorder := test.NewJSONResponseRecorder[ErrorResp]()
	s.server.ServeHTTP(badRecorder, newJSONRequest(t, http.MethodPost, "/api/notifications/archive", BackgroundActionReq{}))
	assert.Equal(t, http.StatusBadRequest, badRecorder.Code)

	listRecorder := test.NewJSONResponseRecorder[ArchivedResp]()
	s.server.ServeHTTP(listRecorder, newRawRequest(t, http.MethodGet, "/api/notifications/archive", ""))
	assert.Equal(t, ArchivedResp{Archived: []string{"notif_2"}, Count: 1}, listRecorder.MustScan())

	likesRecorder := test.NewJSONResponseRecorder[LikesResp]()
	s.server.ServeHTTP(likesRecorder, newRawRequest(t, http.MethodGet, "/api/notifications/like", ""))
	assert.Equal(t, LikesResp{
		LikedNotifications: []LikeStat{{ID: "notif_1", Likes: 2, LastLiked: 1741420800000}},
		TotalLikes:         2,
	}, likesRecorder.MustScan())
}

func (s *HandlerTestSuite) TestVAPIDPublicKey() {
	recorder := test.NewJSONResponseRecorder[VAPIDPublicKeyResp]()
	s.server.ServeHTTP(recorder, newRawRequest(s.T(), http.MethodGet, "/api/vapid-public-key", ""))
	require.Equal(s.T(), http.StatusOK, recorder.Code)
	assert.Equal(s.T(), "BPublicKey", recorder.MustScan().PublicKey)
}

func TestHandler_PrivateRoutesWithAuth(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	sendSvc := notificationmocks.NewMockSendService(ctrl)
	sendSvc.EXPECT().SendTest(gomock.Any(), "social").Return(domain.DispatchResult{Sent: 1}, nil)

	auth := middleware.NewJwtAuth("secret")
	handler := NewHandler(nil, sendSvc, nil, nil, template.NewResolver(), "")
	server := gin.New()
	handler.PrivateRoutes(server, auth.Build())

	recorder := test.NewJSONResponseRecorder[ErrorResp]()
	server.ServeHTTP(recorder, newRawRequest(t, http.MethodGet, "/api/send-notification", ""))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	token, err := auth.Encode(jwt.MapClaims{"sub": "ops"})
	require.NoError(t, err)
	req := newRawRequest(t, http.MethodGet, "/api/send-notification", "")
	req.Header.Set("Authorization", "Bearer "+token)
	okRecorder := test.NewJSONResponseRecorder[SendNotificationResp]()
	server.ServeHTTP(okRecorder, req)
	require.Equal(t, http.StatusOK, okRecorder.Code)
	assert.Equal(t, 1, okRecorder.MustScan().Sent)
}
