package notification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/errs"
	"gitee.com/flycash/webpush-platform/internal/repository"
	"gitee.com/flycash/webpush-platform/internal/repository/dao"
	"gitee.com/flycash/webpush-platform/internal/service/composer"
	"gitee.com/flycash/webpush-platform/internal/service/dispatch"
	providermocks "gitee.com/flycash/webpush-platform/internal/service/provider/mocks"
	"gitee.com/flycash/webpush-platform/internal/service/subscription"
	"gitee.com/flycash/webpush-platform/internal/service/template"
	"github.com/sony/sonyflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newSendService(t *testing.T, provider *providermocks.MockProvider) (SendService, subscription.Service) {
	subSvc := subscription.NewService(repository.NewSubscriptionRepository(dao.NewMemorySubscriptionDAO()))
	resolver := template.NewResolver()
	idGen := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MachineID: func() (uint16, error) {
			return 1, nil
		},
	})
	require.NotNil(t, idGen)
	svc := NewSendService(
		composer.NewComposer(resolver, idGen),
		resolver,
		dispatch.NewService(subSvc, provider, nil, dispatch.Config{}),
	)
	return svc, subSvc
}

func TestSendService_Send(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		endpoints   []string
		req         domain.DispatchRequest
		before      func(p *providermocks.MockProvider)
		wantErr     error
		wantSent    int
		wantFailed  int
		wantActions []string
		wantRemain  int64
	}{
		{
			name:      "social 模板，B 已失效",
			endpoints: []string{"A", "B"},
			req:       domain.DispatchRequest{Title: "hi", Body: "there", Template: "social"},
			before: func(p *providermocks.MockProvider) {
				p.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, sub domain.Subscription, _ []byte) error {
						if sub.Endpoint == "B" {
							return fmt.Errorf("%w: status=410", errs.ErrEndpointGone)
						}
						return nil
					}).Times(2)
			},
			wantSent:    1,
			wantFailed:  1,
			wantActions: []string{"like", "comment", "share"},
			wantRemain:  1,
		},
		{
			name:       "标题为空，不碰订阅",
			endpoints:  []string{"A"},
			req:        domain.DispatchRequest{Body: "there"},
			before:     func(p *providermocks.MockProvider) {},
			wantErr:    errs.ErrInvalidParameter,
			wantRemain: 1,
		},
		{
			name:    "没有订阅",
			req:     domain.DispatchRequest{Title: "hi", Body: "there"},
			before:  func(p *providermocks.MockProvider) {},
			wantErr: errs.ErrNoSubscribers,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			provider := providermocks.NewMockProvider(ctrl)
			tc.before(provider)

			svc, subSvc := newSendService(t, provider)
			for _, e := range tc.endpoints {
				require.NoError(t, subSvc.Register(context.Background(), domain.Subscription{Endpoint: e}))
			}

			res, err := svc.Send(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
			cnt, err1 := subSvc.Count(context.Background())
			require.NoError(t, err1)
			assert.Equal(t, tc.wantRemain, cnt)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantSent, res.Sent)
			assert.Equal(t, tc.wantFailed, res.Failed)
			actions := make([]string, 0, len(res.Actions))
			for _, a := range res.Actions {
				actions = append(actions, a.Action)
			}
			assert.Equal(t, tc.wantActions, actions)
		})
	}
}

func TestSendService_SendTest(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		templateName string
		wantTitle    string
		wantTemplate string
		wantActions  []string
	}{
		{
			name:         "message 模板",
			templateName: "message",
			wantTitle:    "💬 New Message",
			wantTemplate: "message",
			wantActions:  []string{"reply", "archive", "close"},
		},
		{
			name:         "不存在的模板用 social 的示例",
			templateName: "unknown",
			wantTitle:    "❤️ Someone liked your post!",
			wantTemplate: "social",
			wantActions:  []string{"like", "comment", "share"},
		},
		{
			name:         "不传模板",
			wantTitle:    "❤️ Someone liked your post!",
			wantTemplate: "social",
			wantActions:  []string{"like", "comment", "share"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			provider := providermocks.NewMockProvider(ctrl)
			provider.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			svc, subSvc := newSendService(t, provider)
			require.NoError(t, subSvc.Register(context.Background(), domain.Subscription{Endpoint: "A"}))

			res, err := svc.SendTest(context.Background(), tc.templateName)
			require.NoError(t, err)
			assert.Equal(t, 1, res.Sent)
			assert.Equal(t, tc.wantTitle, res.Payload.Title)
			assert.Equal(t, tc.wantTemplate, res.Template)
			assert.Equal(t, true, res.Payload.Data["isTest"])
			actions := make([]string, 0, len(res.Actions))
			for _, a := range res.Actions {
				actions = append(actions, a.Action)
			}
			assert.Equal(t, tc.wantActions, actions)
		})
	}
}
