package ioc

import (
	"gitee.com/flycash/webpush-platform/internal/service/action"
	"gitee.com/flycash/webpush-platform/internal/service/engagement"
	"gitee.com/flycash/webpush-platform/internal/service/notification"
	"gitee.com/flycash/webpush-platform/internal/service/subscription"
	"gitee.com/flycash/webpush-platform/internal/service/template"
	"gitee.com/flycash/webpush-platform/internal/web"
	"gitee.com/flycash/webpush-platform/internal/web/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
	"github.com/prometheus/client_golang/prometheus"
)

func InitTracker() engagement.Tracker {
	var cfg engagement.Config
	if err := econf.UnmarshalKey("engagement", &cfg); err != nil {
		panic(err)
	}
	return engagement.NewTracker(cfg)
}

func InitWeb(h *web.Handler) *egin.Component {
	server := egin.Load("server").Build()
	server.Use(middleware.NewMetricsBuilder(prometheus.DefaultRegisterer).Build())
	h.PublicRoutes(server.Engine)

	// 配置了密钥才给发送接口加鉴权
	var mws []gin.HandlerFunc
	if key := econf.GetString("server.auth.jwtKey"); key != "" {
		mws = append(mws, middleware.NewJwtAuth(key).Build())
	}
	h.PrivateRoutes(server.Engine, mws...)
	return server
}

func InitHandler(
	subSvc subscription.Service,
	sendSvc notification.SendService,
	tracker engagement.Tracker,
	actionSvc action.Service,
	resolver template.Resolver,
	key VAPIDPublicKey,
) *web.Handler {
	return web.NewHandler(subSvc, sendSvc, tracker, actionSvc, resolver, string(key))
}
