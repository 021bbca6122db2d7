//go:build wireinject

package ioc

import (
	"gitee.com/flycash/webpush-platform/internal/ioc"
	"gitee.com/flycash/webpush-platform/internal/repository"
	"gitee.com/flycash/webpush-platform/internal/service/action"
	"gitee.com/flycash/webpush-platform/internal/service/composer"
	"gitee.com/flycash/webpush-platform/internal/service/notification"
	"gitee.com/flycash/webpush-platform/internal/service/subscription"
	"gitee.com/flycash/webpush-platform/internal/service/template"
	"github.com/google/wire"
	"github.com/sony/sonyflake"
)

var (
	BaseSet = wire.NewSet(
		ioc.InitSubscriptionDAO,
		ioc.InitMQ,
		ioc.InitIDGenerator,
		ioc.InitIdempotencyService,
		ioc.InitProvider,
		ioc.InitVAPIDPublicKey,
	)
	subscriptionSvcSet = wire.NewSet(
		subscription.NewService,
		repository.NewSubscriptionRepository,
	)
	sendNotificationSvcSet = wire.NewSet(
		notification.NewSendService,
		composer.NewComposer,
		template.NewResolver,
		ioc.InitDispatchService,
		ioc.InitDispatchedEventProducer,
		wire.Bind(new(composer.IDGenerator), new(*sonyflake.Sonyflake)),
	)
	engagementSvcSet = wire.NewSet(
		ioc.InitTracker,
		ioc.InitDispatchedEventConsumer,
		action.NewService,
	)
)

func InitApp() *ioc.App {
	wire.Build(
		// 基础设施
		BaseSet,

		// 订阅服务
		subscriptionSvcSet,

		// 发送服务
		sendNotificationSvcSet,

		// 互动统计和后台动作
		engagementSvcSet,

		// HTTP 服务器
		ioc.InitHandler,
		ioc.InitWeb,
		ioc.InitTasks,
		wire.Struct(new(ioc.App), "*"),
	)

	return new(ioc.App)
}
