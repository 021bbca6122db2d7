package errs

import (
	"errors"
	"fmt"
)

// 定义统一的错误类型
var (
	ErrInvalidParameter = errors.New("参数错误")

	// 下面几个都是参数错误的细分，调用方用 errors.Is(err, ErrInvalidParameter) 判断即可
	ErrInvalidSubscription = fmt.Errorf("%w: 订阅数据不合法", ErrInvalidParameter)
	ErrInvalidRequest      = fmt.Errorf("%w: 通知请求不合法", ErrInvalidParameter)
	ErrInvalidEvent        = fmt.Errorf("%w: 互动事件不合法", ErrInvalidParameter)

	ErrNoSubscribers = errors.New("没有任何订阅")

	// ErrEndpointGone 推送服务明确告知该端点已经失效（404/410），需要把订阅删掉
	ErrEndpointGone = errors.New("推送端点已失效")
	// ErrDeliveryFailed 临时性失败，不删订阅，也不重试
	ErrDeliveryFailed = errors.New("推送失败")

	ErrPayloadEncode                = errors.New("通知序列化失败")
	ErrNotificationIDGenerateFailed = errors.New("通知ID生成失败")

	// ErrOffline 设备端无网络
	ErrOffline = errors.New("设备离线")
)
