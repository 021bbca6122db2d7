package ioc

import (
	"context"
	"sync"

	"gitee.com/flycash/webpush-platform/internal/event/dispatched"
	"gitee.com/flycash/webpush-platform/internal/service/engagement"
	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/mq-api/memory"
)

var (
	q          mq.MQ
	mqInitOnce sync.Once
)

// InitMQ 分发事件只在进程内流转
func InitMQ() mq.MQ {
	mqInitOnce.Do(func() {
		qq := memory.NewMQ()
		if err := qq.CreateTopic(context.Background(), dispatched.EventName, 1); err != nil {
			panic(err)
		}
		q = qq
	})
	return q
}

func InitDispatchedEventProducer(q mq.MQ) dispatched.EventProducer {
	p, err := dispatched.NewEventProducer(q)
	if err != nil {
		panic(err)
	}
	return p
}

func InitDispatchedEventConsumer(tracker engagement.Tracker, q mq.MQ) *dispatched.EventConsumer {
	c, err := dispatched.NewEventConsumer(tracker, q)
	if err != nil {
		panic(err)
	}
	return c
}
