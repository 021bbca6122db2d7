package dispatched

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/mq-api"
)

const (
	EventName = "push_dispatched_events"
)

// DispatchedEvent 一次分发结束后发出的事件
type DispatchedEvent struct {
	NotificationID string `json:"notificationId"`
	Template       string `json:"template"`
	Sent           int    `json:"sent"`
	Failed         int    `json:"failed"`
	Pruned         int    `json:"pruned"`
	Timestamp      int64  `json:"timestamp"`
}

//go:generate mockgen -source=./producer.go -package=evtmocks -destination=../mocks/dispatched.mock.go EventProducer
type EventProducer interface {
	Produce(ctx context.Context, evt DispatchedEvent) error
}

type Producer struct {
	producer mq.Producer
}

func NewEventProducer(q mq.MQ) (EventProducer, error) {
	p, err := q.Producer(EventName)
	if err != nil {
		return nil, err
	}
	return &Producer{producer: p}, nil
}

func (p *Producer) Produce(ctx context.Context, evt DispatchedEvent) error {
	val, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化分发事件失败 %w", err)
	}
	_, err = p.producer.Produce(ctx, &mq.Message{
		Topic: EventName,
		Value: val,
	})
	return err
}
