package dispatched

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gitee.com/flycash/webpush-platform/internal/service/engagement"
	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"
)

// EventConsumer 把分发结果累加到互动统计里
type EventConsumer struct {
	tracker  engagement.Tracker
	consumer mq.Consumer

	batchSize    int
	batchTimeout time.Duration

	logger *elog.Component
}

func NewEventConsumer(tracker engagement.Tracker, q mq.MQ) (*EventConsumer, error) {
	const groupID = "engagement"
	consumer, err := q.Consumer(EventName, groupID)
	if err != nil {
		return nil, err
	}
	return &EventConsumer{
		tracker:      tracker,
		consumer:     consumer,
		batchSize:    20,
		batchTimeout: 3 * time.Second,
		logger:       elog.DefaultLogger,
	}, nil
}

func (c *EventConsumer) Start(ctx context.Context) {
	go func() {
		for ctx.Err() == nil {
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费分发事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *EventConsumer) Consume(ctx context.Context) error {
	msgCh, err := c.consumer.ConsumeChan(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}

	timer := time.NewTimer(c.batchTimeout)
	defer timer.Stop()

	evts := make([]DispatchedEvent, 0, c.batchSize)

CollectBatch:
	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				break CollectBatch
			}
			var evt DispatchedEvent
			if err = json.Unmarshal(msg.Value, &evt); err != nil {
				c.logger.Warn("解析消息失败",
					elog.FieldErr(err),
					elog.Any("msg", msg.Value))
				continue
			}
			evts = append(evts, evt)
			if len(evts) == c.batchSize {
				break CollectBatch
			}
		case <-timer.C:
			break CollectBatch
		case <-ctx.Done():
			break CollectBatch
		}
	}

	for _, evt := range evts {
		c.tracker.RecordDispatch(evt.Sent, evt.Failed)
	}
	if len(evts) > 0 {
		c.logger.Debug("累加分发结果", elog.Int("events", len(evts)))
	}
	return nil
}
