package pushclient

import (
	"context"
	"sync"

	"gitee.com/flycash/webpush-platform/internal/domain"
)

// Queue 离线动作队列，List 按写入顺序返回
type Queue interface {
	Enqueue(ctx context.Context, rec domain.OfflineActionRecord) error
	List(ctx context.Context) ([]domain.OfflineActionRecord, error)
	Remove(ctx context.Context, id string) error
}

type MemoryQueue struct {
	mu      sync.Mutex
	records []domain.OfflineActionRecord
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Enqueue(_ context.Context, rec domain.OfflineActionRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.records = append(q.records, rec)
	return nil
}

func (q *MemoryQueue) List(_ context.Context) ([]domain.OfflineActionRecord, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	res := make([]domain.OfflineActionRecord, len(q.records))
	copy(res, q.records)
	return res, nil
}

func (q *MemoryQueue) Remove(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, rec := range q.records {
		if rec.ID == id {
			q.records = append(q.records[:i], q.records[i+1:]...)
			return nil
		}
	}
	return nil
}
