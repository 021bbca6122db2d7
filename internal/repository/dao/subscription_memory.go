package dao

import (
	"context"
	"sync"
	"time"
)

// MemorySubscriptionDAO 进程内实现，重启即丢，默认就用它
type MemorySubscriptionDAO struct {
	mu   sync.RWMutex
	subs map[string]Subscription
	// 只用来生成 ID
	nextID int64
}

func NewMemorySubscriptionDAO() *MemorySubscriptionDAO {
	return &MemorySubscriptionDAO{
		subs: make(map[string]Subscription),
	}
}

func (m *MemorySubscriptionDAO) Upsert(_ context.Context, sub Subscription) error {
	now := time.Now().UnixMilli()
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.subs[sub.Endpoint]
	if ok {
		old.P256dh = sub.P256dh
		old.Auth = sub.Auth
		old.Metadata = sub.Metadata
		old.Utime = now
		m.subs[sub.Endpoint] = old
		return nil
	}
	m.nextID++
	sub.ID = m.nextID
	sub.EndpointHash = EndpointHash(sub.Endpoint)
	sub.Ctime = now
	sub.Utime = now
	m.subs[sub.Endpoint] = sub
	return nil
}

func (m *MemorySubscriptionDAO) Delete(_ context.Context, endpoint string) error {
	m.mu.Lock()
	delete(m.subs, endpoint)
	m.mu.Unlock()
	return nil
}

func (m *MemorySubscriptionDAO) DeleteStale(_ context.Context, sub Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.subs[sub.Endpoint]
	if !ok || cur.Utime > sub.Utime || cur.P256dh != sub.P256dh || cur.Auth != sub.Auth {
		return nil
	}
	delete(m.subs, sub.Endpoint)
	return nil
}

// FindAll 返回快照，调用方拿去随便用
func (m *MemorySubscriptionDAO) FindAll(_ context.Context) ([]Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		res = append(res, sub)
	}
	return res, nil
}

func (m *MemorySubscriptionDAO) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.subs)), nil
}
