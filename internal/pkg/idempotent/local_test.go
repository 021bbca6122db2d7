package idempotent

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImplementation(t *testing.T) {
	t.Parallel()
	testIdempotencyService(t, NewLocalService(time.Minute))
}

func TestLocalImplementation_Expiration(t *testing.T) {
	t.Parallel()
	svc := NewLocalService(50 * time.Millisecond)
	exists, err := svc.Exists(context.Background(), "bg_action:like:notif_1:device_1")
	require.NoError(t, err)
	assert.False(t, exists)

	time.Sleep(100 * time.Millisecond)
	exists, err = svc.Exists(context.Background(), "bg_action:like:notif_1:device_1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func testIdempotencyService(t *testing.T, svc IdempotencyService) {
	t.Helper()
	ctx := context.Background()
	prefix := time.Now().Format("150405.000000")

	t.Run("单个 key", func(t *testing.T) {
		key := prefix + ":single"
		exists, err := svc.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = svc.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("不同 key 互不影响", func(t *testing.T) {
		_, err := svc.Exists(ctx, prefix+":like:d1")
		require.NoError(t, err)

		exists, err := svc.Exists(ctx, prefix+":like:d2")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("并发只有一个成功", func(t *testing.T) {
		key := prefix + ":concurrent"
		var firstCnt atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				exists, err := svc.Exists(ctx, key)
				if err == nil && !exists {
					firstCnt.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(1), firstCnt.Load())
	})
}
