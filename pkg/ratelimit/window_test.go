package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWindowConsumesUpToLimit(t *testing.T) {
	w := NewFixedWindow(3, time.Minute)

	assert.True(t, w.CheckAndConsume())
	assert.True(t, w.CheckAndConsume())
	assert.True(t, w.CheckAndConsume())
	assert.False(t, w.CheckAndConsume(), "第4次请求应被拒绝")
	assert.Equal(t, 0, w.Remaining())
}

func TestFixedWindowResetsOnNewWindow(t *testing.T) {
	w := NewFixedWindow(2, time.Minute)

	current := time.Now()
	w.now = func() time.Time { return current }

	assert.True(t, w.CheckAndConsume())
	assert.True(t, w.CheckAndConsume())
	assert.False(t, w.CheckAndConsume())

	// 时间推进到下一个窗口，配额应恢复
	current = current.Add(time.Minute + time.Second)
	assert.True(t, w.CheckAndConsume())
	assert.Equal(t, 1, w.Remaining())
}

func TestFixedWindowUnlimited(t *testing.T) {
	w := NewFixedWindow(0, time.Minute)
	for i := 0; i < 1000; i++ {
		assert.True(t, w.CheckAndConsume())
	}
	assert.Equal(t, -1, w.Remaining())
}

func TestFixedWindowConcurrentConsume(t *testing.T) {
	w := NewFixedWindow(50, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w.CheckAndConsume() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed, "并发下不应超发配额")
}

func TestFixedWindowReset(t *testing.T) {
	w := NewFixedWindow(1, time.Minute)
	assert.True(t, w.CheckAndConsume())
	assert.False(t, w.CheckAndConsume())

	w.Reset()
	assert.True(t, w.CheckAndConsume())
}
