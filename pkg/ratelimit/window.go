// Package ratelimit 提供按提供方的固定窗口限流与健康度统计。
package ratelimit

import (
	"sync"
	"time"
)

// FixedWindow 固定窗口限流器。
// 窗口从首个请求对齐到窗口时长整数倍，窗口切换时计数归零。
type FixedWindow struct {
	mu       sync.Mutex
	limit    int           // 每窗口允许的请求数
	window   time.Duration // 窗口长度
	count    int           // 当前窗口已消耗数
	windowID int64         // 当前窗口编号
	now      func() time.Time
}

// NewFixedWindow 创建固定窗口限流器。
// limit<=0时视为不限流。
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	if window <= 0 {
		window = 60 * time.Second
	}
	return &FixedWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// CheckAndConsume 检查并消耗一次配额。
// 检查与消耗是同一临界区内的原子操作，不存在先查后占的竞态。
// 返回false表示当前窗口配额已耗尽。
func (w *FixedWindow) CheckAndConsume() bool {
	if w.limit <= 0 {
		return true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	currentWindow := w.now().UnixNano() / int64(w.window)
	if currentWindow != w.windowID {
		w.windowID = currentWindow
		w.count = 0
	}

	if w.count >= w.limit {
		return false
	}

	w.count++
	return true
}

// Remaining 返回当前窗口剩余配额
func (w *FixedWindow) Remaining() int {
	if w.limit <= 0 {
		return -1
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	currentWindow := w.now().UnixNano() / int64(w.window)
	if currentWindow != w.windowID {
		return w.limit
	}

	remaining := w.limit - w.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset 清空当前窗口计数
func (w *FixedWindow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.count = 0
	w.windowID = 0
}
