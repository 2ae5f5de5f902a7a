package ratelimit

import "sync"

// 健康度判定参数
const (
	// latencyEMAWeight 新样本在指数移动平均中的权重
	latencyEMAWeight = 0.3
	// degradedFailureRatio 失败率达到该值判定为降级
	degradedFailureRatio = 0.3
)

// HealthStats 单个提供方的健康度统计。
// 延迟采用指数移动平均，降级判定基于累计失败率。
type HealthStats struct {
	mu        sync.Mutex
	requests  int64
	successes int64
	failures  int64
	avgMs     float64
}

// NewHealthStats 创建健康度统计器
func NewHealthStats() *HealthStats {
	return &HealthStats{}
}

// RecordSuccess 记录一次成功调用及其耗时
func (h *HealthStats) RecordSuccess(latencyMs int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
	h.successes++
	h.updateLatency(latencyMs)
}

// RecordFailure 记录一次失败调用及其耗时
func (h *HealthStats) RecordFailure(latencyMs int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
	h.failures++
	h.updateLatency(latencyMs)
}

// updateLatency 首个样本直接采用，之后按EMA更新。调用方须持锁。
func (h *HealthStats) updateLatency(latencyMs int64) {
	sample := float64(latencyMs)
	if h.avgMs == 0 {
		h.avgMs = sample
		return
	}
	h.avgMs = h.avgMs*(1-latencyEMAWeight) + sample*latencyEMAWeight
}

// Degraded 失败率达到阈值时返回true。
// 分母对请求数取max(requests,1)，零请求时不会判定降级。
func (h *HealthStats) Degraded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.degradedLocked()
}

func (h *HealthStats) degradedLocked() bool {
	requests := h.requests
	if requests < 1 {
		requests = 1
	}
	return float64(h.failures)/float64(requests) >= degradedFailureRatio
}

// Snapshot 返回当前统计快照
func (h *HealthStats) Snapshot() (requests, successes, failures int64, avgMs float64, degraded bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests, h.successes, h.failures, h.avgMs, h.degradedLocked()
}

// Reset 清零所有统计，用于运维手动恢复降级标记
func (h *HealthStats) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = 0
	h.successes = 0
	h.failures = 0
	h.avgMs = 0
}
