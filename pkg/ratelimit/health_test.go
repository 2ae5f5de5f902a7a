package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthStatsLatencyEMA(t *testing.T) {
	h := NewHealthStats()

	// 首个样本直接采用
	h.RecordSuccess(100)
	_, _, _, avg, _ := h.Snapshot()
	assert.InDelta(t, 100.0, avg, 0.001)

	// 之后按 avg*0.7 + sample*0.3 更新
	h.RecordSuccess(200)
	_, _, _, avg, _ = h.Snapshot()
	assert.InDelta(t, 130.0, avg, 0.001)

	h.RecordFailure(300)
	_, _, _, avg, _ = h.Snapshot()
	assert.InDelta(t, 181.0, avg, 0.001)
}

func TestHealthStatsDegraded(t *testing.T) {
	h := NewHealthStats()
	assert.False(t, h.Degraded(), "零请求不应判定降级")

	// 7成功3失败，失败率正好30%
	for i := 0; i < 7; i++ {
		h.RecordSuccess(10)
	}
	for i := 0; i < 3; i++ {
		h.RecordFailure(10)
	}
	assert.True(t, h.Degraded())

	requests, successes, failures, _, degraded := h.Snapshot()
	assert.Equal(t, int64(10), requests)
	assert.Equal(t, int64(7), successes)
	assert.Equal(t, int64(3), failures)
	assert.True(t, degraded)
}

func TestHealthStatsNotDegradedBelowThreshold(t *testing.T) {
	h := NewHealthStats()
	for i := 0; i < 8; i++ {
		h.RecordSuccess(10)
	}
	h.RecordFailure(10)
	h.RecordFailure(10)
	assert.False(t, h.Degraded(), "失败率20%不应降级")
}

func TestHealthStatsReset(t *testing.T) {
	h := NewHealthStats()
	h.RecordFailure(50)
	assert.True(t, h.Degraded())

	h.Reset()
	assert.False(t, h.Degraded())

	requests, _, failures, avg, _ := h.Snapshot()
	assert.Equal(t, int64(0), requests)
	assert.Equal(t, int64(0), failures)
	assert.Equal(t, 0.0, avg)
}
