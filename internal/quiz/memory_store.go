package quiz

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore 进程内测验存储，Redis不可用时的降级方案。
// 进程重启后记录丢失。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore 创建进程内存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// SaveQuizJSON 保存测验记录
func (m *MemoryStore) SaveQuizJSON(ctx context.Context, quizID string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[quizID] = data
	m.mu.Unlock()
	return nil
}

// LoadQuizJSON 读取测验记录，不存在时返回false
func (m *MemoryStore) LoadQuizJSON(ctx context.Context, quizID string, out any) (bool, error) {
	m.mu.RLock()
	data, ok := m.data[quizID]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, out)
}
