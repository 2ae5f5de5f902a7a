package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-intel-go/internal/config"
	"resume-intel-go/internal/constants"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// RedisStore Redis访问封装：简历文本MD5去重集合与测验记录的短期存储
type RedisStore struct {
	client        *redis.Client
	md5ExpireDays int
}

// NewRedisStore 建立Redis连接并接入链路追踪
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("Redis链路追踪接入失败: %w", err)
	}

	return &RedisStore{
		client:        client,
		md5ExpireDays: cfg.MD5RecordExpireDays,
	}, nil
}

// Client 暴露底层客户端，供需要原始命令的调用方使用
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// MarkTextSeen 将文本MD5加入去重集合，返回是否是首次出现
func (s *RedisStore) MarkTextSeen(ctx context.Context, md5Hex string) (bool, error) {
	added, err := s.client.SAdd(ctx, constants.RawTextMD5SetKey, md5Hex).Result()
	if err != nil {
		return false, fmt.Errorf("写入MD5去重集合失败: %w", err)
	}
	return added > 0, nil
}

// IsTextSeen 查询文本MD5是否已出现过
func (s *RedisStore) IsTextSeen(ctx context.Context, md5Hex string) (bool, error) {
	seen, err := s.client.SIsMember(ctx, constants.RawTextMD5SetKey, md5Hex).Result()
	if err != nil {
		return false, fmt.Errorf("查询MD5去重集合失败: %w", err)
	}
	return seen, nil
}

// SaveQuizJSON 保存测验记录，带过期时间
func (s *RedisStore) SaveQuizJSON(ctx context.Context, quizID string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化测验记录失败: %w", err)
	}
	key := constants.QuizKeyPrefix + quizID
	if err := s.client.Set(ctx, key, data, constants.QuizRecordExpire).Err(); err != nil {
		return fmt.Errorf("保存测验记录失败: %w", err)
	}
	return nil
}

// LoadQuizJSON 读取测验记录。记录不存在时返回(false, nil)。
func (s *RedisStore) LoadQuizJSON(ctx context.Context, quizID string, out any) (bool, error) {
	key := constants.QuizKeyPrefix + quizID
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("读取测验记录失败: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("解析测验记录失败: %w", err)
	}
	return true, nil
}

// Close 关闭连接
func (s *RedisStore) Close() error {
	return s.client.Close()
}
