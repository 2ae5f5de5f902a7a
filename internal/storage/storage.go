// Package storage 聚合全部存储后端的初始化与关闭。
// 每个后端按配置独立初始化，单个后端失败记为警告，不阻止服务启动，
// 对应的功能在运行时自行降级。
package storage

import (
	"fmt"

	"resume-intel-go/internal/config"
	"resume-intel-go/internal/logger"

	"gorm.io/gorm"
)

// Storage 存储后端集合。未初始化成功的后端为nil，调用方使用前须判空。
type Storage struct {
	DB       *gorm.DB
	Redis    *RedisStore
	Qdrant   *Qdrant
	MinIO    *MinIOStore
	RabbitMQ *RabbitMQPublisher

	warnings []string
}

// NewStorage 按配置初始化各存储后端
func NewStorage(cfg *config.Config) *Storage {
	s := &Storage{}

	if cfg.MySQL.Host != "" {
		db, err := NewMySQL(cfg.MySQL)
		if err != nil {
			s.warn("MySQL", err)
		} else {
			s.DB = db
			logger.Info().Msg("MySQL已连接")
		}
	}

	if cfg.Redis.Address != "" {
		rs, err := NewRedisStore(cfg.Redis)
		if err != nil {
			s.warn("Redis", err)
		} else {
			s.Redis = rs
			logger.Info().Msg("Redis已连接")
		}
	}

	if cfg.Qdrant.Endpoint != "" {
		q, err := NewQdrant(cfg.Qdrant)
		if err != nil {
			s.warn("Qdrant", err)
		} else {
			s.Qdrant = q
			logger.Info().Str("collection", cfg.Qdrant.Collection).Msg("Qdrant已连接")
		}
	}

	if cfg.MinIO.Endpoint != "" {
		m, err := NewMinIOStore(cfg.MinIO)
		if err != nil {
			s.warn("MinIO", err)
		} else {
			s.MinIO = m
			logger.Info().Msg("MinIO已连接")
		}
	}

	if cfg.RabbitMQ.URL != "" {
		mq, err := NewRabbitMQPublisher(cfg.RabbitMQ)
		if err != nil {
			s.warn("RabbitMQ", err)
		} else {
			s.RabbitMQ = mq
			logger.Info().Msg("RabbitMQ已连接")
		}
	}

	return s
}

func (s *Storage) warn(backend string, err error) {
	msg := fmt.Sprintf("%s初始化失败: %v", backend, err)
	s.warnings = append(s.warnings, msg)
	logger.Warn().Str("backend", backend).Err(err).Msg("存储后端初始化失败，相关功能将降级")
}

// Warnings 返回初始化阶段收集的警告
func (s *Storage) Warnings() []string {
	return s.warnings
}

// Close 关闭所有已初始化的后端
func (s *Storage) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis失败")
		}
	}
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭RabbitMQ失败")
		}
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn().Err(err).Msg("关闭MySQL失败")
			}
		}
	}
}
