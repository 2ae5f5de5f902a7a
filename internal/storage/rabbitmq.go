package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"resume-intel-go/internal/config"
	"resume-intel-go/internal/logger"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQPublisher 解析完成事件发布器。
// 事件消费方（通知、报表等）在本服务之外，发布失败只告警不阻塞主流程。
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	routing  string
}

// NewRabbitMQPublisher 建立连接并声明交换机
func NewRabbitMQPublisher(cfg config.RabbitMQConfig) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开RabbitMQ通道失败: %w", err)
	}

	if err := channel.ExchangeDeclare(
		cfg.ParseEventsExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("声明交换机失败: %w", err)
	}

	return &RabbitMQPublisher{
		conn:     conn,
		channel:  channel,
		exchange: cfg.ParseEventsExchange,
		routing:  cfg.ParsedRoutingKey,
	}, nil
}

// ResumeParsedEvent 简历解析完成事件
type ResumeParsedEvent struct {
	ResumeID             string    `json:"resume_id"`
	Name                 string    `json:"name"`
	OverallConfidence    float64   `json:"overall_confidence"`
	AIUsed               bool      `json:"ai_used"`
	RequiresManualReview bool      `json:"requires_manual_review"`
	SkillCount           int       `json:"skill_count"`
	ParsedAt             time.Time `json:"parsed_at"`
}

// PublishResumeParsed 发布解析完成事件
func (p *RabbitMQPublisher) PublishResumeParsed(ctx context.Context, event *ResumeParsedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		p.routing,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         data,
		})
	if err != nil {
		return fmt.Errorf("发布事件失败: %w", err)
	}

	logger.Debug().
		Str("resume_id", event.ResumeID).
		Str("routing_key", p.routing).
		Msg("解析完成事件已发布")
	return nil
}

// Close 关闭通道与连接
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
