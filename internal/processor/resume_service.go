// Package processor 编排简历解析的完整处理流程。
package processor

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"resume-intel-go/internal/logger"
	"resume-intel-go/internal/storage"
	"resume-intel-go/internal/storage/models"
	"resume-intel-go/internal/tracing"
	"resume-intel-go/internal/types"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
)

// ProcessOutcome 一次简历处理的结果
type ProcessOutcome struct {
	ResumeID  string             `json:"resume_id"`
	Duplicate bool               `json:"duplicate"`
	Result    *types.ParseResult `json:"result,omitempty"`
}

// resumeParser 解析依赖面
type resumeParser interface {
	Parse(ctx context.Context, text string) *types.ParseResult
}

// embedRouter 向量化依赖面（AI路由器）
type embedRouter interface {
	Execute(ctx context.Context, req *types.TaskRequest) *types.AIRouterResult
}

// ResumeService 简历处理服务。
// 流程：MD5去重 -> 混合解析 -> MySQL落库 -> MinIO归档 -> 向量化入Qdrant -> 发布事件。
// 解析之后的环节都是尽力而为，失败只告警，不影响已产出的解析结果。
type ResumeService struct {
	parser  resumeParser
	router  embedRouter
	storage *storage.Storage
	tracer  trace.Tracer
}

// NewResumeService 创建简历处理服务
func NewResumeService(p resumeParser, router embedRouter, s *storage.Storage) *ResumeService {
	return &ResumeService{
		parser:  p,
		router:  router,
		storage: s,
		tracer:  otel.Tracer("resume-service"),
	}
}

// ProcessText 处理一份简历文本
func (s *ResumeService) ProcessText(ctx context.Context, text string) (*ProcessOutcome, error) {
	if text == "" {
		return nil, fmt.Errorf("简历文本为空")
	}

	ctx, span := s.tracer.Start(ctx, "resume.process",
		trace.WithAttributes(attribute.Int("text_length", len(text))))
	defer span.End()

	md5Hex := textMD5(text)

	// 去重。Redis不可用时跳过去重，宁可重复处理也不拒绝服务。
	if s.storage.Redis != nil {
		firstSeen, err := s.storage.Redis.MarkTextSeen(ctx, md5Hex)
		if err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeRedis)
			logger.Warn().Err(err).Msg("MD5去重查询失败，继续处理")
		} else if !firstSeen {
			if existing := s.findByMD5(ctx, md5Hex); existing != nil {
				logger.Info().Str("md5", md5Hex).Str("resume_id", existing.ID).
					Msg("检测到重复简历文本，返回已有记录")
				return &ProcessOutcome{ResumeID: existing.ID, Duplicate: true}, nil
			}
		}
	}

	result := s.parser.Parse(ctx, text)

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成简历ID失败: %w", err)
	}
	resumeID := id.String()

	s.persist(ctx, span, resumeID, md5Hex, text, result)
	s.embedAndIndex(ctx, span, resumeID, text, result)
	s.publishEvent(ctx, span, resumeID, result)

	return &ProcessOutcome{ResumeID: resumeID, Result: result}, nil
}

// findByMD5 按文本MD5查找已有记录
func (s *ResumeService) findByMD5(ctx context.Context, md5Hex string) *models.ResumeRecord {
	if s.storage.DB == nil {
		return nil
	}
	var record models.ResumeRecord
	if err := s.storage.DB.WithContext(ctx).
		Where("text_md5 = ?", md5Hex).First(&record).Error; err != nil {
		return nil
	}
	return &record
}

// GetRecord 按ID读取解析记录
func (s *ResumeService) GetRecord(ctx context.Context, resumeID string) (*models.ResumeRecord, error) {
	if s.storage.DB == nil {
		return nil, fmt.Errorf("MySQL未配置")
	}
	var record models.ResumeRecord
	if err := s.storage.DB.WithContext(ctx).
		Where("id = ?", resumeID).First(&record).Error; err != nil {
		return nil, fmt.Errorf("查询简历记录失败: %w", err)
	}
	return &record, nil
}

// SearchSimilar 按文本语义检索相似简历
func (s *ResumeService) SearchSimilar(ctx context.Context, text string, limit int) ([]storage.SearchResult, error) {
	if s.storage.Qdrant == nil {
		return nil, fmt.Errorf("Qdrant未配置")
	}

	result := s.router.Execute(ctx, &types.TaskRequest{
		Task: types.TaskEmbedText,
		Text: text,
	})
	if !result.Success {
		return nil, fmt.Errorf("文本向量化失败: %s", result.Error)
	}
	vector, ok := result.Data.([]float32)
	if !ok {
		return nil, fmt.Errorf("文本向量化失败: 结果类型异常")
	}

	return s.storage.Qdrant.SearchSimilar(ctx, vector, limit)
}

// persist 落库MySQL并归档MinIO，均为尽力而为
func (s *ResumeService) persist(ctx context.Context, span trace.Span, resumeID, md5Hex, text string, result *types.ParseResult) {
	parsedJSON, err := json.Marshal(result.ParsedResume)
	if err != nil {
		logger.Warn().Err(err).Msg("序列化解析结果失败，跳过持久化")
		return
	}
	metaJSON, err := json.Marshal(result.Metadata)
	if err != nil {
		logger.Warn().Err(err).Msg("序列化解析元数据失败，跳过持久化")
		return
	}

	rawObjectKey := ""
	if s.storage.MinIO != nil {
		key, err := s.storage.MinIO.PutRawText(ctx, resumeID, text)
		if err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeInternal)
			logger.Warn().Err(err).Msg("归档原始文本失败")
		} else {
			rawObjectKey = key
		}

		recordJSON, err := json.Marshal(&ProcessOutcome{ResumeID: resumeID, Result: result})
		if err == nil {
			if _, err := s.storage.MinIO.PutRecordJSON(ctx, resumeID, recordJSON); err != nil {
				logger.Warn().Err(err).Msg("归档解析记录失败")
			}
		}
	}

	if s.storage.DB != nil {
		record := &models.ResumeRecord{
			ID:                   resumeID,
			TextMD5:              md5Hex,
			RawTextObjectKey:     rawObjectKey,
			ParsedData:           datatypes.JSON(parsedJSON),
			Metadata:             datatypes.JSON(metaJSON),
			Name:                 result.ParsedResume.Name,
			OverallConfidence:    result.Metadata.OverallConfidence,
			AIUsed:               result.Metadata.AIUsed,
			RequiresManualReview: result.Metadata.RequiresManualReview,
		}
		if err := s.storage.DB.WithContext(ctx).Create(record).Error; err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeDB)
			logger.Warn().Err(err).Str("resume_id", resumeID).Msg("简历记录落库失败")
		}
	}
}

// embedAndIndex 向量化简历并写入Qdrant，失败只告警
func (s *ResumeService) embedAndIndex(ctx context.Context, span trace.Span, resumeID, text string, result *types.ParseResult) {
	if s.storage.Qdrant == nil {
		return
	}

	embedResult := s.router.Execute(ctx, &types.TaskRequest{
		Task: types.TaskEmbedText,
		Text: text,
	})
	if !embedResult.Success {
		logger.Warn().Str("error", embedResult.Error).Msg("简历向量化失败，跳过索引")
		return
	}
	vector, ok := embedResult.Data.([]float32)
	if !ok {
		logger.Warn().Msg("向量化结果类型异常，跳过索引")
		return
	}

	payload := map[string]any{
		"resume_id":          resumeID,
		"name":               result.ParsedResume.Name,
		"skill_count":        len(result.ParsedResume.Skills),
		"overall_confidence": result.Metadata.OverallConfidence,
	}
	if err := s.storage.Qdrant.UpsertEmbedding(ctx, resumeID, vector, payload); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
		logger.Warn().Err(err).Str("resume_id", resumeID).Msg("写入向量索引失败")
	}
}

// publishEvent 发布解析完成事件，失败只告警
func (s *ResumeService) publishEvent(ctx context.Context, span trace.Span, resumeID string, result *types.ParseResult) {
	if s.storage.RabbitMQ == nil {
		return
	}

	event := &storage.ResumeParsedEvent{
		ResumeID:             resumeID,
		Name:                 result.ParsedResume.Name,
		OverallConfidence:    result.Metadata.OverallConfidence,
		AIUsed:               result.Metadata.AIUsed,
		RequiresManualReview: result.Metadata.RequiresManualReview,
		SkillCount:           len(result.ParsedResume.Skills),
		ParsedAt:             time.Now(),
	}
	if err := s.storage.RabbitMQ.PublishResumeParsed(ctx, event); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeMQ)
		logger.Warn().Err(err).Str("resume_id", resumeID).Msg("发布解析完成事件失败")
	}
}

func textMD5(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
