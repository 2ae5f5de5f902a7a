package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resume-intel-go/internal/constants"
	"resume-intel-go/internal/logger"
	"resume-intel-go/internal/storage/models"
	"resume-intel-go/internal/types"

	"github.com/gofrs/uuid/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// generator 测验题目生成依赖面（AI路由器）
type generator interface {
	Execute(ctx context.Context, req *types.TaskRequest) *types.AIRouterResult
}

// recordStore 测验记录的短期存储依赖面（Redis）
type recordStore interface {
	SaveQuizJSON(ctx context.Context, quizID string, value any) error
	LoadQuizJSON(ctx context.Context, quizID string, out any) (bool, error)
}

// Service 测验服务。
// 进行中的记录存Redis带过期时间，完成后归档到MySQL。
type Service struct {
	gen   generator
	store recordStore
	db    *gorm.DB
}

// NewService 创建测验服务。db可为nil，此时跳过归档。
func NewService(gen generator, store recordStore, db *gorm.DB) *Service {
	return &Service{gen: gen, store: store, db: db}
}

// Generate 生成一套新测验。
// difficulty为空、count非正时用默认值，count超上限时钳制。
func (s *Service) Generate(ctx context.Context, topic string, skills []string, difficulty string, count int) (*Record, error) {
	if difficulty == "" {
		difficulty = constants.DefaultQuizDifficulty
	}
	if count <= 0 {
		count = constants.DefaultQuizQuestionCount
	}
	if count > constants.MaxQuizQuestionCount {
		count = constants.MaxQuizQuestionCount
	}

	result := s.gen.Execute(ctx, &types.TaskRequest{
		Task:   types.TaskQuizGenerate,
		Text:   topic,
		Labels: skills,
		Params: map[string]any{"difficulty": difficulty, "count": count},
	})
	if !result.Success {
		return nil, fmt.Errorf("生成测验失败: %s", result.Error)
	}

	set, ok := result.Data.(*types.QuizSet)
	if !ok || len(set.Questions) == 0 {
		return nil, fmt.Errorf("生成测验失败: 结果为空")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成测验ID失败: %w", err)
	}

	record := &Record{
		ID:           id.String(),
		Topic:        topic,
		Skills:       skills,
		Difficulty:   difficulty,
		Questions:    set.Questions,
		State:        StateGenerated,
		FromFallback: result.Fallback,
		Note:         set.Note,
		CreatedAt:    time.Now(),
	}

	if err := s.store.SaveQuizJSON(ctx, record.ID, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get 读取测验记录
func (s *Service) Get(ctx context.Context, quizID string) (*Record, error) {
	var record Record
	found, err := s.store.LoadQuizJSON(ctx, quizID, &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &record, nil
}

// Start 开始作答，generated -> in_progress
func (s *Service) Start(ctx context.Context, quizID string) (*Record, error) {
	record, err := s.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if err := record.transition(StateInProgress); err != nil {
		return nil, err
	}
	record.StartedAt = time.Now()

	if err := s.store.SaveQuizJSON(ctx, record.ID, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Submit 提交答案并计分，进入终态completed。
// 对已完成的测验再次提交返回ErrAlreadyCompleted。
func (s *Service) Submit(ctx context.Context, quizID string, answers []int) (*Record, error) {
	record, err := s.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}

	// 允许跳过显式Start直接提交
	if record.State == StateGenerated {
		if err := record.transition(StateInProgress); err != nil {
			return nil, err
		}
		record.StartedAt = time.Now()
	}

	if err := record.transition(StateCompleted); err != nil {
		return nil, err
	}

	record.Answers = answers
	record.Score, record.Results = record.grade(answers)
	record.CompletedAt = time.Now()
	if !record.StartedAt.IsZero() {
		record.TimeSpentSeconds = int64(record.CompletedAt.Sub(record.StartedAt).Seconds())
	}

	if err := s.store.SaveQuizJSON(ctx, record.ID, record); err != nil {
		return nil, err
	}

	s.archive(record)
	return record, nil
}

// archive 将完成的测验归档到MySQL，失败只告警
func (s *Service) archive(record *Record) {
	if s.db == nil {
		return
	}

	questions, err := json.Marshal(record.Questions)
	if err != nil {
		logger.Warn().Err(err).Msg("序列化测验题目失败，跳过归档")
		return
	}
	answers, err := json.Marshal(record.Answers)
	if err != nil {
		logger.Warn().Err(err).Msg("序列化测验答案失败，跳过归档")
		return
	}

	attempt := &models.QuizAttempt{
		ID:           record.ID,
		Topic:        record.Topic,
		Difficulty:   record.Difficulty,
		Questions:    datatypes.JSON(questions),
		Answers:      datatypes.JSON(answers),
		Score:        record.Score,
		Total:        len(record.Questions),
		FromFallback: record.FromFallback,
		CompletedAt:  record.CompletedAt,
	}
	if err := s.db.Create(attempt).Error; err != nil {
		logger.Warn().Err(err).Str("quiz_id", record.ID).Msg("归档测验记录失败")
	}
}
