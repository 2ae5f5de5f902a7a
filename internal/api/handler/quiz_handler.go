package handler

import (
	"context"
	"fmt"

	"resume-intel-go/internal/quiz"
)

// QuizHandler 技能测验处理器。
// 对外只返回客户端视图，正确答案与解析在完成判分前不出服务端。
type QuizHandler struct {
	svc *quiz.Service
}

// NewQuizHandler 创建测验处理器
func NewQuizHandler(svc *quiz.Service) *QuizHandler {
	return &QuizHandler{svc: svc}
}

// Generate 生成一套新测验
func (h *QuizHandler) Generate(ctx context.Context, topic string, skills []string, difficulty string, count int) (*quiz.View, error) {
	if topic == "" {
		return nil, fmt.Errorf("测验主题为空")
	}
	record, err := h.svc.Generate(ctx, topic, skills, difficulty, count)
	if err != nil {
		return nil, err
	}
	return record.ClientView(), nil
}

// Get 读取测验记录
func (h *QuizHandler) Get(ctx context.Context, quizID string) (*quiz.View, error) {
	record, err := h.svc.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return record.ClientView(), nil
}

// Start 开始作答
func (h *QuizHandler) Start(ctx context.Context, quizID string) (*quiz.View, error) {
	record, err := h.svc.Start(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return record.ClientView(), nil
}

// Submit 提交答案并计分，返回含判分明细的视图
func (h *QuizHandler) Submit(ctx context.Context, quizID string, answers []int) (*quiz.View, error) {
	record, err := h.svc.Submit(ctx, quizID, answers)
	if err != nil {
		return nil, err
	}
	return record.ClientView(), nil
}
