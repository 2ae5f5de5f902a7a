package handler

import (
	"context"
	"fmt"

	"resume-intel-go/internal/ai"
	"resume-intel-go/internal/types"
)

// SkillHandler 技能分类与学习资源处理器，直接委托AI路由器
type SkillHandler struct {
	router *ai.Router
}

// NewSkillHandler 创建技能处理器
func NewSkillHandler(router *ai.Router) *SkillHandler {
	return &SkillHandler{router: router}
}

// ClassifyJobSkills 对岗位描述做技能零样本分类。
// 路由器自带降级链，结果信封恒可用。
func (h *SkillHandler) ClassifyJobSkills(ctx context.Context, description string, labels []string) (*types.AIRouterResult, error) {
	if description == "" {
		return nil, fmt.Errorf("岗位描述为空")
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("候选技能标签为空")
	}

	return h.router.Execute(ctx, &types.TaskRequest{
		Task:   types.TaskJobSkillClassify,
		Text:   description,
		Labels: labels,
	}), nil
}

// LearningResources 为技能列表生成学习资源
func (h *SkillHandler) LearningResources(ctx context.Context, skills []string) (*types.AIRouterResult, error) {
	if len(skills) == 0 {
		return nil, fmt.Errorf("技能列表为空")
	}

	return h.router.Execute(ctx, &types.TaskRequest{
		Task:   types.TaskLearningResources,
		Labels: skills,
	}), nil
}
