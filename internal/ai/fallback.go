package ai

import (
	"fmt"

	"resume-intel-go/internal/constants"
	"resume-intel-go/internal/types"
)

// 降级内容附带的提示语，让调用方知道质量有所下降
const fallbackQualityNote = "内容由降级生成器产生，建议稍后重试以获得更好结果"

// StaticFallback 静态模板降级生成器。
// 不是提供方调用，输出确定性的占位内容并标注质量下降。
type StaticFallback struct{}

// NewStaticFallback 创建降级生成器
func NewStaticFallback() *StaticFallback {
	return &StaticFallback{}
}

// EmptyEntities NER任务的降级结果：空实体列表。
// 不为NER配关键词适配器，因为模式抽取已覆盖同样的技能来源。
func (f *StaticFallback) EmptyEntities() []types.NEREntity {
	return []types.NEREntity{}
}

// LearningResources 为每项技能生成确定性的占位学习资源
func (f *StaticFallback) LearningResources(skills []string) []types.LearningResource {
	resources := make([]types.LearningResource, 0, len(skills))
	for _, skill := range skills {
		resources = append(resources, types.LearningResource{
			Skill: skill,
			Title: fmt.Sprintf("%s 官方文档", skill),
			URL:   "https://www.google.com/search?q=" + skill + "+official+documentation",
			Type:  "doc",
			Note:  fallbackQualityNote,
		})
	}
	return resources
}

// Quiz 生成确定性的占位题目集合，数量与请求的count一致。
// 题目按技能轮转，技能轮完一遍后换用第二套模板避免整题重复。
func (f *StaticFallback) Quiz(topic string, skills []string, count int) *types.QuizSet {
	if count <= 0 {
		count = constants.DefaultQuizQuestionCount
	}

	questions := make([]types.QuizQuestion, 0, count)
	for i := 0; i < count; i++ {
		subject := topic
		if len(skills) > 0 {
			subject = skills[i%len(skills)]
		}

		if len(skills) == 0 || i < len(skills) {
			questions = append(questions, types.QuizQuestion{
				Question: fmt.Sprintf("以下哪项是 %s 的典型应用场景？", subject),
				Options: []string{
					fmt.Sprintf("在生产项目中使用 %s", subject),
					"仅用于学术研究",
					"已被完全淘汰",
					"与软件开发无关",
				},
				AnswerIndex: 0,
				Explanation: fmt.Sprintf("%s 是实际工程中使用的技术", subject),
			})
		} else {
			questions = append(questions, types.QuizQuestion{
				Question: fmt.Sprintf("学习 %s 时，下列哪种做法更合理？", subject),
				Options: []string{
					"结合官方文档与实际项目练习",
					"只背诵面试题",
					"跳过基础直接上手",
					"完全依赖他人代码",
				},
				AnswerIndex: 0,
				Explanation: "文档加实践是掌握一项技术的常规路径",
			})
		}
	}

	return &types.QuizSet{
		Topic:     topic,
		Questions: questions,
		Note:      fallbackQualityNote,
	}
}
