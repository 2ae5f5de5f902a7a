package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resume-intel-go/internal/types"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// HostedLLMProvider 托管LLM适配器。
// 通过注入的聊天模型发起生成请求，并从生成文本中防御性提取JSON。
type HostedLLMProvider struct {
	chatModel model.ToolCallingChatModel
}

// NewHostedLLMProvider 创建托管LLM适配器。
// chatModel为nil表示凭据未配置，所有调用返回ErrLLMNotConfigured。
func NewHostedLLMProvider(chatModel model.ToolCallingChatModel) *HostedLLMProvider {
	return &HostedLLMProvider{chatModel: chatModel}
}

// Name 实现Adapter接口
func (p *HostedLLMProvider) Name() string {
	return string(types.ProviderHostedLLM)
}

// Invoke 实现Adapter接口，按任务类型分发
func (p *HostedLLMProvider) Invoke(ctx context.Context, req *types.TaskRequest) (any, error) {
	switch req.Task {
	case types.TaskLearningResources:
		return p.GenerateLearningResources(ctx, req.Labels)
	case types.TaskQuizGenerate:
		difficulty, count := quizParams(req.Params)
		return p.GenerateQuiz(ctx, req.Text, req.Labels, difficulty, count)
	default:
		return nil, fmt.Errorf("托管LLM不支持任务类型: %s", req.Task)
	}
}

// generate 发起一次生成请求并返回原始文本
func (p *HostedLLMProvider) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if p.chatModel == nil {
		return "", ErrLLMNotConfigured
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}

	resp, err := p.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// GenerateLearningResources 为给定技能列表生成学习资源推荐
func (p *HostedLLMProvider) GenerateLearningResources(ctx context.Context, skills []string) ([]types.LearningResource, error) {
	systemPrompt := "你是一名技术学习顾问。只输出JSON数组，不要输出其他内容。"
	userPrompt := fmt.Sprintf(
		`为以下技能各推荐1-2个学习资源，输出JSON数组，每个元素格式为
{"skill":"...","title":"...","url":"...","type":"course|doc|video|book"}。
技能列表: %s`, strings.Join(skills, ", "))

	raw, err := p.generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	block, err := ExtractJSONBlock(raw)
	if err != nil {
		return nil, err
	}

	var resources []types.LearningResource
	if err := json.Unmarshal([]byte(block), &resources); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if len(resources) == 0 {
		return nil, fmt.Errorf("%w: 资源列表为空", ErrMalformedJSON)
	}
	return resources, nil
}

// GenerateQuiz 围绕主题与技能生成指定难度和数量的选择题
func (p *HostedLLMProvider) GenerateQuiz(ctx context.Context, topic string, skills []string, difficulty string, count int) (*types.QuizSet, error) {
	systemPrompt := "你是一名技术面试出题人。只输出JSON对象，不要输出其他内容。"
	userPrompt := fmt.Sprintf(
		`围绕主题"%s"出%d道单选题，难度为%s，侧重以下技能: %s。
每道题附上正确选项的简短解析。输出JSON对象，格式为
{"questions":[{"question":"...","options":["A","B","C","D"],"answer_index":0,"explanation":"..."}]}。`,
		topic, count, difficulty, strings.Join(skills, ", "))

	raw, err := p.generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	block, err := ExtractJSONBlock(raw)
	if err != nil {
		return nil, err
	}

	var set types.QuizSet
	if err := json.Unmarshal([]byte(block), &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("%w: 题目列表为空", ErrMalformedJSON)
	}
	set.Topic = topic
	return &set, nil
}

// BackfillResumeFields 让LLM从简历文本中补全指定的缺失字段。
// 返回字段名到原始JSON值的映射，由解析器按字段类型消费。
func (p *HostedLLMProvider) BackfillResumeFields(ctx context.Context, resumeText string, missingFields []string) (map[string]json.RawMessage, error) {
	systemPrompt := "你是一个简历信息抽取引擎。只输出JSON对象，不要输出解释文字。"
	userPrompt := fmt.Sprintf(
		`从下面的简历文本中抽取这些字段: %s。
输出一个JSON对象，键为字段名。字符串字段输出字符串，列表字段输出字符串数组，
experience字段输出 [{"title":"...","company":"...","duration":"...","description":"..."}]。
无法确定的字段省略。

简历文本:
%s`, strings.Join(missingFields, ", "), resumeText)

	raw, err := p.generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	block, err := ExtractJSONBlock(raw)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(block), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return fields, nil
}
