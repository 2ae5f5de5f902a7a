package ai

import (
	"context"
	"fmt"
	"strings"

	"resume-intel-go/internal/constants"
	"resume-intel-go/internal/nlp"
	"resume-intel-go/internal/types"
)

// 通用NER模型容易把技术名词误标成这几类，全部保留再靠分数过滤
var allowedEntityGroups = map[string]bool{
	"MISC": true,
	"ORG":  true,
	"PER":  true,
}

// LocalNLPProvider 本地NLP适配器，按任务提示分发到对应的工作脚本
type LocalNLPProvider struct {
	invoker *nlp.Invoker
}

// NewLocalNLPProvider 创建本地NLP适配器
func NewLocalNLPProvider(invoker *nlp.Invoker) *LocalNLPProvider {
	return &LocalNLPProvider{invoker: invoker}
}

// Name 实现Adapter接口
func (p *LocalNLPProvider) Name() string {
	return string(types.ProviderLocalNLP)
}

// Invoke 实现Adapter接口
func (p *LocalNLPProvider) Invoke(ctx context.Context, req *types.TaskRequest) (any, error) {
	switch req.Task {
	case types.TaskSkillNER:
		return p.ExtractEntities(ctx, req.Text)
	case types.TaskJobSkillClassify:
		return p.Classify(ctx, req.Text, req.Labels)
	case types.TaskEmbedText:
		return p.Embed(ctx, req.Text)
	default:
		return nil, fmt.Errorf("本地NLP不支持任务类型: %s", req.Task)
	}
}

// ExtractEntities 执行NER并应用领域过滤
func (p *LocalNLPProvider) ExtractEntities(ctx context.Context, text string) ([]types.NEREntity, error) {
	raw, err := p.invoker.RunNER(ctx, text)
	if err != nil {
		return nil, err
	}
	return FilterEntities(raw), nil
}

// Classify 执行零样本分类
func (p *LocalNLPProvider) Classify(ctx context.Context, text string, labels []string) (map[string]float64, error) {
	return p.invoker.RunClassify(ctx, text, labels)
}

// Embed 执行文本向量化
func (p *LocalNLPProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.invoker.RunEmbed(ctx, text)
}

// FilterEntities 对NER原始输出做领域过滤：
// 只保留MISC/ORG/PER三类；分数阈值0.65（刻意低于模型自身的高精度阈值，
// 简历里的技能常是生僻词，模型给分偏低，偏向召回）；
// 去掉子词延续标记"##"；大小写不敏感去重；丢弃单字符。
func FilterEntities(raw []nlp.RawEntity) []types.NEREntity {
	seen := make(map[string]bool)
	result := make([]types.NEREntity, 0, len(raw))

	for _, e := range raw {
		if !allowedEntityGroups[e.EntityGroup] {
			continue
		}
		if e.Score < constants.NEREntityScoreThreshold {
			continue
		}

		word := strings.TrimSpace(strings.ReplaceAll(e.Word, "##", ""))
		if len([]rune(word)) <= 1 {
			continue
		}

		key := strings.ToLower(word)
		if seen[key] {
			continue
		}
		seen[key] = true

		result = append(result, types.NEREntity{
			Text:  word,
			Group: e.EntityGroup,
			Score: e.Score,
		})
	}
	return result
}
