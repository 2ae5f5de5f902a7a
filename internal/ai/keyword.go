package ai

import (
	"context"
	"strings"

	"resume-intel-go/internal/types"
	"resume-intel-go/internal/vocab"
)

// KeywordProvider 关键词启发式适配器。
// 无网络无子进程，对照静态技术词表做匹配，永不失败，是降级链的兜底终点。
type KeywordProvider struct {
	vocab *vocab.Vocab
}

// NewKeywordProvider 创建关键词适配器
func NewKeywordProvider(v *vocab.Vocab) *KeywordProvider {
	return &KeywordProvider{vocab: v}
}

// Name 实现Adapter接口
func (p *KeywordProvider) Name() string {
	return string(types.ProviderKeyword)
}

// Invoke 实现Adapter接口。错误返回值恒为nil。
func (p *KeywordProvider) Invoke(ctx context.Context, req *types.TaskRequest) (any, error) {
	switch req.Task {
	case types.TaskJobSkillClassify:
		return p.ClassifySkills(req.Text, req.Labels), nil
	default:
		return p.MatchSkills(req.Text), nil
	}
}

// MatchSkills 返回文本中出现的所有已知技术词
func (p *KeywordProvider) MatchSkills(text string) []string {
	lower := strings.ToLower(text)
	matched := make([]string, 0, 8)
	seen := make(map[string]bool)

	for _, kw := range p.vocab.Keywords() {
		k := strings.ToLower(kw)
		if !containsToken(lower, k) {
			continue
		}
		canonical := p.vocab.Canonical(kw)
		key := strings.ToLower(canonical)
		if seen[key] {
			continue
		}
		seen[key] = true
		matched = append(matched, canonical)
	}
	return matched
}

// ClassifySkills 给每个候选标签打分：标签文本出现在输入中记0.7，否则0。
// 分数是出现性启发而非语义判断，仅用于降级场景。
func (p *KeywordProvider) ClassifySkills(text string, labels []string) map[string]float64 {
	lower := strings.ToLower(text)
	scores := make(map[string]float64, len(labels))
	for _, label := range labels {
		if containsToken(lower, strings.ToLower(label)) {
			scores[label] = 0.7
		} else {
			scores[label] = 0.0
		}
	}
	return scores
}

// containsToken 按词边界匹配，避免"java"误中"javascript"。
// 空needle视为不匹配，否则扫描索引会越界。
func containsToken(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	idx := 0
	for {
		pos := strings.Index(haystack[idx:], needle)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(needle)

		beforeOK := start == 0 || !isWordChar(haystack[start-1])
		afterOK := end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
