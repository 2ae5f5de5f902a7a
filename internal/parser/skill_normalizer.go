// Package parser 实现混合简历解析流水线与技能规范化。
package parser

import (
	"strings"

	"resume-intel-go/internal/types"
	"resume-intel-go/internal/vocab"
)

// SkillNormalizer 技能清洗器：同义词归一、噪声过滤、上下文停用词过滤。
type SkillNormalizer struct {
	vocab *vocab.Vocab
}

// NewSkillNormalizer 创建技能清洗器
func NewSkillNormalizer(v *vocab.Vocab) *SkillNormalizer {
	return &SkillNormalizer{vocab: v}
}

// Clean 清洗候选技能列表。
// 上下文停用词由记录自身的姓名与教育字段构造，
// 防止院校名或本人姓名混进技能列表。
// 输出按规范名大小写不敏感去重，数量不超过maxSkills。
func (n *SkillNormalizer) Clean(candidates []string, record *types.ParsedResumeRecord, maxSkills int) []string {
	stopwords := n.contextStopwords(record)

	cleaned := make([]string, 0, len(candidates))
	seen := make(map[string]bool)

	for _, candidate := range candidates {
		token := strings.TrimSpace(candidate)
		if token == "" {
			continue
		}

		lower := strings.ToLower(token)
		if stopwords[lower] {
			continue
		}
		if n.vocab.IsNoise(lower) {
			continue
		}
		if !n.accepts(token) {
			continue
		}

		canonical := n.vocab.Canonical(token)
		key := strings.ToLower(canonical)
		if seen[key] {
			continue
		}
		seen[key] = true

		cleaned = append(cleaned, canonical)
		if maxSkills > 0 && len(cleaned) >= maxSkills {
			break
		}
	}
	return cleaned
}

// accepts 未知token的放行规则：同义词表命中、已知关键词、
// 含技术关键词子串，或在短token放行名单内；否则丢弃。
func (n *SkillNormalizer) accepts(token string) bool {
	lower := strings.ToLower(token)
	if n.vocab.Canonical(token) != strings.TrimSpace(token) {
		return true
	}
	if n.vocab.IsKeyword(lower) {
		return true
	}
	if n.vocab.IsAllowedShort(lower) {
		return true
	}
	return n.vocab.HasTechSubstring(token)
}

// contextStopwords 从记录自身字段构造停用词：姓名分词、院校名、学位、专业
func (n *SkillNormalizer) contextStopwords(record *types.ParsedResumeRecord) map[string]bool {
	stopwords := make(map[string]bool)
	if record == nil {
		return stopwords
	}

	addWords := func(s string) {
		s = strings.TrimSpace(strings.ToLower(s))
		if s == "" {
			return
		}
		stopwords[s] = true
		for _, w := range strings.Fields(s) {
			if len([]rune(w)) > 1 {
				stopwords[w] = true
			}
		}
	}

	addWords(record.Name)
	for _, edu := range record.Education {
		addWords(edu.Institution)
		addWords(edu.Degree)
		addWords(edu.Field)
	}
	return stopwords
}
