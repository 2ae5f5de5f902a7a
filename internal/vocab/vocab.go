// Package vocab 维护技能词表、同义词表与噪声词表。
// 词表是产品数据而非结构逻辑，默认词表编译进二进制，可用数据文件覆盖。
package vocab

import (
	"fmt"
	"os"
	"strings"

	"resume-intel-go/internal/config"

	"gopkg.in/yaml.v3"
)

// Vocab 技能词表集合。所有查询键均为小写。
type Vocab struct {
	keywords   []string
	keywordSet map[string]bool
	synonyms   map[string]string
	noise      map[string]bool
	shortOK    map[string]bool
}

// Load 加载词表，配置了覆盖文件时从文件读取，否则使用内置默认值。
// 关键词表与噪声词表为每行一个词的文本文件，同义词表为YAML映射。
func Load(cfg config.VocabConfig) (*Vocab, error) {
	v := &Vocab{
		keywords: defaultSkillKeywords(),
		synonyms: defaultSynonyms(),
		noise:    toSet(defaultNoiseTokens()),
		shortOK:  toSet(shortTokenAllowlist()),
	}

	if cfg.SkillKeywordsFile != "" {
		lines, err := readLines(cfg.SkillKeywordsFile)
		if err != nil {
			return nil, fmt.Errorf("加载技能关键词表失败: %w", err)
		}
		v.keywords = lines
	}

	if cfg.SkillSynonymsFile != "" {
		data, err := os.ReadFile(cfg.SkillSynonymsFile)
		if err != nil {
			return nil, fmt.Errorf("加载技能同义词表失败: %w", err)
		}
		synonyms := make(map[string]string)
		if err := yaml.Unmarshal(data, &synonyms); err != nil {
			return nil, fmt.Errorf("解析技能同义词表失败: %w", err)
		}
		normalized := make(map[string]string, len(synonyms))
		for variant, canonical := range synonyms {
			normalized[strings.ToLower(variant)] = canonical
		}
		v.synonyms = normalized
	}

	if cfg.NoiseTokensFile != "" {
		lines, err := readLines(cfg.NoiseTokensFile)
		if err != nil {
			return nil, fmt.Errorf("加载噪声词表失败: %w", err)
		}
		v.noise = toSet(lines)
	}

	v.keywordSet = make(map[string]bool, len(v.keywords))
	for _, kw := range v.keywords {
		v.keywordSet[strings.ToLower(kw)] = true
	}

	return v, nil
}

// Default 返回内置默认词表，用于测试
func Default() *Vocab {
	v, _ := Load(config.VocabConfig{})
	return v
}

// Keywords 返回全部技能关键词
func (v *Vocab) Keywords() []string {
	return v.keywords
}

// IsKeyword 判断token是否为已知技能关键词
func (v *Vocab) IsKeyword(token string) bool {
	return v.keywordSet[strings.ToLower(token)]
}

// Canonical 返回token的规范名。同义词表命中时返回规范名，否则原样返回。
func (v *Vocab) Canonical(token string) string {
	if canonical, ok := v.synonyms[strings.ToLower(strings.TrimSpace(token))]; ok {
		return canonical
	}
	return strings.TrimSpace(token)
}

// IsNoise 判断token是否为噪声词（院校、学位、项目类词汇）
func (v *Vocab) IsNoise(token string) bool {
	return v.noise[strings.ToLower(token)]
}

// IsAllowedShort 判断短token是否在显式放行名单内
func (v *Vocab) IsAllowedShort(token string) bool {
	return v.shortOK[strings.ToLower(token)]
}

// HasTechSubstring 判断token是否包含可识别的技术关键词子串
func (v *Vocab) HasTechSubstring(token string) bool {
	lower := strings.ToLower(token)
	for _, kw := range v.keywords {
		k := strings.ToLower(kw)
		if len(k) < 2 {
			continue
		}
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
