// Package extractor 提供基于模式规则的简历字段快速抽取。
// 每个抽取器是纯函数 text -> {value, confidence}，互相独立，
// 置信度不足的值由调用方丢弃，视作缺失而非错误。
package extractor

import (
	"strconv"
	"strings"

	"resume-intel-go/internal/types"
	"resume-intel-go/internal/vocab"
)

// StringField 单值字段抽取结果
type StringField struct {
	Value      string
	Confidence float64
}

// ListField 多值字段抽取结果
type ListField struct {
	Values     []string
	Confidence float64
}

// ExtractEmails 抽取全部邮箱地址
func ExtractEmails(text string) ListField {
	matches := emailRegex.FindAllString(text, -1)
	emails := dedupeLower(matches)
	if len(emails) == 0 {
		return ListField{}
	}
	return ListField{Values: emails, Confidence: 0.95}
}

// ExtractPhones 抽取并归一化电话号码。
// 归一化只保留数字和前导加号，去掉分隔符。
func ExtractPhones(text string) ListField {
	candidates := phoneRegex.FindAllString(text, -1)

	var phones []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		normalized := normalizePhone(c)
		digits := strings.TrimPrefix(normalized, "+")
		// 7位以下是日期/编号之类的误匹配，15位以上不是电话
		if len(digits) < 7 || len(digits) > 15 {
			continue
		}
		// "2019-2023"这类年份区间会被电话模式误中
		if yearRangeRegex.MatchString(digits) {
			continue
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		phones = append(phones, normalized)
	}

	if len(phones) == 0 {
		return ListField{}
	}
	return ListField{Values: phones, Confidence: 0.95}
}

func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var sb strings.Builder
	for i, r := range raw {
		if r == '+' && i == 0 {
			sb.WriteRune('+')
		} else if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ExtractURLs 抽取全部链接
func ExtractURLs(text string) ListField {
	matches := urlRegex.FindAllString(text, -1)
	var urls []string
	seen := make(map[string]bool)
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;")
		key := strings.ToLower(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		urls = append(urls, m)
	}
	if len(urls) == 0 {
		return ListField{}
	}
	return ListField{Values: urls, Confidence: 0.90}
}

// ExtractName 姓名启发式：扫描开头几行，找首字母大写的单词序列或独立的汉字姓名。
// 越靠前置信度越高，区间0.80-0.95。
func ExtractName(text string) StringField {
	lines := headLines(text, 6)
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.ContainsAny(line, "@0123456789") {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "resume") || strings.Contains(lower, "curriculum") ||
			strings.Contains(lower, "简历") {
			continue
		}
		if hasTitleKeyword(lower) {
			continue
		}

		if latinNameRegex.MatchString(line) || hanNameRegex.MatchString(line) {
			confidence := 0.95 - float64(i)*0.03
			if confidence < 0.80 {
				confidence = 0.80
			}
			return StringField{Value: line, Confidence: confidence}
		}
	}
	return StringField{}
}

// ExtractLocation 地点启发式，固定置信度0.88
func ExtractLocation(text string) StringField {
	if m := locationLabelRegex.FindStringSubmatch(text); len(m) > 1 {
		value := strings.TrimSpace(m[1])
		if idx := strings.IndexAny(value, "|•\n"); idx > 0 {
			value = strings.TrimSpace(value[:idx])
		}
		if value != "" {
			return StringField{Value: value, Confidence: 0.88}
		}
	}
	if m := cityStateRegex.FindStringSubmatch(text); len(m) > 2 {
		return StringField{Value: m[1] + ", " + m[2], Confidence: 0.88}
	}
	return StringField{}
}

// ExtractTitle 当前职位启发式：开头几行中含职位关键词的最短行，固定置信度0.75
func ExtractTitle(text string) StringField {
	lines := headLines(text, 10)
	best := ""
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || len([]rune(line)) > 60 {
			continue
		}
		if !hasTitleKeyword(strings.ToLower(line)) {
			continue
		}
		if best == "" || len(line) < len(best) {
			best = line
		}
	}
	if best == "" {
		return StringField{}
	}
	return StringField{Value: best, Confidence: 0.75}
}

// ExtractYearsExperience 解析工作年限，取文本中出现的最大值
func ExtractYearsExperience(text string) (float64, float64) {
	matches := yearsRegex.FindAllStringSubmatch(strings.ToLower(text), -1)
	var best float64
	for _, m := range matches {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > best && v < 60 {
			best = v
		}
	}
	if best == 0 {
		return 0, 0
	}
	return best, 0.85
}

// ExtractEducation 学历关键词抽取
func ExtractEducation(text string) ([]types.Education, float64) {
	var entries []types.Education
	seen := make(map[string]bool)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		degree := matchDegree(line)
		institution := ""
		if m := institutionRegex.FindStringSubmatch(line); len(m) > 1 {
			institution = strings.TrimSpace(m[1])
		}
		if degree == "" && institution == "" {
			continue
		}

		year := ""
		if m := gradYearRegex.FindStringSubmatch(line); len(m) > 1 {
			year = m[1]
		}

		key := strings.ToLower(degree + "|" + institution)
		if seen[key] {
			continue
		}
		seen[key] = true

		entries = append(entries, types.Education{
			Degree:      degree,
			Institution: institution,
			Year:        year,
		})
	}

	if len(entries) == 0 {
		return nil, 0
	}
	return entries, 0.80
}

// ExtractSkills 对照技能词表抽取，固定置信度0.70
func ExtractSkills(text string, v *vocab.Vocab) ListField {
	lower := strings.ToLower(text)
	var skills []string
	seen := make(map[string]bool)

	for _, kw := range v.Keywords() {
		if !containsWord(lower, strings.ToLower(kw)) {
			continue
		}
		canonical := v.Canonical(kw)
		key := strings.ToLower(canonical)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, canonical)
	}

	if len(skills) == 0 {
		return ListField{}
	}
	return ListField{Values: skills, Confidence: 0.70}
}

func matchDegree(line string) string {
	for _, dk := range degreeKeywords {
		if dk.pattern.MatchString(line) {
			return dk.degree
		}
	}
	return ""
}

func hasTitleKeyword(lower string) bool {
	for _, kw := range titleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func headLines(text string, n int) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

func dedupeLower(items []string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, item := range items {
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, strings.ToLower(item))
	}
	return result
}

// containsWord 按词边界匹配关键词。空needle视为不匹配。
func containsWord(haystack, needle string) bool {
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

		beforeOK := start == 0 || !isAlnum(haystack[start-1])
		afterOK := end == len(haystack) || !isAlnum(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
