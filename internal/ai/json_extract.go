package ai

import (
	"fmt"
	"regexp"
	"strings"
)

var jsonFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*([\\[{].*?[\\]}])\\s*```")

// ExtractJSONBlock 从LLM生成的文本中定位第一个JSON对象或数组。
// LLM常把JSON包在说明文字或代码围栏里：优先取```json围栏内的内容，
// 否则在{...}与[...]两种配平块中取起始位置更早的那个。
// 数组结果（如资源列表）常被包在说明文字里，若固定先取对象块，
// 会把数组里的首个元素当成结果返回。
// 找不到返回ErrNoJSONInResponse。
func ExtractJSONBlock(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: 响应为空", ErrNoJSONInResponse)
	}

	if matches := jsonFenceRegex.FindStringSubmatch(trimmed); len(matches) > 1 {
		return strings.TrimSpace(matches[1]), nil
	}

	objBlock := scanBalanced(trimmed, '{', '}')
	arrBlock := scanBalanced(trimmed, '[', ']')
	switch {
	case objBlock == "" && arrBlock == "":
		return "", ErrNoJSONInResponse
	case objBlock == "":
		return arrBlock, nil
	case arrBlock == "":
		return objBlock, nil
	case strings.IndexByte(trimmed, '[') < strings.IndexByte(trimmed, '{'):
		return arrBlock, nil
	default:
		return objBlock, nil
	}
}

// scanBalanced 从首个开括号起按嵌套层级扫描，返回配平的子串。
// 跳过字符串字面量内部的括号与转义字符。
func scanBalanced(text string, openCh, closeCh byte) string {
	start := strings.IndexByte(text, openCh)
	if start < 0 {
		return ""
	}

	level := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == openCh:
			level++
		case c == closeCh:
			level--
			if level == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
