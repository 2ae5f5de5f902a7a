package ai

import (
	"testing"

	"resume-intel-go/internal/vocab"

	"github.com/stretchr/testify/assert"
)

func TestKeywordMatchSkills(t *testing.T) {
	p := NewKeywordProvider(vocab.Default())

	skills := p.MatchSkills("Senior engineer with Python, React and Kubernetes experience")

	assert.Contains(t, skills, "Python")
	assert.Contains(t, skills, "React")
	assert.Contains(t, skills, "Kubernetes")
	assert.NotContains(t, skills, "Java")
}

func TestKeywordMatchWordBoundary(t *testing.T) {
	p := NewKeywordProvider(vocab.Default())

	// "javascript"不应让"java"命中
	skills := p.MatchSkills("JavaScript developer")
	assert.Contains(t, skills, "JavaScript")
	assert.NotContains(t, skills, "Java")
}

func TestKeywordClassifyNeverFails(t *testing.T) {
	p := NewKeywordProvider(vocab.Default())

	scores := p.ClassifySkills("", nil)
	assert.NotNil(t, scores)
	assert.Empty(t, scores)

	scores = p.ClassifySkills("golang and redis", []string{"golang", "redis", "hadoop"})
	assert.Equal(t, 0.7, scores["golang"])
	assert.Equal(t, 0.7, scores["redis"])
	assert.Equal(t, 0.0, scores["hadoop"])
}

func TestKeywordClassifyEmptyLabel(t *testing.T) {
	p := NewKeywordProvider(vocab.Default())

	// 空标签可以从HTTP请求体传进来，不应越界panic
	scores := p.ClassifySkills("We need a Python developer", []string{"python", ""})
	assert.Equal(t, 0.7, scores["python"])
	assert.Equal(t, 0.0, scores[""])
}

func TestKeywordMatchDedupesSynonyms(t *testing.T) {
	p := NewKeywordProvider(vocab.Default())

	// golang与go都规范化为Go，只应出现一次
	skills := p.MatchSkills("golang developer, loves go")

	count := 0
	for _, s := range skills {
		if s == "Go" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
