package ai

import (
	"testing"

	"resume-intel-go/internal/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterEntitiesKeepsAllowedGroups(t *testing.T) {
	raw := []nlp.RawEntity{
		{Word: "Python", EntityGroup: "MISC", Score: 0.9},
		{Word: "Google", EntityGroup: "ORG", Score: 0.8},
		{Word: "张三", EntityGroup: "PER", Score: 0.85},
		{Word: "Monday", EntityGroup: "DATE", Score: 0.99},
		{Word: "Beijing", EntityGroup: "LOC", Score: 0.99},
	}

	filtered := FilterEntities(raw)
	require.Len(t, filtered, 3)
	assert.Equal(t, "Python", filtered[0].Text)
	assert.Equal(t, "Google", filtered[1].Text)
	assert.Equal(t, "张三", filtered[2].Text)
}

func TestFilterEntitiesScoreThreshold(t *testing.T) {
	raw := []nlp.RawEntity{
		{Word: "Kubernetes", EntityGroup: "MISC", Score: 0.66},
		{Word: "Rust", EntityGroup: "MISC", Score: 0.64},
	}

	filtered := FilterEntities(raw)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Kubernetes", filtered[0].Text)
}

func TestFilterEntitiesStripsSubwordMarkers(t *testing.T) {
	raw := []nlp.RawEntity{
		{Word: "##Script", EntityGroup: "MISC", Score: 0.9},
	}

	filtered := FilterEntities(raw)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Script", filtered[0].Text)
}

func TestFilterEntitiesDedupesCaseInsensitive(t *testing.T) {
	raw := []nlp.RawEntity{
		{Word: "Python", EntityGroup: "MISC", Score: 0.9},
		{Word: "python", EntityGroup: "MISC", Score: 0.8},
		{Word: "PYTHON", EntityGroup: "ORG", Score: 0.95},
	}

	filtered := FilterEntities(raw)
	assert.Len(t, filtered, 1)
}

func TestFilterEntitiesDropsSingleCharacter(t *testing.T) {
	raw := []nlp.RawEntity{
		{Word: "C", EntityGroup: "MISC", Score: 0.9},
		{Word: "#", EntityGroup: "MISC", Score: 0.9},
		{Word: "Go", EntityGroup: "MISC", Score: 0.9},
	}

	filtered := FilterEntities(raw)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Go", filtered[0].Text)
}
