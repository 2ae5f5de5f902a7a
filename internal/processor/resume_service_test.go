package processor

import (
	"context"
	"fmt"
	"testing"

	"resume-intel-go/internal/storage"
	"resume-intel-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubParser 固定返回一份解析结果
type stubParser struct {
	calls int
}

func (p *stubParser) Parse(ctx context.Context, text string) *types.ParseResult {
	p.calls++
	return &types.ParseResult{
		Success: true,
		ParsedResume: &types.ParsedResumeRecord{
			Name:   "Jane Doe",
			Emails: []string{"jane@example.com"},
			Skills: []string{"Go", "Python"},
		},
		Metadata: &types.ParseMetadata{
			OverallConfidence: 0.8,
			FieldConfidences:  map[string]float64{},
			ExtractionMethods: map[string]types.ExtractionMethod{},
		},
	}
}

// stubRouter 固定返回向量化结果
type stubRouter struct {
	vector []float32
}

func (r *stubRouter) Execute(ctx context.Context, req *types.TaskRequest) *types.AIRouterResult {
	return &types.AIRouterResult{Success: true, Data: r.vector, Provider: types.ProviderLocalNLP}
}

func TestProcessTextWithoutBackends(t *testing.T) {
	p := &stubParser{}
	svc := NewResumeService(p, &stubRouter{vector: []float32{0.1, 0.2}}, &storage.Storage{})

	outcome, err := svc.ProcessText(context.Background(), "Jane Doe\njane@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, outcome.ResumeID)
	assert.False(t, outcome.Duplicate)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, "Jane Doe", outcome.Result.ParsedResume.Name)
	assert.Equal(t, 1, p.calls)
}

func TestProcessTextRejectsEmptyInput(t *testing.T) {
	svc := NewResumeService(&stubParser{}, &stubRouter{}, &storage.Storage{})

	_, err := svc.ProcessText(context.Background(), "")
	assert.Error(t, err)
}

func TestProcessTextUniqueIDs(t *testing.T) {
	svc := NewResumeService(&stubParser{}, &stubRouter{vector: []float32{0.1}}, &storage.Storage{})
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		outcome, err := svc.ProcessText(ctx, fmt.Sprintf("resume text %d", i))
		require.NoError(t, err)
		assert.False(t, seen[outcome.ResumeID], "简历ID不应重复")
		seen[outcome.ResumeID] = true
	}
}

func TestSearchSimilarWithoutQdrant(t *testing.T) {
	svc := NewResumeService(&stubParser{}, &stubRouter{vector: []float32{0.1}}, &storage.Storage{})

	_, err := svc.SearchSimilar(context.Background(), "golang backend", 5)
	assert.Error(t, err)
}

func TestTextMD5Stable(t *testing.T) {
	assert.Equal(t, textMD5("abc"), textMD5("abc"))
	assert.NotEqual(t, textMD5("abc"), textMD5("abd"))
	assert.Len(t, textMD5("abc"), 32)
}
