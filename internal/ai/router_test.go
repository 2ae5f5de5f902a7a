package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"resume-intel-go/internal/types"
	"resume-intel-go/internal/vocab"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter 可注入结果与错误的提供方适配器
type mockAdapter struct {
	name    string
	data    any
	err     error
	calls   int
	lastReq *types.TaskRequest
}

func (m *mockAdapter) Name() string {
	return m.name
}

func (m *mockAdapter) Invoke(ctx context.Context, req *types.TaskRequest) (any, error) {
	m.calls++
	m.lastReq = req
	return m.data, m.err
}

// mockBackfill 可注入结果的字段补全依赖
type mockBackfill struct {
	fields map[string]json.RawMessage
	err    error
	calls  int
}

func (m *mockBackfill) BackfillResumeFields(ctx context.Context, resumeText string, missingFields []string) (map[string]json.RawMessage, error) {
	m.calls++
	return m.fields, m.err
}

func testRouter(local, hosted *mockAdapter, hostedReady bool, limits map[string]int) *Router {
	if limits == nil {
		limits = map[string]int{
			string(types.ProviderLocalNLP):  100,
			string(types.ProviderHostedLLM): 100,
			string(types.ProviderKeyword):   1000,
		}
	}
	r := NewRouter(nil, nil, hostedReady, NewKeywordProvider(vocab.Default()), limits)
	local.name = string(types.ProviderLocalNLP)
	hosted.name = string(types.ProviderHostedLLM)
	r.adapters[types.ProviderLocalNLP] = local
	r.adapters[types.ProviderHostedLLM] = hosted
	return r
}

func TestRouterNERSuccess(t *testing.T) {
	local := &mockAdapter{data: []types.NEREntity{{Text: "Python", Group: "MISC", Score: 0.9}}}
	r := testRouter(local, &mockAdapter{}, true, nil)

	result := r.Execute(context.Background(), &types.TaskRequest{
		Task: types.TaskSkillNER,
		Text: "精通Python",
	})

	require.True(t, result.Success)
	assert.Equal(t, types.ProviderLocalNLP, result.Provider)
	assert.False(t, result.Fallback)

	entities, ok := result.Data.([]types.NEREntity)
	require.True(t, ok)
	assert.Equal(t, "Python", entities[0].Text)
}

func TestRouterNERFallsBackToEmptyOnFailure(t *testing.T) {
	local := &mockAdapter{err: errors.New("worker crashed")}
	r := testRouter(local, &mockAdapter{}, true, nil)

	result := r.Execute(context.Background(), &types.TaskRequest{
		Task: types.TaskSkillNER,
		Text: "text",
	})

	// 主提供方被强制失败，任务仍以success:true返回降级结果
	require.True(t, result.Success)
	assert.True(t, result.Fallback)
	assert.Equal(t, types.ProviderStaticFallback, result.Provider)

	entities, ok := result.Data.([]types.NEREntity)
	require.True(t, ok)
	assert.Empty(t, entities)

	stats := r.Stats()
	assert.Equal(t, int64(1), stats[string(types.ProviderLocalNLP)].Failures)
}

func TestRouterClassifyFallsBackToKeyword(t *testing.T) {
	local := &mockAdapter{err: errors.New("model load failed")}
	r := testRouter(local, &mockAdapter{}, true, nil)

	result := r.Execute(context.Background(), &types.TaskRequest{
		Task:   types.TaskJobSkillClassify,
		Text:   "We need a Python and React developer",
		Labels: []string{"python", "react", "cobol"},
	})

	require.True(t, result.Success)
	assert.True(t, result.Fallback)
	assert.Equal(t, types.ProviderKeyword, result.Provider)

	scores, ok := result.Data.(map[string]float64)
	require.True(t, ok)
	assert.Greater(t, scores["python"], 0.0)
	assert.Greater(t, scores["react"], 0.0)
	assert.Equal(t, 0.0, scores["cobol"])
}

func TestRouterEmbedHasNoFallback(t *testing.T) {
	local := &mockAdapter{err: errors.New("embed worker died")}
	r := testRouter(local, &mockAdapter{}, true, nil)

	result := r.Execute(context.Background(), &types.TaskRequest{
		Task: types.TaskEmbedText,
		Text: "text",
	})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestRouterQuizFallsBackToTemplate(t *testing.T) {
	hosted := &mockAdapter{err: errors.New("llm 500")}
	r := testRouter(&mockAdapter{}, hosted, true, nil)

	result := r.Execute(context.Background(), &types.TaskRequest{
		Task:   types.TaskQuizGenerate,
		Text:   "后端开发",
		Labels: []string{"Go", "MySQL"},
		Params: map[string]any{"count": 3},
	})

	require.True(t, result.Success)
	assert.True(t, result.Fallback)
	assert.Equal(t, types.ProviderStaticFallback, result.Provider)

	set, ok := result.Data.(*types.QuizSet)
	require.True(t, ok)
	assert.Len(t, set.Questions, 3, "降级题目数量应与请求一致")
	assert.NotEmpty(t, set.Note, "降级内容应标注质量下降")
}

func TestRouterQuizParamsReachProvider(t *testing.T) {
	hosted := &mockAdapter{data: &types.QuizSet{
		Questions: []types.QuizQuestion{{Question: "Q1"}},
	}}
	r := testRouter(&mockAdapter{}, hosted, true, nil)

	result := r.Execute(context.Background(), &types.TaskRequest{
		Task:   types.TaskQuizGenerate,
		Text:   "Go并发",
		Labels: []string{"Go"},
		Params: map[string]any{"difficulty": "hard", "count": 3},
	})

	require.True(t, result.Success)
	require.NotNil(t, hosted.lastReq)
	assert.Equal(t, "hard", hosted.lastReq.Params["difficulty"])
	assert.Equal(t, 3, hosted.lastReq.Params["count"])
}

func TestQuizParamsDefaultsAndClamp(t *testing.T) {
	difficulty, count := quizParams(nil)
	assert.Equal(t, "medium", difficulty)
	assert.Equal(t, 5, count)

	// 经过JSON反序列化的数量是float64，也应被接受
	difficulty, count = quizParams(map[string]any{"difficulty": "easy", "count": float64(7)})
	assert.Equal(t, "easy", difficulty)
	assert.Equal(t, 7, count)

	_, count = quizParams(map[string]any{"count": 100})
	assert.Equal(t, 10, count, "数量应被钳制到上限")

	_, count = quizParams(map[string]any{"count": -2})
	assert.Equal(t, 5, count)
}

func TestRouterHostedNotConfiguredSkipsProvider(t *testing.T) {
	hosted := &mockAdapter{data: []types.LearningResource{{Skill: "Go"}}}
	r := testRouter(&mockAdapter{}, hosted, false, nil)

	result := r.Execute(context.Background(), &types.TaskRequest{
		Task:   types.TaskLearningResources,
		Labels: []string{"Go"},
	})

	require.True(t, result.Success)
	assert.True(t, result.Fallback)
	assert.Equal(t, 0, hosted.calls, "凭据缺失时不应调用托管LLM")

	// 配置错误不应计入健康度
	stats := r.Stats()
	assert.Equal(t, int64(0), stats[string(types.ProviderHostedLLM)].Requests)
}

func TestRouterQuotaExhaustionTriggersFallback(t *testing.T) {
	local := &mockAdapter{data: map[string]float64{"go": 0.9}}
	r := testRouter(local, &mockAdapter{}, true, map[string]int{
		string(types.ProviderLocalNLP):  1,
		string(types.ProviderHostedLLM): 1,
		string(types.ProviderKeyword):   1000,
	})

	req := &types.TaskRequest{
		Task:   types.TaskJobSkillClassify,
		Text:   "golang developer",
		Labels: []string{"go"},
	}

	first := r.Execute(context.Background(), req)
	require.True(t, first.Success)
	assert.False(t, first.Fallback)

	second := r.Execute(context.Background(), req)
	require.True(t, second.Success)
	assert.True(t, second.Fallback, "配额耗尽后应走降级链")
	assert.Equal(t, types.ProviderKeyword, second.Provider)
	assert.Equal(t, 1, local.calls, "配额耗尽后不应再调用主提供方")
}

func TestRouterUnknownTask(t *testing.T) {
	r := testRouter(&mockAdapter{}, &mockAdapter{}, true, nil)

	result := r.Execute(context.Background(), &types.TaskRequest{Task: "translate"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "未知任务类型")
}

func TestRouterBackfillRecordsHealth(t *testing.T) {
	backfill := &mockBackfill{fields: map[string]json.RawMessage{
		"name": json.RawMessage(`"张三"`),
	}}
	r := testRouter(&mockAdapter{}, &mockAdapter{}, true, nil)
	r.backfill = backfill

	fields, err := r.BackfillResumeFields(context.Background(), "简历文本", []string{"name"})
	require.NoError(t, err)
	assert.Contains(t, fields, "name")
	assert.Equal(t, 1, backfill.calls)

	stats := r.Stats()
	assert.Equal(t, int64(1), stats[string(types.ProviderHostedLLM)].Successes)
}

func TestRouterBackfillNotConfigured(t *testing.T) {
	r := testRouter(&mockAdapter{}, &mockAdapter{}, false, nil)
	r.backfill = &mockBackfill{}

	_, err := r.BackfillResumeFields(context.Background(), "text", []string{"name"})
	assert.ErrorIs(t, err, ErrLLMNotConfigured)
}

func TestRouterReset(t *testing.T) {
	local := &mockAdapter{err: errors.New("boom")}
	r := testRouter(local, &mockAdapter{}, true, nil)

	r.Execute(context.Background(), &types.TaskRequest{Task: types.TaskSkillNER, Text: "x"})
	assert.Equal(t, int64(1), r.Stats()[string(types.ProviderLocalNLP)].Failures)

	assert.True(t, r.Reset(string(types.ProviderLocalNLP)))
	assert.Equal(t, int64(0), r.Stats()[string(types.ProviderLocalNLP)].Failures)

	assert.False(t, r.Reset("nonexistent"))
}
