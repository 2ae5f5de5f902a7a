package quiz

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"resume-intel-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedGenerator 固定返回一套题目并记录收到的请求
type fixedGenerator struct {
	fallback bool
	lastReq  *types.TaskRequest
}

func (g *fixedGenerator) Execute(ctx context.Context, req *types.TaskRequest) *types.AIRouterResult {
	g.lastReq = req
	return &types.AIRouterResult{
		Success:  true,
		Fallback: g.fallback,
		Provider: types.ProviderHostedLLM,
		Data: &types.QuizSet{
			Topic: req.Text,
			Questions: []types.QuizQuestion{
				{Question: "Q1", Options: []string{"A", "B", "C", "D"}, AnswerIndex: 0, Explanation: "E1"},
				{Question: "Q2", Options: []string{"A", "B", "C", "D"}, AnswerIndex: 2, Explanation: "E2"},
				{Question: "Q3", Options: []string{"A", "B", "C", "D"}, AnswerIndex: 1, Explanation: "E3"},
			},
		},
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StateGenerated, StateInProgress))
	assert.True(t, CanTransition(StateInProgress, StateCompleted))

	assert.False(t, CanTransition(StateGenerated, StateCompleted))
	assert.False(t, CanTransition(StateCompleted, StateInProgress))
	assert.False(t, CanTransition(StateCompleted, StateGenerated))
	assert.False(t, CanTransition(StateInProgress, StateGenerated))
}

func TestQuizLifecycle(t *testing.T) {
	svc := NewService(&fixedGenerator{}, NewMemoryStore(), nil)
	ctx := context.Background()

	record, err := svc.Generate(ctx, "Go后端", []string{"Go", "MySQL"}, "", 0)
	require.NoError(t, err)
	assert.Equal(t, StateGenerated, record.State)
	assert.Len(t, record.Questions, 3)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.FromFallback)

	started, err := svc.Start(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, started.State)
	assert.False(t, started.StartedAt.IsZero())

	done, err := svc.Submit(ctx, record.ID, []int{0, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, done.State)
	assert.Equal(t, 2, done.Score)
	assert.False(t, done.CompletedAt.IsZero())

	// 判分明细逐题给出对错与正确选项
	require.Len(t, done.Results, 3)
	assert.True(t, done.Results[0].Correct)
	assert.True(t, done.Results[1].Correct)
	assert.False(t, done.Results[2].Correct)
	assert.Equal(t, 1, done.Results[2].CorrectIndex)
	assert.Equal(t, 0, done.Results[2].UserAnswer)
	assert.Equal(t, "E3", done.Results[2].Explanation)
}

func TestGenerateThreadsDifficultyAndCount(t *testing.T) {
	gen := &fixedGenerator{}
	svc := NewService(gen, NewMemoryStore(), nil)

	record, err := svc.Generate(context.Background(), "Go并发", []string{"Go"}, "hard", 3)
	require.NoError(t, err)
	assert.Equal(t, "hard", record.Difficulty)

	require.NotNil(t, gen.lastReq)
	assert.Equal(t, "hard", gen.lastReq.Params["difficulty"])
	assert.Equal(t, 3, gen.lastReq.Params["count"])
}

func TestGenerateDefaultsDifficultyAndCount(t *testing.T) {
	gen := &fixedGenerator{}
	svc := NewService(gen, NewMemoryStore(), nil)

	record, err := svc.Generate(context.Background(), "Go", []string{"Go"}, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "medium", record.Difficulty)
	assert.Equal(t, 5, gen.lastReq.Params["count"])

	// 超出上限的数量被钳制
	_, err = svc.Generate(context.Background(), "Go", []string{"Go"}, "easy", 99)
	require.NoError(t, err)
	assert.Equal(t, 10, gen.lastReq.Params["count"])
}

func TestClientViewHidesAnswersBeforeCompletion(t *testing.T) {
	svc := NewService(&fixedGenerator{}, NewMemoryStore(), nil)
	ctx := context.Background()

	record, err := svc.Generate(ctx, "Go", []string{"Go"}, "", 0)
	require.NoError(t, err)

	view := record.ClientView()
	assert.Len(t, view.Questions, 3)
	assert.Empty(t, view.Results)

	// 序列化后的视图不应泄露正确答案与解析
	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "answer_index"), "作答前不应下发正确答案")
	assert.False(t, strings.Contains(string(data), "explanation"), "作答前不应下发解析")

	done, err := svc.Submit(ctx, record.ID, []int{0, 2, 1})
	require.NoError(t, err)

	completedView := done.ClientView()
	require.Len(t, completedView.Results, 3)
	assert.Equal(t, 3, completedView.Score)
	assert.Equal(t, 0, completedView.Results[0].CorrectIndex)
	assert.Equal(t, "E1", completedView.Results[0].Explanation)
}

func TestQuizSecondSubmitFails(t *testing.T) {
	svc := NewService(&fixedGenerator{}, NewMemoryStore(), nil)
	ctx := context.Background()

	record, err := svc.Generate(ctx, "Go后端", []string{"Go"}, "", 0)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, record.ID, []int{0, 2, 1})
	require.NoError(t, err)

	// completed是终态，二次提交必须失败
	_, err = svc.Submit(ctx, record.ID, []int{1, 1, 1})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestQuizSubmitWithoutExplicitStart(t *testing.T) {
	svc := NewService(&fixedGenerator{}, NewMemoryStore(), nil)
	ctx := context.Background()

	record, err := svc.Generate(ctx, "前端", []string{"React"}, "", 0)
	require.NoError(t, err)

	done, err := svc.Submit(ctx, record.ID, []int{0, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, done.State)
	assert.Equal(t, 3, done.Score)
}

func TestQuizStartAfterCompleteFails(t *testing.T) {
	svc := NewService(&fixedGenerator{}, NewMemoryStore(), nil)
	ctx := context.Background()

	record, err := svc.Generate(ctx, "Go", []string{"Go"}, "", 0)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, record.ID, nil)
	require.NoError(t, err)

	_, err = svc.Start(ctx, record.ID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestQuizNotFound(t *testing.T) {
	svc := NewService(&fixedGenerator{}, NewMemoryStore(), nil)

	_, err := svc.Get(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuizFallbackFlagPropagates(t *testing.T) {
	svc := NewService(&fixedGenerator{fallback: true}, NewMemoryStore(), nil)

	record, err := svc.Generate(context.Background(), "Go", []string{"Go"}, "", 0)
	require.NoError(t, err)
	assert.True(t, record.FromFallback)
}

func TestGradePartialAnswers(t *testing.T) {
	r := &Record{Questions: []types.QuizQuestion{
		{AnswerIndex: 0}, {AnswerIndex: 1}, {AnswerIndex: 2},
	}}

	score, results := r.grade([]int{0})
	assert.Equal(t, 1, score)
	require.Len(t, results, 3)
	assert.Equal(t, -1, results[1].UserAnswer, "未作答的题记为-1")
	assert.False(t, results[1].Correct)

	score, _ = r.grade(nil)
	assert.Equal(t, 0, score)

	score, _ = r.grade([]int{0, 1, 2})
	assert.Equal(t, 3, score)
}
