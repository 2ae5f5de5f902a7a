// Package quiz 实现技能测验的生成与生命周期管理。
package quiz

import (
	"errors"
	"time"

	"resume-intel-go/internal/types"
)

// State 测验状态
type State string

const (
	// StateGenerated 题目已生成，等待作答
	StateGenerated State = "generated"
	// StateInProgress 作答中
	StateInProgress State = "in_progress"
	// StateCompleted 已完成，终态
	StateCompleted State = "completed"
)

// validTransitions 状态机合法迁移表。completed是终态，无出边。
var validTransitions = map[State][]State{
	StateGenerated:  {StateInProgress},
	StateInProgress: {StateCompleted},
	StateCompleted:  {},
}

var (
	// ErrNotFound 测验不存在或已过期
	ErrNotFound = errors.New("quiz not found")
	// ErrAlreadyCompleted 测验已完成，不允许再次提交
	ErrAlreadyCompleted = errors.New("quiz already completed")
	// ErrInvalidTransition 非法状态迁移
	ErrInvalidTransition = errors.New("invalid quiz state transition")
)

// CanTransition 判断状态迁移是否合法
func CanTransition(from, to State) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Record 一次测验的完整记录。
// 含正确答案与解析，只存服务端，对客户端暴露用ClientView。
type Record struct {
	ID               string               `json:"id"`
	Topic            string               `json:"topic"`
	Skills           []string             `json:"skills"`
	Difficulty       string               `json:"difficulty,omitempty"`
	Questions        []types.QuizQuestion `json:"questions"`
	State            State                `json:"state"`
	Answers          []int                `json:"answers,omitempty"`
	Results          []AnswerResult       `json:"results,omitempty"`
	Score            int                  `json:"score"`
	TimeSpentSeconds int64                `json:"time_spent_seconds,omitempty"`
	FromFallback     bool                 `json:"from_fallback"`
	Note             string               `json:"note,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	StartedAt        time.Time            `json:"started_at,omitempty"`
	CompletedAt      time.Time            `json:"completed_at,omitempty"`
}

// AnswerResult 单题判分明细，提交后随完整题目一起返回
type AnswerResult struct {
	Question     string `json:"question"`
	UserAnswer   int    `json:"user_answer"`
	CorrectIndex int    `json:"correct_index"`
	Correct      bool   `json:"is_correct"`
	Explanation  string `json:"explanation,omitempty"`
}

// QuestionView 作答前下发给客户端的题目视图，不含正确答案与解析
type QuestionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// View 测验的客户端视图。
// 完成前只含题干与选项；完成后附判分明细、得分与用时。
type View struct {
	ID               string         `json:"id"`
	Topic            string         `json:"topic"`
	Skills           []string       `json:"skills,omitempty"`
	Difficulty       string         `json:"difficulty,omitempty"`
	State            State          `json:"state"`
	Questions        []QuestionView `json:"questions"`
	Total            int            `json:"total"`
	Score            int            `json:"score"`
	Results          []AnswerResult `json:"results,omitempty"`
	TimeSpentSeconds int64          `json:"time_spent_seconds,omitempty"`
	FromFallback     bool           `json:"from_fallback"`
	Note             string         `json:"note,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ClientView 生成对客户端安全的视图。
// 判分字段只在completed状态出现，作答前拿不到答案。
func (r *Record) ClientView() *View {
	questions := make([]QuestionView, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, QuestionView{Question: q.Question, Options: q.Options})
	}

	view := &View{
		ID:           r.ID,
		Topic:        r.Topic,
		Skills:       r.Skills,
		Difficulty:   r.Difficulty,
		State:        r.State,
		Questions:    questions,
		Total:        len(r.Questions),
		FromFallback: r.FromFallback,
		Note:         r.Note,
		CreatedAt:    r.CreatedAt,
	}
	if r.State == StateCompleted {
		view.Score = r.Score
		view.Results = r.Results
		view.TimeSpentSeconds = r.TimeSpentSeconds
	}
	return view
}

// transition 执行状态迁移，非法迁移返回错误
func (r *Record) transition(to State) error {
	if r.State == StateCompleted {
		return ErrAlreadyCompleted
	}
	if !CanTransition(r.State, to) {
		return ErrInvalidTransition
	}
	r.State = to
	return nil
}

// grade 对照正确答案计分并生成每题判分明细。
// 未作答的题目记为user_answer=-1、不得分。
func (r *Record) grade(answers []int) (int, []AnswerResult) {
	score := 0
	results := make([]AnswerResult, 0, len(r.Questions))
	for i, q := range r.Questions {
		userAnswer := -1
		if i < len(answers) {
			userAnswer = answers[i]
		}
		correct := userAnswer == q.AnswerIndex
		if correct {
			score++
		}
		results = append(results, AnswerResult{
			Question:     q.Question,
			UserAnswer:   userAnswer,
			CorrectIndex: q.AnswerIndex,
			Correct:      correct,
			Explanation:  q.Explanation,
		})
	}
	return score, results
}
