package types

// LearningResource 针对某项技能的学习资源推荐
type LearningResource struct {
	Skill string `json:"skill"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"` // course, doc, video, book
	Note  string `json:"note,omitempty"`
}

// QuizQuestion 单道选择题。
// AnswerIndex与Explanation只在服务端与判分结果中出现，
// 作答前下发给客户端的视图不包含这两个字段。
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
}

// QuizSet 一次生成的题目集合。
// Note非空表示内容来自降级生成器，质量有所下降。
type QuizSet struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
	Note      string         `json:"note,omitempty"`
}
