package types

// TaskType AI路由器支持的任务类型
type TaskType string

const (
	// TaskSkillNER 从自由文本中抽取技能实体
	TaskSkillNER TaskType = "skill_ner"
	// TaskJobSkillClassify 岗位描述的技能零样本分类
	TaskJobSkillClassify TaskType = "job_skill_classify"
	// TaskEmbedText 文本向量化
	TaskEmbedText TaskType = "embed_text"
	// TaskLearningResources 学习路线/资源生成
	TaskLearningResources TaskType = "learning_resources"
	// TaskQuizGenerate 技能测验题目生成
	TaskQuizGenerate TaskType = "quiz_generate"
)

// Provider AI后端标识
type Provider string

const (
	// ProviderLocalNLP 本地NLP工作进程（NER/分类/向量化）
	ProviderLocalNLP Provider = "local_nlp"
	// ProviderHostedLLM 托管大模型（HTTP）
	ProviderHostedLLM Provider = "hosted_llm"
	// ProviderKeyword 关键词启发式，永不失败的终端回退
	ProviderKeyword Provider = "keyword"
	// ProviderStaticFallback 静态模板降级产物（非真实后端调用）
	ProviderStaticFallback Provider = "static_fallback"
)

// AIRouterResult 所有提供方适配器统一返回的信封。
// 不变式：Success为true时Data有值且Error为空，反之亦然。
type AIRouterResult struct {
	Success   bool     `json:"success"`
	Data      any      `json:"data,omitempty"`
	Error     string   `json:"error,omitempty"`
	LatencyMs int64    `json:"latency_ms"`
	Provider  Provider `json:"provider"`
	Fallback  bool     `json:"fallback,omitempty"` // 结果是否来自降级路径
}

// TaskRequest 路由器的任务输入
type TaskRequest struct {
	Task TaskType `json:"task"`
	// Text 任务的主输入文本（简历文本、岗位描述、技能名等）
	Text string `json:"text"`
	// Labels 零样本分类的候选标签（仅job_skill_classify使用）
	Labels []string `json:"labels,omitempty"`
	// Params 任务附加参数（quiz难度、题目数量等）
	Params map[string]any `json:"params,omitempty"`
}

// NEREntity 本地NER工作进程输出的实体
type NEREntity struct {
	Text  string  `json:"word"`
	Group string  `json:"entity_group"`
	Score float64 `json:"score"`
}

// ProviderStats 单个提供方的进程生命周期内统计。
// 仅由路由器在每次调用结束后更新，除显式管理操作外不重置。
type ProviderStats struct {
	Requests     int64   `json:"requests"`
	Successes    int64   `json:"successes"`
	Failures     int64   `json:"failures"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	Degraded     bool    `json:"degraded"`
}
