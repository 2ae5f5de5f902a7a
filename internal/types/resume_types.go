package types

// ExtractionMethod 表示某个字段的取值来源
type ExtractionMethod string

const (
	// MethodPattern 确定性模式匹配（正则/词表）
	MethodPattern ExtractionMethod = "pattern"
	// MethodAI LLM补全
	MethodAI ExtractionMethod = "ai"
	// MethodHybridFallback 降级路径产出（AI不可用时的占位结果）
	MethodHybridFallback ExtractionMethod = "hybrid-fallback"
)

// Education 教育经历条目
type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
	Year        string `json:"year,omitempty"`
}

// Experience 工作经历条目
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description,omitempty"`
}

// ParsedResumeRecord 混合解析器的最终产物。
// 构造一次后不再修改，由调用方负责持久化。
// 不变式：skills去重（大小写不敏感）且长度不超过上限；years_experience >= 0；
// 每个非空字段有且仅有一种提取方式。
type ParsedResumeRecord struct {
	Name            string       `json:"name"`
	Emails          []string     `json:"emails"`
	Phones          []string     `json:"phones"`
	Links           []string     `json:"links"`
	Location        string       `json:"location"`
	CurrentTitle    string       `json:"current_title"`
	YearsExperience float64      `json:"years_experience"`
	Skills          []string     `json:"skills"`
	Education       []Education  `json:"education"`
	Experience      []Experience `json:"experience"`
	Projects        []string     `json:"projects"`
	SoftSkills      []string     `json:"soft_skills"`
}

// ParseMetadata 伴随每条ParsedResumeRecord返回的质量信号。
// RequiresManualReview 完全由整体置信度与关键字段是否缺失推导，
// 不允许独立设置。
type ParseMetadata struct {
	OverallConfidence    float64                     `json:"overall_confidence"`
	FieldConfidences     map[string]float64          `json:"field_confidences"`
	ExtractionMethods    map[string]ExtractionMethod `json:"extraction_methods"`
	ProcessingTimeMs     int64                       `json:"processing_time_ms"`
	AIUsed               bool                        `json:"ai_used"`
	MissingFields        []string                    `json:"missing_fields"`
	RequiresManualReview bool                        `json:"requires_manual_review"`
}

// ParseResult 解析结果信封。解析失败只会降低质量，不产生顶层失败，
// 因此Success恒为true，调用方通过metadata判断质量。
type ParseResult struct {
	Success      bool                `json:"success"`
	ParsedResume *ParsedResumeRecord `json:"parsed_resume"`
	Metadata     *ParseMetadata      `json:"metadata"`
}
