package parser

import (
	"context"
	"encoding/json"
	"time"

	"resume-intel-go/internal/config"
	"resume-intel-go/internal/extractor"
	"resume-intel-go/internal/logger"
	"resume-intel-go/internal/types"
	"resume-intel-go/internal/vocab"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// 整体置信度的字段权重。核心身份字段与技能占大头，权重和为1。
var confidenceWeights = map[string]float64{
	"name":       0.20,
	"emails":     0.15,
	"skills":     0.25,
	"experience": 0.20,
	"title":      0.10,
	"education":  0.10,
}

// aiFieldConfidence LLM补全字段的统一置信度。
// 低于多数模式抽取器，高于接受阈值，补全值可用但不压过模式结果。
const aiFieldConfidence = 0.72

// taskRouter 解析器对AI路由的依赖面
type taskRouter interface {
	Execute(ctx context.Context, req *types.TaskRequest) *types.AIRouterResult
	BackfillResumeFields(ctx context.Context, resumeText string, missingFields []string) (map[string]json.RawMessage, error)
}

// HybridParser 混合简历解析器。
// 流水线：快速模式抽取 -> NER补充 -> 缺口分析 -> 可选LLM补全 -> 技能清洗 -> 合并。
// 任何子系统失败只降低质量，顶层结果恒为success，半份简历也比没有强。
type HybridParser struct {
	router     taskRouter
	vocab      *vocab.Vocab
	normalizer *SkillNormalizer
	useLLM     bool
	minConf    float64
	reviewConf float64
	maxSkills  int
	tracer     trace.Tracer
}

// NewHybridParser 创建混合解析器
func NewHybridParser(router taskRouter, v *vocab.Vocab, cfg config.ParserConfig) *HybridParser {
	minConf := cfg.MinConfidence
	if minConf <= 0 {
		minConf = 0.60
	}
	reviewConf := cfg.ReviewThreshold
	if reviewConf <= 0 {
		reviewConf = 0.65
	}
	maxSkills := cfg.MaxSkills
	if maxSkills <= 0 {
		maxSkills = 60
	}

	return &HybridParser{
		router:     router,
		vocab:      v,
		normalizer: NewSkillNormalizer(v),
		useLLM:     cfg.UseLLM,
		minConf:    minConf,
		reviewConf: reviewConf,
		maxSkills:  maxSkills,
		tracer:     otel.Tracer("hybrid-parser"),
	}
}

// Parse 解析简历文本，恒返回success信封
func (p *HybridParser) Parse(ctx context.Context, text string) *types.ParseResult {
	start := time.Now()

	ctx, span := p.tracer.Start(ctx, "parser.parse",
		trace.WithAttributes(attribute.Int("text_length", len(text))))
	defer span.End()

	record := &types.ParsedResumeRecord{}
	meta := &types.ParseMetadata{
		FieldConfidences:  make(map[string]float64),
		ExtractionMethods: make(map[string]types.ExtractionMethod),
	}

	// 阶段1：模式快速抽取
	skillCandidates := p.fastExtract(text, record, meta)

	// 阶段2：NER补充技能候选。本地NLP失败不致命，继续用模式结果。
	nerCandidates, nerFromAI := p.nerSupplement(ctx, text)
	skillCandidates = append(skillCandidates, nerCandidates...)
	if nerFromAI {
		meta.AIUsed = true
	}

	// 阶段3：缺口分析
	gaps := p.analyzeGaps(record, meta, len(skillCandidates))

	// 阶段4：LLM补全。仅在允许LLM且存在缺口时触发，失败同样不致命。
	if p.useLLM && len(gaps) > 0 {
		aiSkills, backfilled := p.aiBackfill(ctx, text, gaps, record, meta)
		skillCandidates = append(skillCandidates, aiSkills...)
		if backfilled > 0 {
			meta.AIUsed = true
		}
	}

	// 阶段5：技能清洗，停用词来自记录自身的姓名与教育字段
	record.Skills = p.normalizer.Clean(skillCandidates, record, p.maxSkills)
	if len(record.Skills) > 0 {
		if _, fromPattern := meta.ExtractionMethods["skills"]; !fromPattern || len(nerCandidates) > 0 {
			meta.ExtractionMethods["skills"] = types.MethodHybridFallback
		}
		if meta.FieldConfidences["skills"] == 0 {
			meta.FieldConfidences["skills"] = aiFieldConfidence
		}
	}

	// 阶段6：合并与评分
	meta.MissingFields = p.finalMissing(record)
	meta.OverallConfidence = p.overallConfidence(record, meta)
	meta.RequiresManualReview = meta.OverallConfidence < p.reviewConf ||
		record.Name == "" || len(record.Skills) == 0
	meta.ProcessingTimeMs = time.Since(start).Milliseconds()

	span.SetAttributes(
		attribute.Float64("overall_confidence", meta.OverallConfidence),
		attribute.Bool("ai_used", meta.AIUsed),
		attribute.Bool("requires_manual_review", meta.RequiresManualReview),
		attribute.Int("skill_count", len(record.Skills)),
	)

	return &types.ParseResult{
		Success:      true,
		ParsedResume: record,
		Metadata:     meta,
	}
}

// fastExtract 运行全部模式抽取器，接收达到阈值的值，返回技能候选
func (p *HybridParser) fastExtract(text string, record *types.ParsedResumeRecord, meta *types.ParseMetadata) []string {
	accept := func(field string, confidence float64) bool {
		if confidence < p.minConf {
			return false
		}
		meta.FieldConfidences[field] = confidence
		meta.ExtractionMethods[field] = types.MethodPattern
		return true
	}

	if emails := extractor.ExtractEmails(text); accept("emails", emails.Confidence) {
		record.Emails = emails.Values
	}
	if phones := extractor.ExtractPhones(text); accept("phones", phones.Confidence) {
		record.Phones = phones.Values
	}
	if urls := extractor.ExtractURLs(text); accept("links", urls.Confidence) {
		record.Links = urls.Values
	}
	if name := extractor.ExtractName(text); accept("name", name.Confidence) {
		record.Name = name.Value
	}
	if loc := extractor.ExtractLocation(text); accept("location", loc.Confidence) {
		record.Location = loc.Value
	}
	if title := extractor.ExtractTitle(text); accept("title", title.Confidence) {
		record.CurrentTitle = title.Value
	}
	if years, conf := extractor.ExtractYearsExperience(text); accept("years_experience", conf) {
		record.YearsExperience = years
	}
	if edu, conf := extractor.ExtractEducation(text); accept("education", conf) {
		record.Education = edu
	}

	var candidates []string
	if skills := extractor.ExtractSkills(text, p.vocab); accept("skills", skills.Confidence) {
		candidates = skills.Values
	}
	return candidates
}

// nerSupplement 通过路由器调用NER补充技能候选。
// 返回候选词与"是否真正来自AI提供方"（降级空结果不算）。
func (p *HybridParser) nerSupplement(ctx context.Context, text string) ([]string, bool) {
	result := p.router.Execute(ctx, &types.TaskRequest{
		Task: types.TaskSkillNER,
		Text: text,
	})

	if !result.Success {
		logger.Warn().Str("error", result.Error).Msg("NER补充失败，仅用模式抽取的技能")
		return nil, false
	}

	entities, ok := result.Data.([]types.NEREntity)
	if !ok || len(entities) == 0 {
		return nil, false
	}

	candidates := make([]string, 0, len(entities))
	for _, e := range entities {
		candidates = append(candidates, e.Text)
	}
	return candidates, !result.Fallback
}

// analyzeGaps 计算缺失字段列表
func (p *HybridParser) analyzeGaps(record *types.ParsedResumeRecord, meta *types.ParseMetadata, skillCandidates int) []string {
	var gaps []string
	if record.Name == "" {
		gaps = append(gaps, "name")
	}
	if record.CurrentTitle == "" {
		gaps = append(gaps, "current_title")
	}
	if skillCandidates == 0 {
		gaps = append(gaps, "skills")
	}
	if len(record.Experience) == 0 {
		gaps = append(gaps, "experience")
	}
	if len(record.Projects) == 0 {
		gaps = append(gaps, "projects")
	}
	return gaps
}

// aiBackfill 用LLM补全缺失字段。
// 技能不直接写入记录而是作为候选返回，统一走阶段5清洗。
func (p *HybridParser) aiBackfill(ctx context.Context, text string, gaps []string, record *types.ParsedResumeRecord, meta *types.ParseMetadata) ([]string, int) {
	fields, err := p.router.BackfillResumeFields(ctx, text, gaps)
	if err != nil {
		logger.Warn().Err(err).Msg("LLM补全失败，保留模式抽取结果")
		return nil, 0
	}

	var aiSkills []string
	filled := 0
	markAI := func(field string) {
		meta.FieldConfidences[field] = aiFieldConfidence
		meta.ExtractionMethods[field] = types.MethodAI
		filled++
	}

	if raw, ok := fields["name"]; ok && record.Name == "" {
		var name string
		if json.Unmarshal(raw, &name) == nil && name != "" {
			record.Name = name
			markAI("name")
		}
	}
	if raw, ok := fields["current_title"]; ok && record.CurrentTitle == "" {
		var title string
		if json.Unmarshal(raw, &title) == nil && title != "" {
			record.CurrentTitle = title
			markAI("title")
		}
	}
	if raw, ok := fields["skills"]; ok {
		var skills []string
		if json.Unmarshal(raw, &skills) == nil && len(skills) > 0 {
			aiSkills = skills
			markAI("skills")
		}
	}
	if raw, ok := fields["experience"]; ok && len(record.Experience) == 0 {
		var experience []types.Experience
		if json.Unmarshal(raw, &experience) == nil && len(experience) > 0 {
			record.Experience = experience
			markAI("experience")
		}
	}
	if raw, ok := fields["projects"]; ok && len(record.Projects) == 0 {
		var projects []string
		if json.Unmarshal(raw, &projects) == nil && len(projects) > 0 {
			record.Projects = projects
			markAI("projects")
		}
	}
	return aiSkills, filled
}

// finalMissing 合并后的最终缺失字段
func (p *HybridParser) finalMissing(record *types.ParsedResumeRecord) []string {
	var missing []string
	if record.Name == "" {
		missing = append(missing, "name")
	}
	if len(record.Emails) == 0 {
		missing = append(missing, "emails")
	}
	if record.CurrentTitle == "" {
		missing = append(missing, "current_title")
	}
	if len(record.Skills) == 0 {
		missing = append(missing, "skills")
	}
	if len(record.Experience) == 0 {
		missing = append(missing, "experience")
	}
	if len(record.Education) == 0 {
		missing = append(missing, "education")
	}
	return missing
}

// overallConfidence 加权平均。缺失字段按0计入，权重固定。
func (p *HybridParser) overallConfidence(record *types.ParsedResumeRecord, meta *types.ParseMetadata) float64 {
	fieldScore := func(field string, present bool) float64 {
		if !present {
			return 0
		}
		if conf, ok := meta.FieldConfidences[field]; ok {
			return conf
		}
		return aiFieldConfidence
	}

	total := 0.0
	total += confidenceWeights["name"] * fieldScore("name", record.Name != "")
	total += confidenceWeights["emails"] * fieldScore("emails", len(record.Emails) > 0)
	total += confidenceWeights["skills"] * fieldScore("skills", len(record.Skills) > 0)
	total += confidenceWeights["experience"] * fieldScore("experience", len(record.Experience) > 0)
	total += confidenceWeights["title"] * fieldScore("title", record.CurrentTitle != "")
	total += confidenceWeights["education"] * fieldScore("education", len(record.Education) > 0)
	return total
}
