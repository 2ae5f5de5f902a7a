package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-intel-go/internal/constants"
	"resume-intel-go/internal/logger"
	"resume-intel-go/internal/nlp"
	"resume-intel-go/internal/tracing"
	"resume-intel-go/internal/types"
	"resume-intel-go/pkg/ratelimit"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// backfillProvider 简历字段补全依赖面。
// 补全不在任务分发表内，单独建依赖便于测试替换。
type backfillProvider interface {
	BackfillResumeFields(ctx context.Context, resumeText string, missingFields []string) (map[string]json.RawMessage, error)
}

// primaryProviderFor 各任务类型的静态主提供方分配。
// NER/分类/向量化走本地模型，生成类任务走托管LLM。
var primaryProviderFor = map[types.TaskType]types.Provider{
	types.TaskSkillNER:          types.ProviderLocalNLP,
	types.TaskJobSkillClassify:  types.ProviderLocalNLP,
	types.TaskEmbedText:         types.ProviderLocalNLP,
	types.TaskLearningResources: types.ProviderHostedLLM,
	types.TaskQuizGenerate:      types.ProviderHostedLLM,
}

// Router AI任务路由器。
// 负责主提供方选择、限流检查、健康度记录与降级链，
// 经由统一的Adapter接口分发任务。
// 所有路径都返回结果信封，永不向上抛错，调用方检查Success字段。
type Router struct {
	adapters    map[types.Provider]Adapter
	backfill    backfillProvider
	hostedReady bool
	fallback    *StaticFallback
	limiters    map[string]*ratelimit.FixedWindow
	health      map[string]*ratelimit.HealthStats
	tracer      trace.Tracer
}

// NewRouter 创建路由器。
// rateLimits为每个提供方每60秒窗口的配额；
// hostedReady=false表示凭据缺失，生成类任务无条件走降级，不计入健康度。
func NewRouter(local *LocalNLPProvider, hosted *HostedLLMProvider, hostedReady bool,
	keyword *KeywordProvider, rateLimits map[string]int) *Router {

	adapters := make(map[types.Provider]Adapter)
	for _, adapter := range []Adapter{local, hosted, keyword} {
		adapters[types.Provider(adapter.Name())] = adapter
	}

	limiters := make(map[string]*ratelimit.FixedWindow)
	health := make(map[string]*ratelimit.HealthStats)
	for _, provider := range []types.Provider{types.ProviderLocalNLP, types.ProviderHostedLLM, types.ProviderKeyword} {
		limiters[string(provider)] = ratelimit.NewFixedWindow(rateLimits[string(provider)], constants.RateLimitWindow)
		health[string(provider)] = ratelimit.NewHealthStats()
	}

	return &Router{
		adapters:    adapters,
		backfill:    hosted,
		hostedReady: hostedReady,
		fallback:    NewStaticFallback(),
		limiters:    limiters,
		health:      health,
		tracer:      otel.Tracer("ai-router"),
	}
}

// Execute 执行一个AI任务，走限流/主提供方/降级链
func (r *Router) Execute(ctx context.Context, req *types.TaskRequest) *types.AIRouterResult {
	start := time.Now()

	ctx, span := r.tracer.Start(ctx, "router.execute",
		trace.WithAttributes(attribute.String("task", string(req.Task))))
	defer span.End()

	primary, known := primaryProviderFor[req.Task]
	if !known {
		return r.finish(span, start, &types.AIRouterResult{
			Success: false,
			Error:   fmt.Sprintf("未知任务类型: %s", req.Task),
		})
	}
	span.SetAttributes(attribute.String("primary_provider", string(primary)))

	if r.consume(primary, req.Task) {
		callStart := time.Now()
		data, err := r.adapters[primary].Invoke(ctx, req)
		latency := time.Since(callStart).Milliseconds()

		if err == nil {
			r.health[string(primary)].RecordSuccess(latency)
			return r.finish(span, start, &types.AIRouterResult{
				Success:  true,
				Data:     data,
				Provider: primary,
			})
		}

		r.health[string(primary)].RecordFailure(latency)
		tracing.RecordError(span, err, classifyError(err))
		logger.Warn().
			Str("task", string(req.Task)).
			Str("provider", string(primary)).
			Err(err).
			Msg("主提供方调用失败，进入降级链")
	} else {
		span.SetAttributes(attribute.Bool("quota_exhausted", true))
		logger.Warn().
			Str("task", string(req.Task)).
			Str("provider", string(primary)).
			Msg("提供方窗口配额耗尽，进入降级链")
	}

	return r.finish(span, start, r.fallbackFor(ctx, req))
}

// consume 检查并消耗主提供方配额。
// 托管LLM凭据缺失属于进程级配置错误，直接降级且不占配额不计健康度。
func (r *Router) consume(provider types.Provider, task types.TaskType) bool {
	if provider == types.ProviderHostedLLM && !r.hostedReady {
		logger.Debug().
			Str("task", string(task)).
			Msg("托管LLM凭据未配置，任务直接降级")
		return false
	}
	return r.limiters[string(provider)].CheckAndConsume()
}

// fallbackFor 执行任务的降级策略：
// NER返回空实体列表（模式抽取已覆盖技能来源，不配关键词适配器）；
// 分类降级到关键词启发式；生成类任务降级到静态模板；
// 向量化无可用降级，返回失败信封。
func (r *Router) fallbackFor(ctx context.Context, req *types.TaskRequest) *types.AIRouterResult {
	switch req.Task {
	case types.TaskSkillNER:
		return &types.AIRouterResult{
			Success:  true,
			Data:     r.fallback.EmptyEntities(),
			Provider: types.ProviderStaticFallback,
			Fallback: true,
		}

	case types.TaskJobSkillClassify:
		callStart := time.Now()
		scores, _ := r.adapters[types.ProviderKeyword].Invoke(ctx, req)
		r.health[string(types.ProviderKeyword)].RecordSuccess(time.Since(callStart).Milliseconds())
		return &types.AIRouterResult{
			Success:  true,
			Data:     scores,
			Provider: types.ProviderKeyword,
			Fallback: true,
		}

	case types.TaskLearningResources:
		return &types.AIRouterResult{
			Success:  true,
			Data:     r.fallback.LearningResources(req.Labels),
			Provider: types.ProviderStaticFallback,
			Fallback: true,
		}

	case types.TaskQuizGenerate:
		_, count := quizParams(req.Params)
		return &types.AIRouterResult{
			Success:  true,
			Data:     r.fallback.Quiz(req.Text, req.Labels, count),
			Provider: types.ProviderStaticFallback,
			Fallback: true,
		}

	default:
		return &types.AIRouterResult{
			Success:  false,
			Error:    fmt.Sprintf("任务 %s 无可用降级路径", req.Task),
			Provider: types.ProviderLocalNLP,
			Fallback: true,
		}
	}
}

// finish 补齐结果信封的耗时字段并结束span
func (r *Router) finish(span trace.Span, start time.Time, result *types.AIRouterResult) *types.AIRouterResult {
	result.LatencyMs = time.Since(start).Milliseconds()
	span.SetAttributes(
		attribute.Bool("success", result.Success),
		attribute.Bool("fallback", result.Fallback),
		attribute.String("provider", string(result.Provider)),
	)
	return result
}

// BackfillResumeFields 通过托管LLM补全简历缺失字段。
// 不在任务分发表内，但同样受托管LLM的限流与健康度约束。
// 出错返回error由解析器按非致命处理，这里不提供降级内容。
func (r *Router) BackfillResumeFields(ctx context.Context, resumeText string, missingFields []string) (map[string]json.RawMessage, error) {
	if !r.hostedReady {
		return nil, ErrLLMNotConfigured
	}
	if !r.limiters[string(types.ProviderHostedLLM)].CheckAndConsume() {
		return nil, fmt.Errorf("托管LLM窗口配额耗尽")
	}

	callStart := time.Now()
	fields, err := r.backfill.BackfillResumeFields(ctx, resumeText, missingFields)
	latency := time.Since(callStart).Milliseconds()

	if err != nil {
		r.health[string(types.ProviderHostedLLM)].RecordFailure(latency)
		return nil, err
	}
	r.health[string(types.ProviderHostedLLM)].RecordSuccess(latency)
	return fields, nil
}

// Stats 返回所有提供方的健康度快照
func (r *Router) Stats() map[string]types.ProviderStats {
	stats := make(map[string]types.ProviderStats, len(r.health))
	for provider, h := range r.health {
		requests, successes, failures, avgMs, degraded := h.Snapshot()
		stats[provider] = types.ProviderStats{
			Requests:     requests,
			Successes:    successes,
			Failures:     failures,
			AvgLatencyMs: avgMs,
			Degraded:     degraded,
		}
	}
	return stats
}

// Reset 清零指定提供方的健康度与限流窗口，provider为空时清零全部
func (r *Router) Reset(provider string) bool {
	if provider == "" {
		for name := range r.health {
			r.health[name].Reset()
			r.limiters[name].Reset()
		}
		return true
	}

	h, ok := r.health[provider]
	if !ok {
		return false
	}
	h.Reset()
	r.limiters[provider].Reset()
	return true
}

// classifyError 将提供方错误映射到追踪用的错误类型。
// 坏输出与超时单独分类，坏输出意味着后端契约漂移，值得独立监控。
func classifyError(err error) tracing.ErrorType {
	switch {
	case errors.Is(err, nlp.ErrWorkerTimeout):
		return tracing.ErrorTypeTimeout
	case errors.Is(err, nlp.ErrBadWorkerOutput),
		errors.Is(err, ErrNoJSONInResponse),
		errors.Is(err, ErrMalformedJSON):
		return tracing.ErrorTypeBadOutput
	case errors.Is(err, nlp.ErrWorkerFailed):
		return tracing.ErrorTypeWorker
	default:
		return tracing.ErrorTypeProvider
	}
}

// quizParams 从任务附加参数中取出题难度与数量，缺省或越界时回到默认值
func quizParams(params map[string]any) (string, int) {
	difficulty := constants.DefaultQuizDifficulty
	count := constants.DefaultQuizQuestionCount

	if d, ok := params["difficulty"].(string); ok && d != "" {
		difficulty = d
	}
	// 经过JSON反序列化的数字是float64，进程内直接构造的是int，两种都接受
	switch n := params["count"].(type) {
	case int:
		if n > 0 {
			count = n
		}
	case float64:
		if n > 0 {
			count = int(n)
		}
	}
	if count > constants.MaxQuizQuestionCount {
		count = constants.MaxQuizQuestionCount
	}
	return difficulty, count
}
