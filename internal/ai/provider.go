// Package ai 实现AI提供方适配器与任务路由。
// 所有任务经由Router分发，限流与健康度统计集中在Router层。
package ai

import (
	"context"
	"errors"

	"resume-intel-go/internal/types"
)

// 提供方错误哨兵。三类错误的恢复策略不同：
// 凭据缺失是进程级永久错误，直接走降级不重试；
// 传输错误与输出格式错误是单次调用级错误，触发降级链。
var (
	// ErrLLMNotConfigured 托管LLM凭据缺失
	ErrLLMNotConfigured = errors.New("hosted llm credentials not configured")
	// ErrLLMTransport 网络或HTTP层失败
	ErrLLMTransport = errors.New("hosted llm transport failure")
	// ErrNoJSONInResponse 生成文本中找不到JSON
	ErrNoJSONInResponse = errors.New("no json found in llm response")
	// ErrMalformedJSON 找到的JSON无法解析
	ErrMalformedJSON = errors.New("malformed json in llm response")
)

// Adapter 提供方适配器统一接口。
// 返回的数据形状因任务而异，由Router封装进AIRouterResult。
type Adapter interface {
	Name() string
	Invoke(ctx context.Context, req *types.TaskRequest) (any, error)
}
