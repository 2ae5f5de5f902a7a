package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"resume-intel-go/internal/config"
	"resume-intel-go/internal/constants"
	"resume-intel-go/internal/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const watsonxAPIVersion = "2024-05-31"

// WatsonxChatModel 实现 model.ToolCallingChatModel 接口，
// 通过文本生成REST接口与IBM watsonx模型交互。
// IAM令牌有效期60分钟，本地缓存50分钟，避免在过期边界上竞态。
type WatsonxChatModel struct {
	cfg        config.HostedLLMConfig
	httpClient *http.Client

	tokenMu        sync.Mutex
	cachedToken    string
	tokenFetchedAt time.Time
}

// NewWatsonxChatModel 创建watsonx模型客户端。
// 凭据缺失时返回ErrLLMNotConfigured，调用方应将对应任务降级。
func NewWatsonxChatModel(cfg config.HostedLLMConfig) (*WatsonxChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, ErrLLMNotConfigured
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	return &WatsonxChatModel{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// iamTokenResponse IAM令牌交换响应
type iamTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// bearerToken 返回有效的IAM令牌，缓存期内直接复用
func (m *WatsonxChatModel) bearerToken(ctx context.Context) (string, error) {
	m.tokenMu.Lock()
	defer m.tokenMu.Unlock()

	if m.cachedToken != "" && time.Since(m.tokenFetchedAt) < constants.LLMTokenCacheDuration {
		return m.cachedToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ibm:params:oauth:grant-type:apikey")
	form.Set("apikey", m.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: 创建令牌请求失败: %v", ErrLLMTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: 令牌交换失败: %v", ErrLLMTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: 读取令牌响应失败: %v", ErrLLMTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: 令牌交换返回 %s", ErrLLMTransport, resp.Status)
	}

	var tokenResp iamTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("%w: 令牌响应解析失败: %v", ErrLLMTransport, err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: 令牌响应中无access_token", ErrLLMTransport)
	}

	m.cachedToken = tokenResp.AccessToken
	m.tokenFetchedAt = time.Now()

	logger.Debug().
		Int("expires_in", tokenResp.ExpiresIn).
		Msg("IAM令牌已刷新")

	return m.cachedToken, nil
}

// generationRequest watsonx文本生成请求体
type generationRequest struct {
	ModelID    string               `json:"model_id"`
	Input      string               `json:"input"`
	ProjectID  string               `json:"project_id"`
	Parameters generationParameters `json:"parameters"`
}

type generationParameters struct {
	DecodingMethod string  `json:"decoding_method"`
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature,omitempty"`
}

// generationResponse watsonx文本生成响应体
type generationResponse struct {
	Results []struct {
		GeneratedText string `json:"generated_text"`
		StopReason    string `json:"stop_reason"`
	} `json:"results"`
}

// Generate 实现 model.ChatModel 接口。
// 文本生成接口不支持对话消息数组，这里将消息按角色拼接为单段输入。
func (m *WatsonxChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	for _, opt := range options {
		_ = opt
	}

	token, err := m.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	decoding := "greedy"
	if m.cfg.Temperature > 0 {
		decoding = "sample"
	}

	reqPayload := generationRequest{
		ModelID:   m.cfg.Model,
		Input:     flattenMessages(messages),
		ProjectID: m.cfg.ProjectID,
		Parameters: generationParameters{
			DecodingMethod: decoding,
			MaxNewTokens:   m.cfg.MaxTokens,
			Temperature:    m.cfg.Temperature,
		},
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	endpoint := m.cfg.BaseURL + "?version=" + watsonxAPIVersion

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: 创建HTTP请求失败: %v", ErrLLMTransport, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMTransport, err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取响应体失败: %v", ErrLLMTransport, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		// 401时令牌可能已被服务端提前吊销，清除缓存让下次调用重新交换
		if httpResp.StatusCode == http.StatusUnauthorized {
			m.tokenMu.Lock()
			m.cachedToken = ""
			m.tokenMu.Unlock()
		}
		return nil, fmt.Errorf("%w: 生成接口返回 %s: %s",
			ErrLLMTransport, httpResp.Status, truncateBody(bodyBytes, 300))
	}

	var genResp generationResponse
	if err := json.Unmarshal(bodyBytes, &genResp); err != nil {
		return nil, fmt.Errorf("%w: 响应解析失败: %v", ErrMalformedJSON, err)
	}
	if len(genResp.Results) == 0 {
		return nil, fmt.Errorf("%w: 响应中无生成结果", ErrMalformedJSON)
	}

	return &schema.Message{
		Role:    schema.Assistant,
		Content: genResp.Results[0].GeneratedText,
	}, nil
}

// Stream 实现 model.ChatModel 接口。生成任务均为短请求，未实现流式。
func (m *WatsonxChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("WatsonxChatModel 未实现流式生成")
}

// WithTools 实现 model.ToolCallingChatModel 接口。
// 文本生成接口不支持结构化工具调用，工具描述拼入提示词由调用方自行处理。
func (m *WatsonxChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if len(tools) > 0 {
		logger.Warn().
			Int("tool_count", len(tools)).
			Msg("watsonx文本生成接口不支持结构化工具调用，忽略工具绑定")
	}
	return m, nil
}

var _ model.ToolCallingChatModel = (*WatsonxChatModel)(nil)

// flattenMessages 将对话消息拼接为单段输入文本
func flattenMessages(messages []*schema.Message) string {
	var sb strings.Builder
	for _, msg := range messages {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.System:
			sb.WriteString(msg.Content)
			sb.WriteString("\n\n")
		case schema.User:
			sb.WriteString(msg.Content)
			sb.WriteString("\n")
		default:
			sb.WriteString(msg.Content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func truncateBody(body []byte, max int) string {
	s := string(body)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
