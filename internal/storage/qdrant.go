package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"resume-intel-go/internal/config"
	"resume-intel-go/internal/logger"
)

// Qdrant 向量数据库客户端，通过REST接口访问
type Qdrant struct {
	endpoint   string
	collection string
	dimension  int
	apiKey     string
	httpClient *http.Client
}

// NewQdrant 创建客户端并确保集合存在
func NewQdrant(cfg config.QdrantConfig) (*Qdrant, error) {
	q := &Qdrant{
		endpoint:   cfg.Endpoint,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := q.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return q, nil
}

// ensureCollection 集合不存在时按配置的维度创建
func (q *Qdrant) ensureCollection(ctx context.Context) error {
	path := "/collections/" + q.collection

	err := q.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err == nil {
		return nil
	}

	createBody := map[string]any{
		"vectors": map[string]any{
			"size":     q.dimension,
			"distance": "Cosine",
		},
	}
	if err := q.doRequest(ctx, http.MethodPut, path, createBody, nil); err != nil {
		return fmt.Errorf("创建Qdrant集合失败: %w", err)
	}

	logger.Info().
		Str("collection", q.collection).
		Int("dimension", q.dimension).
		Msg("Qdrant集合已创建")
	return nil
}

// UpsertEmbedding 写入或更新一条简历向量及其负载
func (q *Qdrant) UpsertEmbedding(ctx context.Context, pointID string, vector []float32, payload map[string]any) error {
	if len(vector) != q.dimension {
		return fmt.Errorf("向量维度不匹配: 期望%d, 实际%d", q.dimension, len(vector))
	}

	body := map[string]any{
		"points": []map[string]any{
			{
				"id":      pointID,
				"vector":  vector,
				"payload": payload,
			},
		},
	}

	path := fmt.Sprintf("/collections/%s/points?wait=true", q.collection)
	if err := q.doRequest(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("写入向量失败: %w", err)
	}
	return nil
}

// SearchResult 相似度搜索结果
type SearchResult struct {
	ID      string         `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

type searchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// SearchSimilar 按余弦相似度检索最接近的简历
func (q *Qdrant) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}

	var resp searchResponse
	path := fmt.Sprintf("/collections/%s/points/search", q.collection)
	if err := q.doRequest(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("向量搜索失败: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, SearchResult{
			ID:      fmt.Sprintf("%v", r.ID),
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return results, nil
}

// doRequest 执行一次REST请求，非2xx状态码视为错误
func (q *Qdrant) doRequest(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求体失败: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Qdrant返回 %s: %s", resp.Status, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("解析响应失败: %w", err)
		}
	}
	return nil
}
