package service

import (
	"bytes"
	"context"
	"course_assistant_backend/internal/config"
	"course_assistant_backend/pkg/monitoring"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// AIService 负责与大模型服务的两类外部调用：内容审核与聊天补全。
// 两个端点均走 HTTPS + Bearer 鉴权，请求/响应结构遵循服务商公开契约。
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{},
	}
}

// Reload 配置热更新时替换全局接入参数
func (s *AIService) Reload(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

func (s *AIService) snapshot() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type ModerationRequest struct {
	Input string `json:"input"`
}

type ModerationResponse struct {
	Results []struct {
		Flagged bool `json:"flagged"`
	} `json:"results"`
}

// CompletionParams 一次补全调用的全部参数，来自实例配置
type CompletionParams struct {
	Model       string
	APIKey      string // 为空时回退到全局密钥
	Messages    []AIChatMessage
	MaxTokens   int
	Temperature float64
}

// Moderate 调用内容审核端点，返回输入是否被标记
func (s *AIService) Moderate(ctx context.Context, apiKey, input string) (bool, error) {
	cfg := s.snapshot()
	if apiKey == "" {
		apiKey = cfg.APIKey
	}

	body, err := json.Marshal(ModerationRequest{Input: input})
	if err != nil {
		return false, err
	}

	respBody, err := s.post(ctx, cfg.BaseURL+"/moderations", apiKey, body)
	if err != nil {
		monitoring.UpstreamCounter.WithLabelValues("moderations", "error").Inc()
		return false, err
	}
	monitoring.UpstreamCounter.WithLabelValues("moderations", "ok").Inc()

	var result ModerationResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return false, err
	}

	if len(result.Results) == 0 {
		return false, fmt.Errorf("moderation returned no results")
	}

	return result.Results[0].Flagged, nil
}

// Complete 调用聊天补全端点，返回回答文本
func (s *AIService) Complete(ctx context.Context, params CompletionParams) (string, error) {
	cfg := s.snapshot()

	apiKey := params.APIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	model := params.Model
	if model == "" {
		model = cfg.Model
	}

	reqBody := ChatCompletionRequest{
		Model:       model,
		Messages:    params.Messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	respBody, err := s.post(ctx, cfg.BaseURL+"/chat/completions", apiKey, body)
	if err != nil {
		monitoring.UpstreamCounter.WithLabelValues("chat_completions", "error").Inc()
		return "", err
	}
	monitoring.UpstreamCounter.WithLabelValues("chat_completions", "ok").Inc()

	var result ChatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

func (s *AIService) post(ctx context.Context, url, apiKey string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
