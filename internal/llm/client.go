package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"go.uber.org/zap"
)

// LLMClient define la interfaz para generar respuestas con un LLM.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	DefaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 1800
	maxAttempts      = 3
)

var ErrEmptyResponse = errors.New("llm empty response")

// OpenAIClient implementa LLMClient sobre la Responses API de OpenAI (o un endpoint compatible).
type OpenAIClient struct {
	client       *openai.Client
	model        string
	instructions string
	maxTokens    int64
	backoff      func(attempt int, err error) time.Duration
	logger       *zap.Logger
}

// NewOpenAIClient construye el cliente. baseURL vacio usa la API publica de OpenAI.
func NewOpenAIClient(baseURL, apiKey, model, instructions string, logger *zap.Logger) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client:       &client,
		model:        model,
		instructions: instructions,
		maxTokens:    defaultMaxTokens,
		backoff:      retryDelay,
		logger:       logger,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(c.maxTokens),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if c.instructions != "" {
		params.Instructions = openai.String(c.instructions)
	}

	resp, err := c.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *OpenAIClient) callWithRetry(ctx context.Context, params responses.ResponseNewParams) (*responses.Response, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := c.client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == maxAttempts-1 {
			break
		}
		wait := c.backoff(attempt, err)
		c.logger.Warn("llm call failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("llm request: %w", lastErr)
}

func retryDelay(attempt int, err error) time.Duration {
	if isRateLimitError(err) {
		return []time.Duration{10 * time.Second, 30 * time.Second, 60 * time.Second}[attempt]
	}
	return []time.Duration{2 * time.Second, 5 * time.Second, 15 * time.Second}[attempt]
}

func isRetryable(err error) bool {
	return isRateLimitError(err) || isServerError(err)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 500 {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error")
}
