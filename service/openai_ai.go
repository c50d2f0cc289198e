package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danghm/docqa-be/types"
	"github.com/sashabaranov/go-openai"
)

// OpenAIService talks to any OpenAI-compatible chat completion endpoint,
// Groq included. Transient rate-limit failures are retried a bounded number
// of times with a fixed backoff.
type OpenAIService struct {
	client   *openai.Client
	model    string
	attempts int
	backoff  time.Duration

	// replaced in tests so retries do not block the suite
	sleep func(time.Duration)
}

func NewOpenAIService(baseURL, apiKey, model string, attempts, backoffSeconds int) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if attempts <= 0 {
		attempts = 3
	}
	if backoffSeconds <= 0 {
		backoffSeconds = 5
	}
	return &OpenAIService{
		client:   openai.NewClientWithConfig(config),
		model:    model,
		attempts: attempts,
		backoff:  time.Duration(backoffSeconds) * time.Second,
		sleep:    time.Sleep,
	}
}

func (s *OpenAIService) Generate(ctx context.Context, messages []types.Message, maxTokens int) (string, error) {
	return generateWithRetry(s.attempts, s.backoff, s.sleep, isOpenAIRateLimit, func() (string, error) {
		return s.complete(ctx, messages, maxTokens)
	})
}

func (s *OpenAIService) complete(ctx context.Context, messages []types.Message, maxTokens int) (string, error) {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages:  openaiMessages,
			Model:     s.model,
			MaxTokens: maxTokens,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}

// isOpenAIRateLimit prefers the structured status code and only falls back
// to matching the error text.
func isOpenAIRateLimit(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return isRateLimitMessage(err)
}
