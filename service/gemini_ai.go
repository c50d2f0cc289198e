package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danghm/docqa-be/types"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiService is the alternative provider, it serves both answer
// generation and embeddings through the Google Generative AI API.
type GeminiService struct {
	client         *genai.Client
	model          string
	embeddingModel string
	batchSize      int
	attempts       int
	backoff        time.Duration
	sleep          func(time.Duration)
}

func NewGeminiService(ctx context.Context, apiKey, model, embeddingModel string, batchSize, attempts, backoffSeconds int) (*GeminiService, error) {
	if apiKey == "" {
		return nil, errors.New("no API key provided")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if embeddingModel == "" {
		embeddingModel = "text-embedding-004"
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if attempts <= 0 {
		attempts = 3
	}
	if backoffSeconds <= 0 {
		backoffSeconds = 5
	}
	return &GeminiService{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
		batchSize:      batchSize,
		attempts:       attempts,
		backoff:        time.Duration(backoffSeconds) * time.Second,
		sleep:          time.Sleep,
	}, nil
}

func (s *GeminiService) Generate(ctx context.Context, messages []types.Message, maxTokens int) (string, error) {
	return generateWithRetry(s.attempts, s.backoff, s.sleep, isGeminiRateLimit, func() (string, error) {
		return s.complete(ctx, messages, maxTokens)
	})
}

func (s *GeminiService) complete(ctx context.Context, messages []types.Message, maxTokens int) (string, error) {
	model := s.client.GenerativeModel(s.model)
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	// gemini has no system role in history, system content becomes the
	// system instruction and the rest is sent as the prompt
	var prompt string
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(msg.Content)},
			}
		default:
			if prompt != "" {
				prompt += "\n"
			}
			prompt += msg.Content
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}
	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return content, nil
}

func (s *GeminiService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	em := s.client.EmbeddingModel(s.embeddingModel)
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := em.NewBatch()
		for _, text := range texts[start:end] {
			batch = batch.AddContent(genai.Text(text))
		}
		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embedding request failed: %w", err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("embedding backend returned %d vectors for %d inputs", len(resp.Embeddings), end-start)
		}
		for _, embedding := range resp.Embeddings {
			vectors = append(vectors, embedding.Values)
		}
	}
	return vectors, nil
}

func (s *GeminiService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	em := s.client.EmbeddingModel(s.embeddingModel)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if resp.Embedding == nil {
		return nil, errors.New("no embedding returned")
	}
	return resp.Embedding.Values, nil
}

func isGeminiRateLimit(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429
	}
	return isRateLimitMessage(err)
}
