package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danghm/docqa-be/types"
)

// AIService generates an answer from chat-style messages. maxTokens caps the
// answer length, it is a cost control and not a correctness constraint.
type AIService interface {
	Generate(ctx context.Context, messages []types.Message, maxTokens int) (string, error)
}

// AnswerMessages builds the Q&A prompt around the retrieved context.
func AnswerMessages(contextText, question string) []types.Message {
	return []types.Message{
		{Role: "system", Content: "Answer using the context."},
		{Role: types.RoleUser, Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)},
	}
}

// SummaryMessages builds the corpus summarization prompt.
func SummaryMessages(text string) []types.Message {
	return []types.Message{
		{Role: "system", Content: "Summarize the following document."},
		{Role: types.RoleUser, Content: text},
	}
}

// isRateLimitMessage is the fallback classifier for backends that only
// surface textual errors. Substring matching on provider wording is fragile,
// but it is all we have when no status code survives the wrapping.
func isRateLimitMessage(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "rate limit")
}

// generateWithRetry runs call up to attempts times. Rate-limited failures
// sleep a fixed backoff and retry, anything else propagates on first
// occurrence. No jitter and no exponential growth, the attempt ceiling is
// low enough that a fixed interval is sufficient.
func generateWithRetry(
	attempts int,
	backoff time.Duration,
	sleep func(time.Duration),
	isRateLimit func(error) bool,
	call func() (string, error),
) (string, error) {
	if attempts <= 0 {
		attempts = 3
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		answer, err := call()
		if err == nil {
			return answer, nil
		}
		lastErr = err
		if !isRateLimit(err) {
			return "", &types.AnswerGenerationError{
				RateLimited: false,
				Attempts:    attempt,
				Err:         err,
			}
		}
		if attempt < attempts {
			sleep(backoff)
		}
	}
	return "", &types.AnswerGenerationError{
		RateLimited: true,
		Attempts:    attempts,
		Err:         lastErr,
	}
}
