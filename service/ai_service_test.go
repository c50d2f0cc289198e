package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danghm/docqa-be/types"
)

func recordSleeps(sleeps *[]time.Duration) func(time.Duration) {
	return func(d time.Duration) {
		*sleeps = append(*sleeps, d)
	}
}

func TestGenerateWithRetryFirstTrySuccess(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	answer, err := generateWithRetry(3, 5*time.Second, recordSleeps(&sleeps), isRateLimitMessage, func() (string, error) {
		calls++
		return "the answer", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "the answer" || calls != 1 {
		t.Errorf("answer=%q calls=%d", answer, calls)
	}
	if len(sleeps) != 0 {
		t.Errorf("slept %d times on a clean call", len(sleeps))
	}
}

func TestGenerateWithRetryRecoversFromRateLimit(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	answer, err := generateWithRetry(3, 5*time.Second, recordSleeps(&sleeps), isRateLimitMessage, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("rate limit exceeded, slow down")
		}
		return "eventually", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "eventually" || calls != 3 {
		t.Errorf("answer=%q calls=%d", answer, calls)
	}
	if len(sleeps) != 2 {
		t.Fatalf("slept %d times, want 2", len(sleeps))
	}
	for _, d := range sleeps {
		if d != 5*time.Second {
			t.Errorf("slept %v, want the fixed 5s backoff", d)
		}
	}
}

func TestGenerateWithRetryExhaustsAttempts(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	_, err := generateWithRetry(3, 5*time.Second, recordSleeps(&sleeps), isRateLimitMessage, func() (string, error) {
		calls++
		return "", errors.New("rate limit exceeded")
	})
	if calls != 3 {
		t.Errorf("made %d calls, want 3", calls)
	}
	// the final failure does not sleep, nobody is waiting after it
	if len(sleeps) != 2 {
		t.Errorf("slept %d times, want 2", len(sleeps))
	}

	var genErr *types.AnswerGenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected AnswerGenerationError, got %v", err)
	}
	if !genErr.RateLimited || genErr.Attempts != 3 {
		t.Errorf("unexpected error detail: %+v", genErr)
	}
}

func TestGenerateWithRetryFailsFastOnOtherErrors(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	_, err := generateWithRetry(3, 5*time.Second, recordSleeps(&sleeps), isRateLimitMessage, func() (string, error) {
		calls++
		return "", errors.New("model not found")
	})
	if calls != 1 {
		t.Errorf("made %d calls, want 1", calls)
	}
	if len(sleeps) != 0 {
		t.Errorf("slept %d times on a non-retryable error", len(sleeps))
	}

	var genErr *types.AnswerGenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected AnswerGenerationError, got %v", err)
	}
	if genErr.RateLimited {
		t.Errorf("non rate-limit failure marked RateLimited")
	}
}

func TestIsRateLimitMessage(t *testing.T) {
	if !isRateLimitMessage(errors.New("Rate Limit reached for model")) {
		t.Error("case-insensitive match failed")
	}
	if isRateLimitMessage(errors.New("connection refused")) {
		t.Error("matched an unrelated error")
	}
	if isRateLimitMessage(nil) {
		t.Error("matched nil")
	}
}

func TestAnswerMessagesShape(t *testing.T) {
	messages := AnswerMessages("chunk one\n\nchunk two", "what is this?")
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Role != "system" || messages[0].Content != "Answer using the context." {
		t.Errorf("unexpected system message: %+v", messages[0])
	}
	if messages[1].Role != types.RoleUser {
		t.Errorf("unexpected user role: %q", messages[1].Role)
	}
	if !strings.Contains(messages[1].Content, "chunk one") || !strings.Contains(messages[1].Content, "what is this?") {
		t.Errorf("user message misses context or question: %q", messages[1].Content)
	}
}

func TestSummaryMessagesShape(t *testing.T) {
	messages := SummaryMessages("the document body")
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Content != "Summarize the following document." {
		t.Errorf("unexpected system message: %q", messages[0].Content)
	}
	if messages[1].Content != "the document body" {
		t.Errorf("unexpected user message: %q", messages[1].Content)
	}
}
