package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danghm/docqa-be/repository"
	"github.com/danghm/docqa-be/types"
)

type fakeAI struct {
	answer string
	err    error
	calls  [][]types.Message
}

func (f *fakeAI) Generate(ctx context.Context, messages []types.Message, maxTokens int) (string, error) {
	f.calls = append(f.calls, messages)
	return f.answer, f.err
}

type memoryChatRepo struct {
	messages []types.ChatMessage
}

func (m *memoryChatRepo) AppendMessage(ctx context.Context, message *types.ChatMessage) error {
	m.messages = append(m.messages, *message)
	return nil
}

func (m *memoryChatRepo) GetMessages(ctx context.Context, chatID string) ([]types.ChatMessage, error) {
	var result []types.ChatMessage
	for _, msg := range m.messages {
		if msg.ChatID == chatID {
			result = append(result, msg)
		}
	}
	return result, nil
}

func newTestQAService(ai AIService, vectorDB *fakeVectorDB, chatRepo repository.ChatRepo) *QAService {
	retrieval := NewRetrievalService(&fakeEmbedder{}, vectorDB, 5, 8000)
	return NewQAService(retrieval, ai, chatRepo, 300)
}

func TestAskAnswersFromContext(t *testing.T) {
	ai := &fakeAI{answer: "it is about chunking"}
	vectorDB := &fakeVectorDB{searchResult: []types.ScoredChunk{
		scored("doc_0", "documents are split into chunks"),
	}}
	repo := &memoryChatRepo{}
	s := newTestQAService(ai, vectorDB, repo)

	resp, err := s.Ask(context.Background(), "", "what is this about?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.Answer != "it is about chunking" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.ChatID == "" {
		t.Error("expected a generated chat id")
	}
	if resp.ContextChunks != 1 {
		t.Errorf("ContextChunks = %d, want 1", resp.ContextChunks)
	}

	if len(ai.calls) != 1 {
		t.Fatalf("ai called %d times, want 1", len(ai.calls))
	}
	prompt := ai.calls[0][1].Content
	if !strings.Contains(prompt, "documents are split into chunks") {
		t.Errorf("prompt misses the retrieved context: %q", prompt)
	}

	history, err := s.History(context.Background(), resp.ChatID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 || history[0].Role != types.RoleUser || history[1].Role != types.RoleAssistant {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestAskEmptyIndexReturnsSentinelAnswer(t *testing.T) {
	ai := &fakeAI{answer: "should never be used"}
	s := newTestQAService(ai, &fakeVectorDB{}, nil)

	resp, err := s.Ask(context.Background(), "", "anything?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.Answer != NoContextAnswer {
		t.Errorf("answer = %q, want the no-context answer", resp.Answer)
	}
	if len(ai.calls) != 0 {
		t.Errorf("generation was called with no context available")
	}
}

func TestAskKeepsProvidedChatID(t *testing.T) {
	ai := &fakeAI{answer: "ok"}
	vectorDB := &fakeVectorDB{searchResult: []types.ScoredChunk{scored("doc_0", "context")}}
	s := newTestQAService(ai, vectorDB, nil)

	resp, err := s.Ask(context.Background(), "chat-42", "question")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.ChatID != "chat-42" {
		t.Errorf("ChatID = %q, want chat-42", resp.ChatID)
	}
}

func TestAskPropagatesGenerationError(t *testing.T) {
	genErr := &types.AnswerGenerationError{RateLimited: true, Attempts: 3, Err: errors.New("rate limit")}
	ai := &fakeAI{err: genErr}
	vectorDB := &fakeVectorDB{searchResult: []types.ScoredChunk{scored("doc_0", "context")}}
	s := newTestQAService(ai, vectorDB, nil)

	_, err := s.Ask(context.Background(), "", "question")
	var got *types.AnswerGenerationError
	if !errors.As(err, &got) || !got.RateLimited {
		t.Fatalf("expected the rate-limited generation error, got %v", err)
	}
}

func TestSummarizeUsesCorpusHead(t *testing.T) {
	ai := &fakeAI{answer: "a summary"}
	vectorDB := &fakeVectorDB{chunks: []types.DocumentChunk{
		{ChunkID: "doc_0", Content: "the opening chunk", Source: "doc.txt"},
	}}
	s := newTestQAService(ai, vectorDB, nil)

	summary, err := s.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary != "a summary" {
		t.Errorf("summary = %q", summary)
	}
	if len(ai.calls) != 1 || ai.calls[0][1].Content != "the opening chunk" {
		t.Errorf("unexpected prompt: %+v", ai.calls)
	}
}

func TestSummarizeEmptyIndex(t *testing.T) {
	ai := &fakeAI{answer: "should never be used"}
	s := newTestQAService(ai, &fakeVectorDB{}, nil)

	summary, err := s.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary != NoContextAnswer {
		t.Errorf("summary = %q, want the no-context answer", summary)
	}
}
