package service

import (
	"context"
	"log"

	"github.com/danghm/docqa-be/repository"
	"github.com/danghm/docqa-be/types"
	"github.com/google/uuid"
)

// NoContextAnswer is returned when the index holds nothing relevant for the
// question. Distinct from an error, the pipeline simply has no material.
const NoContextAnswer = "No relevant information found in the knowledge base. Upload and train documents first."

// QAService ties retrieval, answer generation and conversation history into
// the ask flow shared by the HTTP handler, the websocket service and the CLI.
type QAService struct {
	retrieval       *RetrievalService
	ai              AIService
	chatRepo        repository.ChatRepo
	maxAnswerTokens int
}

func NewQAService(retrieval *RetrievalService, ai AIService, chatRepo repository.ChatRepo, maxAnswerTokens int) *QAService {
	if maxAnswerTokens <= 0 {
		maxAnswerTokens = 300
	}
	return &QAService{
		retrieval:       retrieval,
		ai:              ai,
		chatRepo:        chatRepo,
		maxAnswerTokens: maxAnswerTokens,
	}
}

// Ask answers one question grounded in the index. chatID may be empty, a new
// conversation is started then. History writes are best effort, a failing
// Mongo must not eat a generated answer.
func (s *QAService) Ask(ctx context.Context, chatID, question string) (*types.AskResponse, error) {
	if chatID == "" {
		chatID = uuid.NewString()
	}

	result, err := s.retrieval.RetrieveContext(ctx, question)
	if err != nil {
		return nil, err
	}

	var answer string
	if result.Empty() {
		answer = NoContextAnswer
	} else {
		answer, err = s.ai.Generate(ctx, AnswerMessages(result.Text, question), s.maxAnswerTokens)
		if err != nil {
			return nil, err
		}
	}

	s.appendHistory(ctx, chatID, types.RoleUser, question)
	s.appendHistory(ctx, chatID, types.RoleAssistant, answer)

	return &types.AskResponse{
		ChatID:        chatID,
		Answer:        answer,
		ContextChunks: result.ChunkCount,
	}, nil
}

// Summarize produces a corpus summary from the first indexed chunks.
func (s *QAService) Summarize(ctx context.Context) (string, error) {
	result, err := s.retrieval.CorpusHead(ctx)
	if err != nil {
		return "", err
	}
	if result.Empty() {
		return NoContextAnswer, nil
	}
	return s.ai.Generate(ctx, SummaryMessages(result.Text), s.maxAnswerTokens)
}

func (s *QAService) History(ctx context.Context, chatID string) ([]types.ChatMessage, error) {
	return s.chatRepo.GetMessages(ctx, chatID)
}

func (s *QAService) appendHistory(ctx context.Context, chatID, role, content string) {
	if s.chatRepo == nil {
		return
	}
	err := s.chatRepo.AppendMessage(ctx, &types.ChatMessage{
		ChatID:  chatID,
		Role:    role,
		Content: content,
	})
	if err != nil {
		log.Printf("Failed to append %s message to chat %s: %v", role, chatID, err)
	}
}
