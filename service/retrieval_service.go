package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/danghm/docqa-be/database"
	"github.com/danghm/docqa-be/types"
)

const contextSeparator = "\n\n"

// RetrievalService embeds a question, pulls the nearest chunks out of the
// index and assembles them into a bounded prompt context.
type RetrievalService struct {
	embedder   Embedder
	vectorDB   database.VectorDatabase
	topK       int
	charBudget int
}

func NewRetrievalService(embedder Embedder, vectorDB database.VectorDatabase, topK, charBudget int) *RetrievalService {
	if topK <= 0 {
		topK = 5
	}
	if charBudget <= 0 {
		charBudget = 8000
	}
	return &RetrievalService{
		embedder:   embedder,
		vectorDB:   vectorDB,
		topK:       topK,
		charBudget: charBudget,
	}
}

// RetrieveContext returns the concatenated top-k chunks for the query. An
// empty or untrained index yields an empty result, which the caller must
// distinguish from a backend error.
func (s *RetrievalService) RetrieveContext(ctx context.Context, query string) (*types.ContextResult, error) {
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	chunks, err := s.vectorDB.SearchSimilar(ctx, vector, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	if len(chunks) == 0 {
		return &types.ContextResult{}, nil
	}
	return s.assemble(chunks), nil
}

// Search exposes the raw scored chunks, used by the debug search endpoint.
func (s *RetrievalService) Search(ctx context.Context, query string, limit int) ([]types.ScoredChunk, error) {
	if limit <= 0 {
		limit = s.topK
	}
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return s.vectorDB.SearchSimilar(ctx, vector, limit)
}

// CorpusHead gathers the first indexed chunks up to the context budget. It
// seeds the corpus summary and never touches vector search.
func (s *RetrievalService) CorpusHead(ctx context.Context) (*types.ContextResult, error) {
	chunks, err := s.vectorDB.FirstChunks(ctx, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	if len(chunks) == 0 {
		return &types.ContextResult{}, nil
	}
	return s.assemble(chunks), nil
}

// assemble joins chunk texts in the given rank order and truncates the whole
// concatenation to the budget. Truncating after joining keeps higher-ranked
// chunks intact and cuts only the tail chunk when the budget runs out.
func (s *RetrievalService) assemble(chunks []types.ScoredChunk) *types.ContextResult {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	joined := strings.Join(texts, contextSeparator)
	if runes := []rune(joined); len(runes) > s.charBudget {
		joined = string(runes[:s.charBudget])
	}
	return &types.ContextResult{
		Text:       joined,
		ChunkCount: len(chunks),
	}
}
