package database

import (
	"context"

	"github.com/danghm/docqa-be/types"
)

// VectorDatabase defines the vector index boundary used by the pipeline and
// the retrieval service. The collection lifecycle is delete-then-recreate,
// there is no incremental update path.
type VectorDatabase interface {
	// RecreateCollection drops the collection if it exists and creates it
	// empty with cosine similarity. Absence of a prior collection is not an
	// error.
	RecreateCollection(ctx context.Context) error

	// BatchUpsertChunks inserts chunks with their vectors, len(chunks) must
	// equal len(vectors).
	BatchUpsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) error

	// SearchSimilar returns the limit nearest chunks to the vector, most
	// similar first.
	SearchSimilar(ctx context.Context, vector []float32, limit int) ([]types.ScoredChunk, error)

	// FirstChunks returns chunks in insertion order, used to seed the corpus
	// summary.
	FirstChunks(ctx context.Context, limit int) ([]types.ScoredChunk, error)
}

// ChatStore defines the interface for conversation history
type ChatStore interface {
	AppendMessage(ctx context.Context, message *types.ChatMessage) error
	GetMessages(ctx context.Context, chatID string) ([]types.ChatMessage, error)
}
