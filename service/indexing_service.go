package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/danghm/docqa-be/database"
	"github.com/danghm/docqa-be/types"
)

// IndexingService runs the train pipeline: extract, chunk, embed and upsert
// into a freshly recreated collection. It holds no chunk state of its own.
type IndexingService struct {
	documentService *DocumentService
	chunkService    *ChunkService
	embedder        Embedder
	vectorDB        database.VectorDatabase

	// serializes delete-collection/create-collection/populate, a later train
	// run waits for the running one instead of interleaving with it
	mu sync.Mutex
}

func NewIndexingService(
	documentService *DocumentService,
	chunkService *ChunkService,
	embedder Embedder,
	vectorDB database.VectorDatabase,
) *IndexingService {
	return &IndexingService{
		documentService: documentService,
		chunkService:    chunkService,
		embedder:        embedder,
		vectorDB:        vectorDB,
	}
}

// IndexDocuments rebuilds the collection from the given upload set. The
// collection is recreated exactly once before any insert, so the index never
// mixes chunks from successive train runs. Extraction and embedding failures
// skip the affected file only, the rest of the batch continues. A run that
// produces zero chunks returns ErrNoReadableText together with the report.
// Concurrent calls serialize, a second run waits and then rebuilds over the
// first one's result. progress may be nil.
func (s *IndexingService) IndexDocuments(ctx context.Context, docs []types.Document, progress func(types.TrainProgress)) (*types.IndexReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.vectorDB.RecreateCollection(ctx); err != nil {
		return nil, fmt.Errorf("failed to recreate collection: %w", err)
	}

	report := &types.IndexReport{}
	chunkIndex := 0

	for i, doc := range docs {
		if progress != nil {
			progress(types.TrainProgress{
				Status:         "processing",
				Message:        fmt.Sprintf("Processing %s", doc.Name),
				TotalFiles:     len(docs),
				ProcessedFiles: i,
				ChunkCount:     report.ChunkCount,
			})
		}

		text, err := s.documentService.ExtractText(doc)
		if err != nil {
			extractErr := &types.FileExtractionError{Name: doc.Name, Err: err}
			log.Println(extractErr)
			report.SkippedFiles = append(report.SkippedFiles, types.SkippedFile{
				Name:   doc.Name,
				Reason: err.Error(),
			})
			continue
		}

		pieces := s.chunkService.Split(text)
		if len(pieces) == 0 {
			continue
		}
		chunks := make([]types.DocumentChunk, len(pieces))
		texts := make([]string, len(pieces))
		for j, piece := range pieces {
			chunks[j] = types.DocumentChunk{
				ChunkID: fmt.Sprintf("doc_%d", chunkIndex+j),
				Index:   chunkIndex + j,
				Content: piece,
				Source:  doc.Name,
			}
			texts[j] = piece
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			// embedding failure skips this document only, ids already
			// handed out stay unused so the rest of the run keeps unique ids
			log.Printf("Failed to embed %s: %v", doc.Name, err)
			report.SkippedFiles = append(report.SkippedFiles, types.SkippedFile{
				Name:   doc.Name,
				Reason: fmt.Sprintf("embedding failed: %v", err),
			})
			chunkIndex += len(pieces)
			continue
		}

		if err := s.vectorDB.BatchUpsertChunks(ctx, chunks, vectors); err != nil {
			return nil, fmt.Errorf("failed to upsert chunks of %s: %w", doc.Name, err)
		}
		chunkIndex += len(pieces)
		report.ChunkCount += len(pieces)
		report.IndexedFiles++
	}

	if progress != nil {
		progress(types.TrainProgress{
			Status:         "completed",
			Message:        fmt.Sprintf("Indexed %d chunks", report.ChunkCount),
			TotalFiles:     len(docs),
			ProcessedFiles: len(docs),
			ChunkCount:     report.ChunkCount,
		})
	}
	if report.ChunkCount == 0 {
		return report, types.ErrNoReadableText
	}
	return report, nil
}
