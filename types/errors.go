package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChunkConfig is returned before any chunking starts when the
	// configured step (chunk_size - chunk_overlap) cannot make progress.
	ErrInvalidChunkConfig = errors.New("chunk_size must be greater than chunk_overlap and chunk_overlap must not be negative")

	// ErrNoReadableText is the whole-batch outcome when every uploaded file
	// yielded zero chunks. It is an empty result, not a hard failure.
	ErrNoReadableText = errors.New("no readable text found in the uploaded files")
)

// FileExtractionError wraps a per-file extraction failure. The pipeline
// records it and moves on to the next file.
type FileExtractionError struct {
	Name string
	Err  error
}

func (e *FileExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Name, e.Err)
}

func (e *FileExtractionError) Unwrap() error { return e.Err }

// AnswerGenerationError is returned once the generation retry budget is
// exhausted. RateLimited tells the caller which user-facing message to show.
type AnswerGenerationError struct {
	RateLimited bool
	Attempts    int
	Err         error
}

func (e *AnswerGenerationError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("answer generation rate limited after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("answer generation failed: %v", e.Err)
}

func (e *AnswerGenerationError) Unwrap() error { return e.Err }
