package types

const (
	DocumentKindPDF  = "pdf"
	DocumentKindText = "txt"
)

// Document is one uploaded file queued for indexing. It only lives for the
// duration of a train run, the vector store owns everything after that.
type Document struct {
	Name string // original file name, reported back in the index summary
	Path string // where the upload was saved on disk
	Kind string // DocumentKindPDF or DocumentKindText
}

// DocumentChunk is the unit of embedding and retrieval.
type DocumentChunk struct {
	ChunkID string // "doc_<n>", n strictly increasing over the whole run
	Index   int    // insertion position over the whole run, drives FirstChunks ordering
	Content string
	Source  string // file the chunk was cut from
}

// ScoredChunk is a retrieval hit together with its cosine distance score.
type ScoredChunk struct {
	ChunkID string  `json:"chunk_id"`
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float32 `json:"score"`
}

// ChunkConfig contains configuration options for text chunking
type ChunkConfig struct {
	ChunkSize      int // maximum chunk length in characters
	ChunkOverlap   int // characters shared with the previous chunk
	MinChunkLength int // chunks shorter than this are dropped
}

// SkippedFile records a file the pipeline could not index and why.
type SkippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// IndexReport summarizes one train run.
type IndexReport struct {
	ChunkCount   int           `json:"chunk_count"`
	IndexedFiles int           `json:"indexed_files"`
	SkippedFiles []SkippedFile `json:"skipped_files,omitempty"`
}

// ContextResult is the assembled retrieval context for one question.
type ContextResult struct {
	Text       string `json:"text"`
	ChunkCount int    `json:"chunk_count"`
}

// Empty reports whether retrieval found nothing for the query. Callers must
// treat this as the "no relevant information" case, not as an error.
func (r *ContextResult) Empty() bool {
	return r.ChunkCount == 0
}
