package service

import (
	"github.com/danghm/docqa-be/types"
)

// ChunkService splits extracted text into fixed-size overlapping chunks.
type ChunkService struct {
	chunkSize      int
	chunkOverlap   int
	minChunkLength int
}

var DefaultChunkConfig = types.ChunkConfig{
	ChunkSize:      800,
	ChunkOverlap:   100,
	MinChunkLength: 50,
}

// NewChunkService rejects configurations whose advance step cannot make
// progress, otherwise Split would loop forever.
func NewChunkService(config types.ChunkConfig) (*ChunkService, error) {
	if config.ChunkOverlap < 0 || config.ChunkSize <= config.ChunkOverlap {
		return nil, types.ErrInvalidChunkConfig
	}
	return &ChunkService{
		chunkSize:      config.ChunkSize,
		chunkOverlap:   config.ChunkOverlap,
		minChunkLength: config.MinChunkLength,
	}, nil
}

// Split walks the text from offset 0, emitting chunkSize characters and
// stepping forward by chunkSize-chunkOverlap each time. Chunks below the
// minimum length are dropped, which in practice removes the trailing
// remainder and noise fragments. Lengths are counted in runes so multi-byte
// text never gets cut mid-character.
func (s *ChunkService) Split(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.chunkOverlap

	var chunks []string
	for pos := 0; pos < len(runes); pos += step {
		end := pos + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if end-pos < s.minChunkLength {
			continue
		}
		chunks = append(chunks, string(runes[pos:end]))
	}
	return chunks
}
