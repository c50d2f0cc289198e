package service

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/danghm/docqa-be/types"
)

func mustChunkService(t *testing.T, config types.ChunkConfig) *ChunkService {
	t.Helper()
	s, err := NewChunkService(config)
	if err != nil {
		t.Fatalf("failed to create chunk service: %v", err)
	}
	return s
}

func TestNewChunkServiceRejectsBadConfig(t *testing.T) {
	bad := []types.ChunkConfig{
		{ChunkSize: 800, ChunkOverlap: -1, MinChunkLength: 50},
		{ChunkSize: 100, ChunkOverlap: 100, MinChunkLength: 50},
		{ChunkSize: 100, ChunkOverlap: 200, MinChunkLength: 50},
		{ChunkSize: 0, ChunkOverlap: 0, MinChunkLength: 0},
	}
	for _, config := range bad {
		_, err := NewChunkService(config)
		if !errors.Is(err, types.ErrInvalidChunkConfig) {
			t.Errorf("config %+v: expected ErrInvalidChunkConfig, got %v", config, err)
		}
	}
}

func TestSplitWindowPositions(t *testing.T) {
	s := mustChunkService(t, DefaultChunkConfig)
	text := strings.Repeat("abcdefghij", 200) // 2000 characters

	chunks := s.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks, got none")
	}

	runes := []rune(text)
	step := DefaultChunkConfig.ChunkSize - DefaultChunkConfig.ChunkOverlap
	for i, chunk := range chunks {
		pos := i * step
		end := pos + DefaultChunkConfig.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if chunk != string(runes[pos:end]) {
			t.Errorf("chunk %d does not match text window [%d:%d]", i, pos, end)
		}
	}
}

func TestSplitOverlapSharedWithPrevious(t *testing.T) {
	s := mustChunkService(t, types.ChunkConfig{ChunkSize: 10, ChunkOverlap: 3, MinChunkLength: 1})
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-3:]
		head := chunks[i][:3]
		if prevTail != head {
			t.Errorf("chunk %d head %q does not overlap previous tail %q", i, head, prevTail)
		}
	}
}

func TestSplitDropsShortRemainder(t *testing.T) {
	s := mustChunkService(t, types.ChunkConfig{ChunkSize: 10, ChunkOverlap: 2, MinChunkLength: 5})
	// 12 characters: second window [8:12] has 4 runes, below the minimum
	chunks := s.Split("abcdefghijkl")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "abcdefghij" {
		t.Errorf("unexpected chunk: %q", chunks[0])
	}
}

func TestSplitTextBelowMinimum(t *testing.T) {
	s := mustChunkService(t, DefaultChunkConfig)
	if chunks := s.Split("too short"); chunks != nil {
		t.Errorf("expected no chunks for short text, got %q", chunks)
	}
	if chunks := s.Split(""); chunks != nil {
		t.Errorf("expected no chunks for empty text, got %q", chunks)
	}
}

func TestSplitSingleChunkText(t *testing.T) {
	s := mustChunkService(t, DefaultChunkConfig)
	text := strings.Repeat("x", 100)
	chunks := s.Split(text)
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("expected the whole text as one chunk, got %q", chunks)
	}
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	s := mustChunkService(t, types.ChunkConfig{ChunkSize: 10, ChunkOverlap: 2, MinChunkLength: 1})
	text := strings.Repeat("日本語テキスト処理中です", 5) // 60 runes, 180 bytes

	chunks := s.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks, got none")
	}
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
		if n := utf8.RuneCountInString(chunk); n > 10 {
			t.Errorf("chunk %d has %d runes, want at most 10", i, n)
		}
	}
	if first := chunks[0]; utf8.RuneCountInString(first) != 10 {
		t.Errorf("first chunk has %d runes, want 10", utf8.RuneCountInString(first))
	}
}
