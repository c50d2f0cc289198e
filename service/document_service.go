package service

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/danghm/docqa-be/types"
	"github.com/ledongthuc/pdf"
)

// DocumentService extracts plain text out of uploaded files.
type DocumentService struct{}

func NewDocumentService() *DocumentService {
	return &DocumentService{}
}

// DetectKind maps a file name to a document kind by extension.
func DetectKind(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return types.DocumentKindPDF, nil
	case ".txt", ".text", ".md":
		return types.DocumentKindText, nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(name))
	}
}

// ExtractText returns the document's full text. Failures here are per-file,
// the caller records the file as skipped and moves on.
func (s *DocumentService) ExtractText(doc types.Document) (string, error) {
	switch doc.Kind {
	case types.DocumentKindPDF:
		return s.extractPDF(doc.Path)
	case types.DocumentKindText:
		return s.extractPlainText(doc.Path)
	default:
		return "", fmt.Errorf("unsupported document kind: %s", doc.Kind)
	}
}

// extractPDF concatenates per-page text. A page that yields nothing
// contributes the empty string, only a broken file as a whole is an error.
func (s *DocumentService) extractPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	var builder strings.Builder
	totalPages := reader.NumPage()
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("Warning: failed to extract text from page %d: %v", pageNum, err)
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}
	return builder.String(), nil
}

func (s *DocumentService) extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8")
	}
	return string(data), nil
}
