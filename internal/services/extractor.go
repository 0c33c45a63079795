package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"cv-matcher/internal/models"
)

const (
	mimePDF  = "application/pdf"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDoc  = "application/msword"
	mimeText = "text/plain"
)

type DocumentExtractor interface {
	ExtractText(file *models.UploadedFile) (string, error)
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

// ExtractText converts document bytes to plain text. Dispatch is on the
// declared MIME type, falling back to the filename extension for clients
// that send generic content types.
func (e *documentExtractor) ExtractText(file *models.UploadedFile) (string, error) {
	text, err := e.extract(file)
	if err != nil {
		return "", &models.ExtractionError{Filename: file.Name, Err: err}
	}

	if strings.TrimSpace(text) == "" {
		return "", &models.ExtractionError{
			Filename: file.Name,
			Err:      fmt.Errorf("no text content found in document"),
		}
	}

	return text, nil
}

func (e *documentExtractor) extract(file *models.UploadedFile) (string, error) {
	switch file.MIMEType {
	case mimePDF:
		return extractPDFText(file.Content)
	case mimeDocx, mimeDoc:
		return extractDocxText(file.Content)
	case mimeText:
		return string(file.Content), nil
	}

	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".pdf":
		return extractPDFText(file.Content)
	case ".docx", ".doc":
		return extractDocxText(file.Content)
	case ".txt":
		return string(file.Content), nil
	}

	return "", fmt.Errorf("unsupported file type: %s", file.MIMEType)
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse DOCX: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}

// CleanText normalizes extracted text: trims lines and drops empty ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
