package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-matcher/internal/models"
)

func TestExtractText_PlainTextByMIME(t *testing.T) {
	e := NewDocumentExtractor()

	text, err := e.ExtractText(&models.UploadedFile{
		Name:     "jd.txt",
		MIMEType: "text/plain",
		Content:  []byte("Seeking a backend engineer with 5 years Go experience"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Seeking a backend engineer with 5 years Go experience", text)
}

func TestExtractText_PlainTextByExtensionFallback(t *testing.T) {
	e := NewDocumentExtractor()

	// Browsers and CLI clients sometimes send a generic content type.
	text, err := e.ExtractText(&models.UploadedFile{
		Name:     "jd.TXT",
		MIMEType: "application/octet-stream",
		Content:  []byte("some job description"),
	})

	require.NoError(t, err)
	assert.Equal(t, "some job description", text)
}

func TestExtractText_CorruptPDF(t *testing.T) {
	e := NewDocumentExtractor()

	_, err := e.ExtractText(&models.UploadedFile{
		Name:     "cv.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("this is not a pdf"),
	})

	require.Error(t, err)
	var extractionErr *models.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "cv.pdf", extractionErr.Filename)
}

func TestExtractText_CorruptDOCX(t *testing.T) {
	e := NewDocumentExtractor()

	_, err := e.ExtractText(&models.UploadedFile{
		Name:     "cv.docx",
		MIMEType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:  []byte("not a zip archive"),
	})

	var extractionErr *models.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
}

func TestExtractText_UnsupportedType(t *testing.T) {
	e := NewDocumentExtractor()

	_, err := e.ExtractText(&models.UploadedFile{
		Name:     "cv.png",
		MIMEType: "image/png",
		Content:  []byte{0x89, 0x50, 0x4e, 0x47},
	})

	var extractionErr *models.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestExtractText_EmptyDocument(t *testing.T) {
	e := NewDocumentExtractor()

	_, err := e.ExtractText(&models.UploadedFile{
		Name:     "empty.txt",
		MIMEType: "text/plain",
		Content:  []byte("   \n\t  "),
	})

	var extractionErr *models.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, err.Error(), "no text content")
}

func TestCleanText(t *testing.T) {
	in := "  first line \n\n\n   second line\t\n\n"

	assert.Equal(t, "first line\nsecond line", CleanText(in))
}
