package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cv-matcher/internal/models"
	"cv-matcher/internal/services"
)

type CompareHandler struct {
	comparator  services.Comparator
	maxFileSize int64
}

func NewCompareHandler(comparator services.Comparator, maxFileSize int64) *CompareHandler {
	return &CompareHandler{
		comparator:  comparator,
		maxFileSize: maxFileSize,
	}
}

// HandleCompare handles POST /api/compare. The multipart body carries the
// job description under "jobDescription" and the CV batch either as
// repeated "cvFiles" parts or as legacy indexed "cvFiles[0]", "cvFiles[1]",
// ... fields.
func (h *CompareHandler) HandleCompare(c *fiber.Ctx) error {
	requestID := uuid.New().String()
	logger := log.With().Str("request_id", requestID).Logger()

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	jobHeader := firstFile(form, "jobDescription")
	if jobHeader == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No job description file received",
		})
	}

	cvHeaders := collectCVFiles(form)

	headers := append([]*multipart.FileHeader{jobHeader}, cvHeaders...)
	for _, header := range headers {
		if header.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
			})
		}
	}

	jobFile, err := readUpload(jobHeader)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read job description upload")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process upload",
		})
	}

	cvFiles := make([]*models.UploadedFile, 0, len(cvHeaders))
	for i, header := range cvHeaders {
		file, err := readUpload(header)
		if err != nil {
			logger.Error().Err(err).Int("index", i).Msg("failed to read CV upload")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to process upload",
			})
		}
		logger.Debug().Int("index", i).Str("name", file.Name).Int64("size", file.Size).Msg("CV received")
		cvFiles = append(cvFiles, file)
	}

	outcome, err := h.comparator.Compare(c.Context(), jobFile, cvFiles)
	if err != nil {
		if errors.Is(err, models.ErrMissingJobDescription) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No job description file received",
			})
		}
		logger.Error().Err(err).Msg("comparison failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process upload",
		})
	}

	return c.JSON(models.CompareResponse{
		Message: "Files received successfully",
		Result:  *outcome,
	})
}

// collectCVFiles gathers the CV batch in input order. Repeated "cvFiles"
// parts win; otherwise the legacy indexed encoding is read until the first
// missing index, which terminates the list.
func collectCVFiles(form *multipart.Form) []*multipart.FileHeader {
	if headers, ok := form.File["cvFiles"]; ok && len(headers) > 0 {
		return headers
	}

	var headers []*multipart.FileHeader
	for i := 0; ; i++ {
		header := firstFile(form, fmt.Sprintf("cvFiles[%d]", i))
		if header == nil {
			break
		}
		headers = append(headers, header)
	}
	return headers
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if headers, ok := form.File[field]; ok && len(headers) > 0 {
		return headers[0]
	}
	return nil
}

func readUpload(header *multipart.FileHeader) (*models.UploadedFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &models.UploadedFile{
		Name:     header.Filename,
		Size:     header.Size,
		MIMEType: header.Header.Get("Content-Type"),
		Content:  content,
	}, nil
}
