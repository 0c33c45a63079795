package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cv-matcher/internal/models"
	"cv-matcher/internal/services"
)

type SearchHandler struct {
	comparator  services.Comparator
	maxFileSize int64
}

func NewSearchHandler(comparator services.Comparator, maxFileSize int64) *SearchHandler {
	return &SearchHandler{
		comparator:  comparator,
		maxFileSize: maxFileSize,
	}
}

// HandleSearchQuery handles POST /api/search-query: one "jobDescription"
// multipart part in, one boolean search string out.
func (h *SearchHandler) HandleSearchQuery(c *fiber.Ctx) error {
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

	if jobHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	jobFile, err := readUpload(jobHeader)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read job description upload")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate search query",
		})
	}

	search, err := h.comparator.SearchQuery(c.Context(), jobFile)
	if err != nil {
		logger.Error().Err(err).Msg("search query generation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate search query",
		})
	}

	return c.JSON(models.SearchResponse{
		Message: "Search query generated successfully",
		Search:  search,
	})
}
