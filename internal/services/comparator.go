package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"cv-matcher/internal/models"
)

// Comparator orchestrates one analysis request: extract the job description
// and every CV, ask the model to score the batch, interpret the reply.
type Comparator interface {
	Compare(ctx context.Context, jobDescription *models.UploadedFile, cvFiles []*models.UploadedFile) (*models.ComparisonOutcome, error)
	SearchQuery(ctx context.Context, jobDescription *models.UploadedFile) (string, error)
}

type comparatorService struct {
	extractor     DocumentExtractor
	generator     TextGenerator
	promptBuilder *PromptBuilder
	modelTimeout  time.Duration
}

func NewComparatorService(
	extractor DocumentExtractor,
	generator TextGenerator,
	modelTimeout time.Duration,
) Comparator {
	return &comparatorService{
		extractor:     extractor,
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		modelTimeout:  modelTimeout,
	}
}

// Compare never partially succeeds: either every CV is extracted and a
// single outcome is produced, or the whole request fails.
func (c *comparatorService) Compare(
	ctx context.Context,
	jobDescription *models.UploadedFile,
	cvFiles []*models.UploadedFile,
) (*models.ComparisonOutcome, error) {
	if jobDescription == nil {
		return nil, models.ErrMissingJobDescription
	}

	jobText, err := c.extractor.ExtractText(jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job description: %w", err)
	}

	resumeTexts, err := c.extractAll(cvFiles)
	if err != nil {
		return nil, err
	}

	prompt := c.promptBuilder.BuildComparisonPrompt(jobText, resumeTexts)
	log.Debug().Int("cv_count", len(cvFiles)).Int("prompt_chars", len(prompt)).Msg("comparison prompt built")

	response, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	outcome := InterpretComparison(response)
	if !outcome.Structured {
		log.Warn().Msg("model response did not parse as a result array, returning raw text")
	}

	return &outcome, nil
}

// SearchQuery generates a sanitized boolean search string from a job
// description file.
func (c *comparatorService) SearchQuery(ctx context.Context, jobDescription *models.UploadedFile) (string, error) {
	if jobDescription == nil {
		return "", models.ErrMissingJobDescription
	}

	jobText, err := c.extractor.ExtractText(jobDescription)
	if err != nil {
		return "", fmt.Errorf("failed to extract job description: %w", err)
	}

	response, err := c.generate(ctx, c.promptBuilder.BuildSearchQueryPrompt(jobText))
	if err != nil {
		return "", err
	}

	return SanitizeSearchQuery(response), nil
}

// extractAll extracts every CV concurrently. Extractions are independent,
// so each goroutine writes its own slot and the slice keeps input order.
// Any single failure fails the batch.
func (c *comparatorService) extractAll(cvFiles []*models.UploadedFile) ([]string, error) {
	texts := make([]string, len(cvFiles))
	errs := make([]error, len(cvFiles))

	var wg sync.WaitGroup
	for i, file := range cvFiles {
		wg.Add(1)
		go func(i int, file *models.UploadedFile) {
			defer wg.Done()
			texts[i], errs[i] = c.extractor.ExtractText(file)
		}(i, file)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return texts, nil
}

func (c *comparatorService) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.modelTimeout)
	defer cancel()

	return c.generator.GenerateText(ctx, prompt)
}
