package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"cv-matcher/internal/models"
)

// TextGenerator is the single outbound boundary to the language model.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
}

// NewGeminiService builds a Gemini-backed TextGenerator. The client is
// constructed once and injected into whatever needs it; nothing in this
// package holds it at package scope.
func NewGeminiService(ctx context.Context, apiKey, modelName string) (TextGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
	}, nil
}

// GenerateText sends the prompt to Gemini and returns the raw text output.
// One attempt only; the caller decides the deadline via ctx.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", &models.ModelInvocationError{Err: err}
	}

	if resp == nil {
		return "", &models.ModelInvocationError{Err: fmt.Errorf("no response generated (nil response)")}
	}

	text := resp.Text()
	if text == "" {
		log.Warn().Msg("no text content in model response")
		return "", &models.ModelInvocationError{Err: fmt.Errorf("no text content in response")}
	}

	return text, nil
}
