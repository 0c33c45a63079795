package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"cv-matcher/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildComparisonPrompt creates the resume-vs-job-description scoring prompt.
// Resumes are labeled by their 1-based position, and the model is asked for a
// JSON array with one entry per resume in the same order.
func (pb *PromptBuilder) BuildComparisonPrompt(jobDescription string, resumes []string) string {
	var labeled []string
	for i, resume := range resumes {
		labeled = append(labeled, fmt.Sprintf("Resume %d:\n%s", i+1, resume))
	}

	return fmt.Sprintf(`You are an expert IT HR consultant. Compare the following resumes with the job description
and provide a score from 1 to 100 for each resume based on how well it matches the job description.
Provide a brief explanation for each score.
Return the results in JSON format with the following structure:
[
    {
        "fullName": "John Doe",
        "score": 85,
        "explanation": "The candidate has relevant experience and skills."
    },
    ...
]
Return one entry per resume, in the same order the resumes are listed.

Job Description:
%s

Resumes:
%s`, jobDescription, strings.Join(labeled, "\n\n"))
}

// BuildSearchQueryPrompt asks the model for a boolean search string usable
// for sourcing candidates, with no surrounding prose.
func (pb *PromptBuilder) BuildSearchQueryPrompt(jobDescription string) string {
	return fmt.Sprintf(`You are an expert technical recruiter. Based on the key qualifications in the
job description below, generate a single boolean search string (using AND, OR, NOT and
parentheses) for sourcing candidates on a professional network.
Return ONLY the search string. No explanations, no labels, no markdown.

Job Description:
%s`, jobDescription)
}

var (
	linkedinRe     = regexp.MustCompile(`(?i)linkedin`)
	booleanLabelRe = regexp.MustCompile(`(?i)boolean search:`)
)

// SanitizeSearchQuery normalizes a raw model response into a bare search
// string: code fences, the word "linkedin" and any "boolean search:" label
// are removed, then surrounding whitespace is trimmed. Best effort only;
// the output is not validated against a boolean-search grammar.
func SanitizeSearchQuery(raw string) string {
	query := strings.ReplaceAll(raw, "```", "")
	query = linkedinRe.ReplaceAllString(query, "")
	query = booleanLabelRe.ReplaceAllString(query, "")
	return strings.TrimSpace(query)
}

// InterpretComparison reads the model's free-text output as a candidate
// list. When the text does not contain a parseable JSON array the raw text
// is surfaced as a degraded outcome instead of an error.
func InterpretComparison(raw string) models.ComparisonOutcome {
	jsonStr := extractJSON(raw)

	var candidates []models.CandidateResult
	if err := json.Unmarshal([]byte(jsonStr), &candidates); err != nil {
		return models.ComparisonOutcome{Raw: raw}
	}

	return models.ComparisonOutcome{Candidates: candidates, Structured: true}
}

// extractJSON pulls a JSON array or object out of text that might wrap it
// in markdown fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startArr := strings.Index(text, "[")
	endArr := strings.LastIndex(text, "]")
	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")

	if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	} else if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return text
}
