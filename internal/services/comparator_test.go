package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-matcher/internal/models"
)

// stubExtractor maps filenames to canned texts and can fail selected files.
type stubExtractor struct {
	texts    map[string]string
	failFile string
}

func (s *stubExtractor) ExtractText(file *models.UploadedFile) (string, error) {
	if file.Name == s.failFile {
		return "", &models.ExtractionError{Filename: file.Name, Err: errors.New("corrupt")}
	}
	if text, ok := s.texts[file.Name]; ok {
		return text, nil
	}
	return string(file.Content), nil
}

// stubGenerator records the prompt and returns a canned response.
type stubGenerator struct {
	response    string
	err         error
	lastPrompt  string
	sawDeadline bool
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	_, s.sawDeadline = ctx.Deadline()
	return s.response, s.err
}

func upload(name, text string) *models.UploadedFile {
	return &models.UploadedFile{
		Name:     name,
		Size:     int64(len(text)),
		MIMEType: "text/plain",
		Content:  []byte(text),
	}
}

func TestCompare_MissingJobDescription(t *testing.T) {
	c := NewComparatorService(&stubExtractor{}, &stubGenerator{}, time.Minute)

	_, err := c.Compare(context.Background(), nil, []*models.UploadedFile{upload("a.txt", "x")})

	require.ErrorIs(t, err, models.ErrMissingJobDescription)
}

func TestCompare_ResumesReachPromptInInputOrder(t *testing.T) {
	gen := &stubGenerator{response: `[]`}
	c := NewComparatorService(&stubExtractor{}, gen, time.Minute)

	var cvs []*models.UploadedFile
	for i := 0; i < 8; i++ {
		cvs = append(cvs, upload(fmt.Sprintf("cv%d.txt", i), fmt.Sprintf("resume body %d", i)))
	}

	_, err := c.Compare(context.Background(), upload("jd.txt", "the job"), cvs)
	require.NoError(t, err)

	// Extraction runs concurrently, but the prompt must list resumes in
	// the order the batch was supplied.
	last := -1
	for i := 0; i < 8; i++ {
		idx := indexIn(t, gen.lastPrompt, fmt.Sprintf("Resume %d:\nresume body %d", i+1, i))
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestCompare_StructuredOutcome(t *testing.T) {
	gen := &stubGenerator{
		response: `[{"fullName":"Alice","score":88,"explanation":"good"},{"fullName":"Bob","score":95,"explanation":"better"}]`,
	}
	c := NewComparatorService(&stubExtractor{}, gen, time.Minute)

	outcome, err := c.Compare(context.Background(),
		upload("jd.txt", "Seeking a backend engineer with 5 years Go experience"),
		[]*models.UploadedFile{upload("alice.txt", "alice cv"), upload("bob.txt", "bob cv")},
	)

	require.NoError(t, err)
	require.True(t, outcome.Structured)
	require.Len(t, outcome.Candidates, 2)
	assert.Equal(t, "Alice", outcome.Candidates[0].FullName)
	assert.Equal(t, "Bob", outcome.Candidates[1].FullName)
}

func TestCompare_DegradedOutcomeOnUnparseableResponse(t *testing.T) {
	gen := &stubGenerator{response: "sorry, I refuse"}
	c := NewComparatorService(&stubExtractor{}, gen, time.Minute)

	outcome, err := c.Compare(context.Background(),
		upload("jd.txt", "jd"),
		[]*models.UploadedFile{upload("a.txt", "a")},
	)

	require.NoError(t, err)
	assert.False(t, outcome.Structured)
	assert.Equal(t, "sorry, I refuse", outcome.Raw)
}

func TestCompare_OneFailedExtractionFailsWholeBatch(t *testing.T) {
	gen := &stubGenerator{response: `[]`}
	c := NewComparatorService(&stubExtractor{failFile: "b.txt"}, gen, time.Minute)

	outcome, err := c.Compare(context.Background(),
		upload("jd.txt", "jd"),
		[]*models.UploadedFile{upload("a.txt", "a"), upload("b.txt", "b"), upload("c.txt", "c")},
	)

	require.Error(t, err)
	assert.Nil(t, outcome)
	var extractionErr *models.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "b.txt", extractionErr.Filename)
	assert.Empty(t, gen.lastPrompt, "model must not be invoked when extraction fails")
}

func TestCompare_ModelFailurePropagates(t *testing.T) {
	gen := &stubGenerator{err: &models.ModelInvocationError{Err: errors.New("quota exceeded")}}
	c := NewComparatorService(&stubExtractor{}, gen, time.Minute)

	_, err := c.Compare(context.Background(),
		upload("jd.txt", "jd"),
		[]*models.UploadedFile{upload("a.txt", "a")},
	)

	var invocationErr *models.ModelInvocationError
	require.ErrorAs(t, err, &invocationErr)
}

func TestCompare_AppliesModelTimeout(t *testing.T) {
	gen := &stubGenerator{response: `[]`}
	c := NewComparatorService(&stubExtractor{}, gen, time.Minute)

	_, err := c.Compare(context.Background(),
		upload("jd.txt", "jd"),
		[]*models.UploadedFile{upload("a.txt", "a")},
	)

	require.NoError(t, err)
	assert.True(t, gen.sawDeadline, "model call must run under a deadline")
}

func TestSearchQuery_SanitizesResponse(t *testing.T) {
	gen := &stubGenerator{response: "```\nLinkedIn boolean search: (\"Go\" OR \"Golang\")\n```"}
	c := NewComparatorService(&stubExtractor{}, gen, time.Minute)

	search, err := c.SearchQuery(context.Background(), upload("jd.txt", "Go engineer"))

	require.NoError(t, err)
	assert.Equal(t, `("Go" OR "Golang")`, search)
	assert.Contains(t, gen.lastPrompt, "Go engineer")
}

func TestSearchQuery_MissingJobDescription(t *testing.T) {
	c := NewComparatorService(&stubExtractor{}, &stubGenerator{}, time.Minute)

	_, err := c.SearchQuery(context.Background(), nil)

	require.ErrorIs(t, err, models.ErrMissingJobDescription)
}

func indexIn(t *testing.T, s, sub string) int {
	t.Helper()
	idx := strings.Index(s, sub)
	require.NotEqual(t, -1, idx, "expected prompt to contain %q", sub)
	return idx
}
