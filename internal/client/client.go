// Package client talks to the CV Matcher API: it assembles the multipart
// analysis request and decodes the two response envelopes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"cv-matcher/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Compare submits one job description and an ordered CV batch to
// POST /api/compare. CVs are encoded as repeated "cvFiles" parts in batch
// order.
func (c *Client) Compare(
	ctx context.Context,
	jobDescription models.UploadedFile,
	cvFiles []models.UploadedFile,
) (*models.ComparisonOutcome, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeFilePart(writer, "jobDescription", jobDescription); err != nil {
		return nil, err
	}
	for _, file := range cvFiles {
		if err := writeFilePart(writer, "cvFiles", file); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	respBody, err := c.post(ctx, "/api/compare", writer.FormDataContentType(), body)
	if err != nil {
		return nil, err
	}

	var resp models.CompareResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode compare response: %w", err)
	}
	return &resp.Result, nil
}

// SearchQuery submits a job description to POST /api/search-query and
// returns the generated boolean search string.
func (c *Client) SearchQuery(ctx context.Context, jobDescription models.UploadedFile) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeFilePart(writer, "jobDescription", jobDescription); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	respBody, err := c.post(ctx, "/api/search-query", writer.FormDataContentType(), body)
	if err != nil {
		return "", err
	}

	var resp models.SearchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}
	return resp.Search, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return respBody, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeFilePart writes one file part carrying the original filename and
// MIME type. mime/multipart's CreateFormFile hardcodes the content type,
// so the header is built by hand.
func writeFilePart(writer *multipart.Writer, field string, file models.UploadedFile) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(file.Name)))
	contentType := file.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create part %q: %w", field, err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return fmt.Errorf("failed to write part %q: %w", field, err)
	}
	return nil
}
