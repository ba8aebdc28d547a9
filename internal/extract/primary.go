package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seojindev/minwon/internal/entity"
)

// PrimaryClient calls the primary NER backend: POST {"text": ...} against
// a self-hosted model server, expecting {"model": ..., "entities": [...]}
// on 2xx. Anything else is a failure the orchestrator falls through on.
type PrimaryClient struct {
	url        string
	httpClient *http.Client
}

func NewPrimaryClient(url string, timeout time.Duration) *PrimaryClient {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &PrimaryClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type primaryRequest struct {
	Text string `json:"text"`
}

type primaryResponse struct {
	Model    string          `json:"model"`
	Entities []entity.Entity `json:"entities"`
}

// Recognize sends text to the backend and returns its entities plus the
// model identifier it reported.
func (c *PrimaryClient) Recognize(ctx context.Context, text string) ([]entity.Entity, string, error) {
	body, err := json.Marshal(primaryRequest{Text: text})
	if err != nil {
		return nil, "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("ner backend: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("ner backend status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp primaryResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}

	model := apiResp.Model
	if model == "" {
		model = "primary-ner"
	}
	return apiResp.Entities, model, nil
}

// Close releases idle connections.
func (c *PrimaryClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient backend failure worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
