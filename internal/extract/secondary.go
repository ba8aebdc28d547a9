package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/seojindev/minwon/internal/entity"
)

// SecondaryClient calls an inference-API style NER backend: POST
// {"inputs": ...} with a bearer key. The response shape varies between
// hosted models (token-classification output, sometimes nested one level),
// so it is probed leniently rather than decoded into a fixed struct. Its
// entities are never trusted alone; the orchestrator merges them with
// regex output.
type SecondaryClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

func NewSecondaryClient(url, apiKey string, timeout time.Duration) *SecondaryClient {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &SecondaryClient{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type secondaryRequest struct {
	Inputs string `json:"inputs"`
}

// Model derives a short identifier from the endpoint path, e.g.
// ".../models/klue/bert-base" -> "klue/bert-base".
func (c *SecondaryClient) Model() string {
	if i := strings.Index(c.url, "/models/"); i >= 0 {
		return c.url[i+len("/models/"):]
	}
	if i := strings.LastIndex(c.url, "/"); i >= 0 && i < len(c.url)-1 {
		return c.url[i+1:]
	}
	return "secondary-ner"
}

// Recognize sends text to the backend and converts whatever entity array
// comes back into our label set. Unknown labels are skipped.
func (c *SecondaryClient) Recognize(ctx context.Context, text string) ([]entity.Entity, error) {
	body, err := json.Marshal(secondaryRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("inference api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("inference api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	return parseSecondaryEntities(respBody), nil
}

// parseSecondaryEntities walks the backend's array (flattening one level
// of nesting if present) and keeps every element that looks like a token
// classification: a label under entity_group/entity/label, a score, a
// surface form under word/text, and start/end offsets.
func parseSecondaryEntities(body []byte) []entity.Entity {
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil
	}

	items := root.Array()
	if len(items) > 0 && items[0].IsArray() {
		var flat []gjson.Result
		for _, inner := range items {
			flat = append(flat, inner.Array()...)
		}
		items = flat
	}

	var out []entity.Entity
	for _, item := range items {
		rawLabel := item.Get("entity_group").String()
		if rawLabel == "" {
			rawLabel = item.Get("entity").String()
		}
		if rawLabel == "" {
			rawLabel = item.Get("label").String()
		}
		label, ok := entity.ParseLabel(rawLabel)
		if !ok {
			continue
		}

		word := item.Get("word").String()
		if word == "" {
			word = item.Get("text").String()
		}

		out = append(out, entity.Entity{
			Text:       strings.TrimSpace(word),
			Label:      label,
			Start:      int(item.Get("start").Int()),
			End:        int(item.Get("end").Int()),
			Confidence: item.Get("score").Float(),
		})
	}
	return out
}

// Close releases idle connections.
func (c *SecondaryClient) Close() {
	c.httpClient.CloseIdleConnections()
}
