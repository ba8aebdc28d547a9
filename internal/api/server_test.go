package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seojindev/minwon/internal/config"
	"github.com/seojindev/minwon/internal/extract"
	"github.com/seojindev/minwon/internal/pipeline"
)

const testAPIKey = "test-key-123"

func newTestServer(t *testing.T) (*Server, func()) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		Port:               "0",
		APIKey:             testAPIKey,
		WorkerCount:        2,
		MaxQueueSize:       10,
		MaxUploadBytes:     1 << 20,
		NameMatchThreshold: 0.8,
		TextMatchThreshold: 0.6,
		JobTTL:             time.Hour,
	}
	ner := extract.NewOrchestrator(extract.BackendConfig{}, log)
	orch := pipeline.NewOrchestrator(cfg, ner, log)
	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	srv := NewServer(orch, log, cfg)
	return srv, func() {
		cancel()
		orch.Stop()
		ner.Close()
	}
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func TestHealth(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	body := strings.NewReader(`{"text":"hi"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/extract", body))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("auth rejection Content-Type = %q", ct)
	}
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil || errResp.Error == "" {
		t.Errorf("auth rejection is not a JSON error body: %q", rec.Body)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Authorization", "Bearer wrong-key")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil || errResp.Error != "invalid api key" {
		t.Errorf("wrong-key rejection body = %q", rec.Body)
	}
}

func TestExtract(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	body := strings.NewReader(`{"text":"납부 기한: 2025년 5월 31일"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/extract", body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("extract status = %d: %s", rec.Code, rec.Body)
	}

	var result struct {
		Entities []json.RawMessage `json:"entities"`
		Model    string            `json:"model"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// No backends configured: nothing attempted, entities present but empty.
	if result.Model != "none" {
		t.Errorf("model = %q", result.Model)
	}
	if result.Entities == nil {
		t.Error("entities must be a JSON array, not null")
	}
}

func TestExtract_EmptyText(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(`{}`))))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty text, got %d", rec.Code)
	}
}

func TestGround(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	body := strings.NewReader(`{
		"entities": [{"text":"2025년 5월 31일","label":"DATE","start":0,"end":0,"confidence":0.85}],
		"pages": [{"page_number":1,"items":[{"text":"2025.05.31","x":50,"y":700,"width":70,"height":12,"page_number":1}],"full_text":"2025.05.31"}]
	}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/ground", body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("ground status = %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Matches map[string][]struct {
			Confidence float64 `json:"confidence"`
		} `json:"matches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	results, ok := resp.Matches["date:2025년 5월 31일"]
	if !ok {
		t.Fatalf("missing date key in matches: %v", resp.Matches)
	}
	if len(results) == 0 || results[0].Confidence != 0.95 {
		t.Errorf("expected structural date match at 0.95, got %+v", results)
	}
}

func TestGround_NoPages(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/ground", strings.NewReader(`{"entities":[]}`))))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without pages, got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestAnalyze_EndToEnd(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	buf, contentType := multipartUpload(t, "notice.txt", "납부 기한: 2025년 5월 31일\n금액: 450,000원\n")
	req := authed(httptest.NewRequest(http.MethodPost, "/api/analyze", buf))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("analyze status = %d: %s", rec.Code, rec.Body)
	}

	var accepted struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if accepted.JobID == "" || !strings.Contains(accepted.PollURL, accepted.JobID) {
		t.Fatalf("bad accept response: %+v", accepted)
	}

	// Poll until the worker finishes.
	deadline := time.Now().Add(5 * time.Second)
	var status string
	for time.Now().Before(deadline) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/analyze/"+accepted.JobID+"/status", nil)))
		if rec.Code != http.StatusOK {
			t.Fatalf("status endpoint = %d", rec.Code)
		}
		var snap struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		status = snap.Status
		if status == "completed" || status == "failed" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status != "completed" {
		t.Fatalf("job did not complete, last status %q", status)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/analyze/"+accepted.JobID+"/result", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("result endpoint = %d: %s", rec.Code, rec.Body)
	}
	var result struct {
		Pages   []json.RawMessage `json:"pages"`
		Model   string            `json:"model"`
		Matches map[string]any    `json:"matches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Pages) != 1 {
		t.Errorf("expected 1 page, got %d", len(result.Pages))
	}
	if result.Matches == nil {
		t.Error("expected matches map in result")
	}
}

func TestAnalyze_UnsupportedExtension(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	buf, contentType := multipartUpload(t, "tool.exe", "MZ")
	req := authed(httptest.NewRequest(http.MethodPost, "/api/analyze", buf))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for exe upload, got %d", rec.Code)
	}
}

func TestAnalyzeResult_UnknownJob(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/analyze/no-such-job/result", nil)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown job, got %d", rec.Code)
	}
}

func TestBackendStats(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/stats/backend", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	var resp struct {
		Backends   map[string]any `json:"backends"`
		QueueDepth int            `json:"queue_depth"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Backends == nil {
		t.Error("expected backends map")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"notice.pdf", "notice.pdf"},
		{"../../etc/passwd", "passwd"},
		{"dir/file.txt", "file.txt"},
		{"", "unnamed"},
		{".", "unnamed"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
