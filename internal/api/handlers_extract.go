package api

import (
	"encoding/json"
	"net/http"

	"github.com/seojindev/minwon/internal/document"
	"github.com/seojindev/minwon/internal/entity"
	"github.com/seojindev/minwon/internal/ground"
)

// maxTextBytes bounds synchronous request bodies. Larger documents go
// through the async /api/analyze path.
const maxTextBytes = 2 << 20

type extractRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTextBytes)

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	result := s.orchestrator.NER().ExtractEntities(r.Context(), req.Text)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

type groundRequest struct {
	Entities []entity.Entity     `json:"entities"`
	Pages    []document.PageText `json:"pages"`
}

func (s *Server) handleGround(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTextBytes)

	var req groundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Pages) == 0 {
		jsonError(w, "pages are required", http.StatusBadRequest)
		return
	}

	th := ground.Thresholds{
		Name: s.cfg.NameMatchThreshold,
		Text: s.cfg.TextMatchThreshold,
	}
	matches := ground.GroundEntities(req.Entities, req.Pages, th)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"matches": matches})
}
