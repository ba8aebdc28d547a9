package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleBackendStats(w http.ResponseWriter, r *http.Request) {
	ner := s.orchestrator.NER()
	if ner == nil || ner.Stats() == nil {
		jsonError(w, "backend stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"backends":    ner.Stats().Snapshot(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
