package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kylerisse/uptui/pkg/probe"
)

// ResultsResponse is the body of GET /api/results.
type ResultsResponse struct {
	LastUpdate int64          `json:"lastupdate"`
	Results    []probe.Result `json:"results"`
}

func (s *Server) handleResults(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()

	resp := ResultsResponse{Results: snap.Rows}
	if !snap.LastUpdate.IsZero() {
		resp.LastUpdate = snap.LastUpdate.Unix()
	}

	s.writeJSON(w, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, computeSummary(s.store.Snapshot(), time.Now(), s.staleness))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorf("failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
