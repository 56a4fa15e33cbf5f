package server

import (
	"encoding/json"
	"net/http"

	"github.com/me/servq/pkg/model"
)

type schedulerStatus struct {
	Running     bool         `json:"running"`
	Policy      model.Policy `json:"policy"`
	Description string       `json:"description"`
	TimeQuantum int          `json:"time_quantum"`
	Pending     int          `json:"pending"`
	Completed   int          `json:"completed"`
}

// handleSchedulerStatus reports loop state and queue counts.
// GET /api/v1/scheduler/status
func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	policy := s.core.Policy()
	respondOK(w, reqID, schedulerStatus{
		Running:     s.loop.Running(),
		Policy:      policy,
		Description: policy.Describe(),
		TimeQuantum: s.core.Quantum(),
		Pending:     s.core.Pending(),
		Completed:   len(s.core.Completed()),
	})
}

// handleGetPolicy returns the current policy and all selectable ones.
// GET /api/v1/scheduler/policy
func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	available := make([]map[string]string, 0, 4)
	for _, p := range model.Policies() {
		available = append(available, map[string]string{
			"name":        p.String(),
			"description": p.Describe(),
		})
	}
	respondOK(w, reqID, map[string]any{
		"policy":       s.core.Policy(),
		"time_quantum": s.core.Quantum(),
		"available":    available,
	})
}

type setPolicyRequest struct {
	Policy      string `json:"policy"`
	TimeQuantum int    `json:"time_quantum,omitempty"`
}

// handleSetPolicy switches the ordering policy. Existing tasks keep their
// admission-time rank and charge.
// PUT /api/v1/scheduler/policy
func (s *Server) handleSetPolicy(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req setPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid JSON body: "+err.Error()))
		return
	}
	policy, err := model.ParsePolicy(req.Policy)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError(err.Error()))
		return
	}
	if err := s.core.SetPolicy(policy); err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError(err.Error()))
		return
	}
	if req.TimeQuantum > 0 {
		s.core.SetQuantum(req.TimeQuantum)
	}
	respondOK(w, reqID, map[string]any{
		"policy":       policy,
		"description":  policy.Describe(),
		"time_quantum": s.core.Quantum(),
	})
}

// handleStart starts the dispatch loop. A no-op if already running.
// POST /api/v1/scheduler/start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	// The loop must outlive this request, so it runs under the server's
	// lifecycle context rather than the request context.
	s.loop.Start(s.loopCtx)
	respondOK(w, reqID, map[string]any{"running": s.loop.Running()})
}

// handleStop stops the dispatch loop. A no-op if already idle.
// POST /api/v1/scheduler/stop
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	s.loop.Stop()
	respondOK(w, reqID, map[string]any{"running": s.loop.Running()})
}

// handleStats returns per-tier completion totals from the archive.
// GET /api/v1/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if s.archive == nil {
		respondOK(w, reqID, []model.TierStats{})
		return
	}
	stats, err := s.archive.Stats(r.Context())
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err.Error()))
		return
	}
	if stats == nil {
		stats = []model.TierStats{}
	}
	respondOK(w, reqID, stats)
}
