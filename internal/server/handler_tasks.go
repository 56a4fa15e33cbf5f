package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/me/servq/pkg/model"
)

type admitRequest struct {
	Room        string `json:"room"`
	Type        string `json:"type"`
	Minutes     int    `json:"minutes"`
	Description string `json:"description"`
}

// handleAdmitTask admits a new service request.
// POST /api/v1/tasks
func (s *Server) handleAdmitTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req admitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid JSON body: "+err.Error()))
		return
	}
	if req.Room == "" || req.Type == "" {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("room and type are required"))
		return
	}

	task, err := s.core.Admit(req.Room, req.Type, req.Minutes, req.Description)
	if err != nil {
		respondDomainError(w, reqID, err)
		return
	}
	respondCreated(w, reqID, task)
}

type quickAdmitRequest struct {
	Tier    string `json:"tier"`
	Type    string `json:"type"`
	Minutes int    `json:"minutes"`
}

// handleQuickAdmit admits a request against a random room of a tier.
// POST /api/v1/tasks/quick
func (s *Server) handleQuickAdmit(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req quickAdmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid JSON body: "+err.Error()))
		return
	}
	tier := model.Tier(req.Tier)
	if !tier.Valid() {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("unknown tier: "+req.Tier))
		return
	}
	if req.Type == "" {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("type is required"))
		return
	}

	task, err := s.core.QuickAdmit(tier, req.Type, req.Minutes, "")
	if err != nil {
		respondDomainError(w, reqID, err)
		return
	}
	respondCreated(w, reqID, task)
}

// handleListTasks returns pending tasks in scheduled order.
// GET /api/v1/tasks
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, map[string]any{
		"policy": s.core.Policy(),
		"tasks":  s.core.ScheduledOrder(),
	})
}

// handleListCompleted returns completed tasks in completion order.
// GET /api/v1/tasks/completed
func (s *Server) handleListCompleted(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, s.core.Completed())
}

// handleGetTask returns one task, pending or completed.
// GET /api/v1/tasks/{id}
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("task id must be an integer"))
		return
	}
	task, err := s.core.Get(id)
	if err != nil {
		respondDomainError(w, reqID, err)
		return
	}
	respondOK(w, reqID, task)
}

// handleClearTasks empties both collections.
// DELETE /api/v1/tasks
func (s *Server) handleClearTasks(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	s.core.ClearAll()
	respondOK(w, reqID, map[string]string{"result": "cleared"})
}
