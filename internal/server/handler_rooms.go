package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/me/servq/pkg/model"
)

// handleListRooms lists rooms, optionally filtered by tier.
// GET /api/v1/rooms?tier=Tier-A
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	if t := r.URL.Query().Get("tier"); t != "" {
		tier := model.Tier(t)
		if !tier.Valid() {
			respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("unknown tier: "+t))
			return
		}
		respondOK(w, reqID, map[string]any{
			"tier":  tier,
			"rooms": s.catalog.ListByTier(tier),
		})
		return
	}
	respondOK(w, reqID, s.catalog.List())
}

// handleGetRoom returns one room with its amenities, occupancy, and history.
// GET /api/v1/rooms/{number}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	room, err := s.catalog.Lookup(chi.URLParam(r, "number"))
	if err != nil {
		respondDomainError(w, reqID, err)
		return
	}
	respondOK(w, reqID, room)
}

type checkInRequest struct {
	Guest string `json:"guest"`
}

// handleCheckIn marks a room occupied.
// PUT /api/v1/rooms/{number}/checkin
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	number := chi.URLParam(r, "number")

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid JSON body: "+err.Error()))
		return
	}
	if req.Guest == "" {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("guest is required"))
		return
	}
	if err := s.catalog.CheckIn(number, req.Guest); err != nil {
		respondDomainError(w, reqID, err)
		return
	}
	room, _ := s.catalog.Lookup(number)
	respondOK(w, reqID, room)
}

// handleCheckOut marks a room vacant.
// PUT /api/v1/rooms/{number}/checkout
func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	number := chi.URLParam(r, "number")

	if err := s.catalog.CheckOut(number); err != nil {
		respondDomainError(w, reqID, err)
		return
	}
	room, _ := s.catalog.Lookup(number)
	respondOK(w, reqID, room)
}
