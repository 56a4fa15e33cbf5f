package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Dispatch  string `json:"dispatch"`
	Rooms     int    `json:"rooms"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	dispatch := "idle"
	if s.loop.Running() {
		dispatch = "running"
	}
	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   "0.1.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Dispatch:  dispatch,
		Rooms:     s.catalog.Len(),
	})
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, map[string]any{
		"name":    "servq",
		"version": "0.1.0",
		"endpoints": []string{
			"/api/v1/health",
			"/api/v1/tasks",
			"/api/v1/tasks/quick",
			"/api/v1/tasks/completed",
			"/api/v1/rooms",
			"/api/v1/scheduler/status",
			"/api/v1/scheduler/policy",
			"/api/v1/scheduler/start",
			"/api/v1/scheduler/stop",
			"/api/v1/stats",
			"/api/v1/sse/events",
		},
	})
}
