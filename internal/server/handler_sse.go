package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/me/servq/internal/notify"
)

// sseHeartbeat is how often a comment line is sent on a quiet stream so
// intermediaries keep the connection open.
const sseHeartbeat = 15 * time.Second

// handleSSEEvents streams scheduler state changes via Server-Sent Events.
// The stream opens with a snapshot of the current queue, then pushes every
// broadcaster event until the client disconnects.
// GET /api/v1/sse/events
func (s *Server) handleSSEEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// Set headers for SSE.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	events, cancel := s.broadcaster.Subscribe()
	defer cancel()

	// Send initial snapshot.
	init := notify.Event{
		Type:      notify.EventQueue,
		Pending:   s.core.ScheduledOrder(),
		Completed: s.core.Completed(),
	}
	if err := sendSSEEvent(w, flusher, "init", init); err != nil {
		s.logger.Debug("sse client disconnected", "error", err)
		return
	}

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if err := sendSSEEvent(w, flusher, string(ev.Type), ev); err != nil {
				s.logger.Debug("sse client disconnected")
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprintf(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData)
	if err != nil {
		return err
	}

	flusher.Flush()
	return nil
}
