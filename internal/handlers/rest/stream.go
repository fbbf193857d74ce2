package rest

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/KirkDiggler/unplugged/internal/services/messaging"
)

// writeEvent sends one server-sent event
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}

	flusher.Flush()
	return nil
}

func startStream(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return flusher, true
}

// GET /api/v1/session/stream sends the elapsed time on every tick until the session stops
func (s *Server) StreamSession(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	ticks, unsubscribe := m.SessionTicks()
	if ticks == nil {
		s.respondWithMessage(r.Context(), w, http.StatusConflict, messaging.ErrorTypeNoSession)
		return
	}
	defer unsubscribe()

	flusher, ok := startStream(w)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx, cancel := s.streamContext(r)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case elapsed, open := <-ticks:
			if !open {
				_ = writeEvent(w, flusher, "stopped", toSessionResponse(m.SessionStatus()))
				return
			}
			if err := writeEvent(w, flusher, "tick", map[string]float64{"elapsedSeconds": elapsed.Seconds()}); err != nil {
				return
			}
		}
	}
}

// GET /api/v1/challenges/public/stream sends the public list now and after every change
func (s *Server) StreamPublicChallenges(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	limit, valid := parseLimit(r)
	if !valid {
		s.respondWithMessage(r.Context(), w, http.StatusBadRequest, messaging.ErrorTypeInvalidInput)
		return
	}

	ctx, cancel := s.streamContext(r)
	defer cancel()

	updates, err := m.WatchPublicChallenges(ctx, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	flusher, ok := startStream(w)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	for challenges := range updates {
		if err := writeEvent(w, flusher, "challenges", challenges); err != nil {
			log.Printf("StreamPublicChallenges: client went away: %v", err)
			return
		}
	}
}
