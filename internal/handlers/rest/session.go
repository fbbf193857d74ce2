package rest

import (
	"net/http"

	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
)

// GET /api/v1/session
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, toSessionResponse(m.SessionStatus()))
}

// POST /api/v1/session/start
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	var req startSessionRequest
	if err := s.decode(r, &req); err != nil {
		s.respondWithMessage(r.Context(), w, http.StatusBadRequest, messaging.ErrorTypeInvalidInput)
		return
	}

	if _, err := m.StartSession(r.Context(), &appstate.StartSessionInput{
		ChallengeID: req.ChallengeID,
		Strict:      req.Strict,
	}); err != nil {
		s.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toSessionResponse(m.SessionStatus()))
}

// POST /api/v1/session/stop
func (s *Server) StopSession(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	var req stopSessionRequest
	if err := s.decode(r, &req); err != nil {
		s.respondWithMessage(r.Context(), w, http.StatusBadRequest, messaging.ErrorTypeInvalidInput)
		return
	}

	out, err := m.StopSession(r.Context(), req.Journal)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if !out.Stopped {
		s.respondWithMessage(r.Context(), w, http.StatusConflict, messaging.ErrorTypeNoSession)
		return
	}

	respondWithJSON(w, http.StatusOK, s.stopResponse(r, out))
}

// POST /api/v1/session/background
func (s *Server) Background(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{
		"interrupted": m.Background(),
	})
}

// POST /api/v1/session/foreground
func (s *Server) Foreground(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	out := m.Foreground()
	if !out.Stopped {
		respondWithJSON(w, http.StatusOK, stopSessionResponse{})
		return
	}

	respondWithJSON(w, http.StatusOK, s.stopResponse(r, out))
}

func (s *Server) stopResponse(r *http.Request, out *appstate.StopSessionOutput) stopSessionResponse {
	resp := stopSessionResponse{
		Stopped:         out.Stopped,
		Failed:          out.Failed,
		DurationSeconds: out.Duration.Seconds(),
		PointsEarned:    out.PointsEarned,
		Streak:          out.Streak,
		JournalStaged:   out.JournalStaged,
	}

	msg, err := s.messaging.GetSessionResultMessage(r.Context(), &messaging.GetSessionResultMessageInput{
		Duration:     out.Duration,
		PointsEarned: out.PointsEarned,
		Streak:       out.Streak,
		Failed:       out.Failed,
	})
	if err == nil {
		resp.Title = msg.Title
		resp.Message = msg.Message
	}

	if out.Challenge != nil && out.Challenge.Found {
		completion := s.completionResponse(r, out.Challenge)
		resp.Challenge = &completion
	}

	return resp
}

func (s *Server) completionResponse(r *http.Request, out *appstate.CompleteChallengeOutput) completionResponse {
	resp := completionResponse{
		Challenge:           out.Challenge,
		Bonus:               out.Bonus,
		UsersCompletedCount: out.Challenge.UsersCompletedCount,
	}

	if out.Public != nil {
		resp.FirstCompletion = out.Public.Incremented
		resp.UsersCompletedCount = out.Public.UsersCompletedCount
	}

	msg, err := s.messaging.GetChallengeCompletedMessage(r.Context(), &messaging.GetChallengeCompletedMessageInput{
		Title:               out.Challenge.Title,
		Bonus:               out.Bonus,
		IsPublic:            out.Challenge.IsPublic,
		FirstCompletion:     resp.FirstCompletion,
		UsersCompletedCount: resp.UsersCompletedCount,
	})
	if err == nil {
		resp.Title = msg.Title
		resp.Message = msg.Message
	}

	return resp
}
