package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/KirkDiggler/unplugged/internal/auth"
	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	"github.com/KirkDiggler/unplugged/internal/services/challenge"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
	"github.com/KirkDiggler/unplugged/internal/services/session"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Respond: failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, errType, message string) {
	respondWithJSON(w, code, errorResponse{Error: errType, Message: message})
}

// fail maps a service error to a status code and a friendly message
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, errType := classify(err)
	if code == http.StatusInternalServerError {
		log.Printf("API: %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	s.respondWithMessage(r.Context(), w, code, errType)
}

func (s *Server) respondWithMessage(ctx context.Context, w http.ResponseWriter, code int, errType string) {
	message := http.StatusText(code)
	out, err := s.messaging.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{ErrorType: errType})
	if err == nil && out != nil {
		message = out.Message
	}
	respondWithError(w, code, errType, message)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrSessionActive):
		return http.StatusConflict, messaging.ErrorTypeSessionActive
	case errors.Is(err, challenge.ErrChallengeNotFound):
		return http.StatusNotFound, messaging.ErrorTypeNotFound
	case errors.Is(err, challenge.ErrInvalidTitle),
		errors.Is(err, challenge.ErrInvalidDuration),
		errors.Is(err, appstate.ErrInvalidDailyGoal):
		return http.StatusBadRequest, messaging.ErrorTypeInvalidInput
	case errors.Is(err, appstate.ErrNoPendingJournal):
		return http.StatusConflict, messaging.ErrorTypeNoSession
	case errors.Is(err, appstate.ErrReauthRequired):
		return http.StatusUnauthorized, messaging.ErrorTypeReauthRequired
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, "unauthorized"
	}
	return http.StatusInternalServerError, "internal"
}

// decode reads an optional JSON body into dst and validates it
func (s *Server) decode(r *http.Request, dst any) error {
	if r.Body != nil {
		err := json.NewDecoder(r.Body).Decode(dst)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	return s.validate.Struct(dst)
}

// parseLimit reads ?limit=, defaulting when absent
func parseLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxListLimit {
		return 0, false
	}
	return limit, true
}

// manager resolves the caller's state container
func (s *Server) manager(w http.ResponseWriter, r *http.Request) (*appstate.Manager, *auth.Token, bool) {
	token, ok := tokenFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return nil, nil, false
	}

	m, err := s.registry.Get(r.Context(), token.UserID, token.Name)
	if err != nil {
		s.fail(w, r, err)
		return nil, nil, false
	}

	return m, token, true
}
