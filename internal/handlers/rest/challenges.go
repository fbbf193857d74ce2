package rest

import (
	"errors"
	"net/http"

	"github.com/KirkDiggler/unplugged/internal/services/challenge"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
	"github.com/gorilla/mux"
)

// GET /api/v1/challenges
func (s *Server) ListChallenges(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, m.ListChallenges())
}

// POST /api/v1/challenges
func (s *Server) AddChallenge(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	var req addChallengeRequest
	if err := s.decode(r, &req); err != nil {
		s.respondWithMessage(r.Context(), w, http.StatusBadRequest, messaging.ErrorTypeInvalidInput)
		return
	}

	c, err := m.AddChallenge(&challenge.AddPersonalInput{
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, c)
}

// POST /api/v1/challenges/{id}/complete
func (s *Server) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	out, err := m.CompleteChallenge(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if !out.Found {
		s.respondWithMessage(r.Context(), w, http.StatusNotFound, messaging.ErrorTypeNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, s.completionResponse(r, out))
}

// POST /api/v1/challenges/{id}/share is gated on the premium entitlement
func (s *Server) ShareChallenge(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	premium, err := m.IsPremium(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if !premium {
		s.respondWithMessage(r.Context(), w, http.StatusForbidden, messaging.ErrorTypePremium)
		return
	}

	out, err := m.ShareChallenge(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, shareResponse{Challenge: out.Challenge, Created: out.Created})
}

// DELETE /api/v1/challenges/{id}
func (s *Server) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	err := m.DeleteChallenge(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, challenge.ErrPublicCleanupFailed) {
		respondWithJSON(w, http.StatusOK, map[string]bool{
			"deleted":       true,
			"publicRemoved": false,
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/challenges/{id}/open resolves a deep-linked challenge
func (s *Server) OpenChallenge(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	out, err := m.OpenChallenge(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, openResponse{Challenge: out.Challenge, Personal: out.Personal})
}

// GET /api/v1/challenges/public
func (s *Server) ListPublicChallenges(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	limit, valid := parseLimit(r)
	if !valid {
		s.respondWithMessage(r.Context(), w, http.StatusBadRequest, messaging.ErrorTypeInvalidInput)
		return
	}

	challenges, err := m.PublicChallenges(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, challenges)
}
