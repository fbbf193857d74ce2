package rest

import (
	"net/http"

	"github.com/KirkDiggler/unplugged/internal/services/messaging"
)

// GET /api/v1/journal
func (s *Server) ListJournal(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	resp := journalResponse{Entries: m.Journal()}
	if pending, staged := m.PendingJournal(); staged {
		resp.Pending = &pendingJournalResponse{
			SessionID:       pending.SessionID,
			DurationSeconds: pending.Duration.Seconds(),
		}
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/journal writes the entry for the staged session
func (s *Server) SaveJournal(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	var req journalRequest
	if err := s.decode(r, &req); err != nil {
		s.respondWithMessage(r.Context(), w, http.StatusBadRequest, messaging.ErrorTypeInvalidInput)
		return
	}

	entry, err := m.SaveJournal(req.Thoughts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

// DELETE /api/v1/journal/pending skips the journal prompt
func (s *Server) DiscardJournal(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{
		"discarded": m.DiscardJournal(),
	})
}
