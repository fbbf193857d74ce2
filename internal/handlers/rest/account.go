package rest

import (
	"net/http"

	"github.com/KirkDiggler/unplugged/internal/services/messaging"
)

// GET /api/v1/stats
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	out := m.Stats()
	resp := statsResponse{
		Stats:        out.Stats,
		DailyHistory: out.Stats.DailyHistory,
		Goal: goalResponse{
			TodayMinutes: out.Goal.TodayMinutes,
			GoalMinutes:  out.Goal.GoalMinutes,
			Reached:      out.Goal.Reached,
		},
	}

	if msg, err := s.messaging.GetStreakMessage(r.Context(), &messaging.GetStreakMessageInput{
		Streak: out.Stats.DailyStreak,
	}); err == nil {
		resp.StreakMessage = msg.Message
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// PUT /api/v1/stats/goal
func (s *Server) SetDailyGoal(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	var req dailyGoalRequest
	if err := s.decode(r, &req); err != nil {
		s.respondWithMessage(r.Context(), w, http.StatusBadRequest, messaging.ErrorTypeInvalidInput)
		return
	}

	if err := m.SetDailyGoal(*req.Minutes); err != nil {
		s.fail(w, r, err)
		return
	}

	s.GetStats(w, r)
}

// GET /api/v1/leaderboard
func (s *Server) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	m, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	limit, valid := parseLimit(r)
	if !valid {
		s.respondWithMessage(r.Context(), w, http.StatusBadRequest, messaging.ErrorTypeInvalidInput)
		return
	}

	out, err := m.Leaderboard(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, leaderboardResponse{Entries: out.Entries, Self: out.Self})
}

// DELETE /api/v1/account requires a sign-in within the reauth window
func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	_, token, ok := s.manager(w, r)
	if !ok {
		return
	}

	if err := s.registry.DeleteAccount(r.Context(), token.UserID, token.AuthTime); err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
