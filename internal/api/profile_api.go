package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/agripath-app/agripath/internal/domain"
)

// profileView is the merged read view the UI renders: the snapshot plus
// the level fields derived from points.
type profileView struct {
	DeviceID    string          `json:"device_id"`
	DisplayName string          `json:"display_name"`
	Points      int             `json:"points"`
	Level       int             `json:"level"`
	ProgressPct float64         `json:"progress_pct"`
	PointsToGo  int             `json:"points_to_next_level"`
	Badges      []string        `json:"badges"`
	StreakDays  int             `json:"streak_days"`
	SimpleMode  bool            `json:"simple_mode"`
	Account     *domain.Account `json:"account,omitempty"`
}

func viewOf(p domain.Profile) profileView {
	badges := p.Badges
	if badges == nil {
		badges = []string{}
	}
	return profileView{
		DeviceID:    p.DeviceID,
		DisplayName: p.DisplayName,
		Points:      p.Points,
		Level:       domain.LevelForPoints(p.Points),
		ProgressPct: domain.ProgressPct(p.Points),
		PointsToGo:  domain.PointsToNextLevel(p.Points),
		Badges:      badges,
		StreakDays:  p.StreakDays,
		SimpleMode:  p.SimpleMode,
		Account:     p.Account,
	}
}

func (s *Server) profile(w http.ResponseWriter, status int) {
	writeJSON(w, status, viewOf(s.engine.Snapshot()))
}

// --- /api/profile ---

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.profile(w, http.StatusOK)
}

// --- /api/profile/points ---

type addPointsRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

func (s *Server) handleAddPoints(w http.ResponseWriter, r *http.Request) {
	var req addPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Reason == "" {
		req.Reason = "Activity"
	}
	if err := s.engine.AddPoints(req.Delta, req.Reason); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.profile(w, http.StatusOK)
}

// --- /api/profile/badge ---

type awardBadgeRequest struct {
	Badge string `json:"badge"`
}

func (s *Server) handleAwardBadge(w http.ResponseWriter, r *http.Request) {
	var req awardBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.engine.AwardBadge(req.Badge); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.profile(w, http.StatusOK)
}

// --- /api/profile/name ---

type setNameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var req setNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.engine.SetDisplayName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.profile(w, http.StatusOK)
}

// --- /api/checkin ---

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	claimed := s.engine.DailyCheckIn()
	snap := s.engine.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"claimed": claimed,
		"points":  snap.Points,
	})
}

// --- /api/streak ---

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	var lastActivity string
	if !snap.LastActivity.IsZero() {
		lastActivity = snap.LastActivity.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"streak_days":   snap.StreakDays,
		"last_activity": lastActivity,
	})
}

// --- /api/badges ---

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	badges := snap.Badges
	if badges == nil {
		badges = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"badges": badges,
	})
}

// --- /api/simple-mode ---

type simpleModeRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleSimpleMode(w http.ResponseWriter, r *http.Request) {
	var req simpleModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.engine.SetSimpleMode(req.Enabled)
	s.profile(w, http.StatusOK)
}

// --- /api/refresh ---

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.RefreshProfile(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.profile(w, http.StatusOK)
}

// --- /api/history ---

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := s.db.RecentPointsLog(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []domain.PointsEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

// ─── Auth ───────────────────────────────────────────────────────────────────

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.auth.Login(r.Context(), req.Email, req.Password); err != nil {
		writeAuthError(w, err)
		return
	}
	s.profile(w, http.StatusOK)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.auth.Register(r.Context(), req.Email, req.Password, req.FullName); err != nil {
		writeAuthError(w, err)
		return
	}
	s.profile(w, http.StatusOK)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	acct, err := s.auth.CurrentAccount(r.Context())
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.profile(w, http.StatusOK)
}

// writeAuthError maps auth failures to status codes the UI can act on.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrGatewayUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
