package adapthttp

import (
	"net/http"
	"time"

	"coachfit/internal/app"
)

func (s *Server) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if !canAccessClient(userFromContext(r), clientID) && !s.disableAuth {
		writeError(w, app.ErrForbidden)
		return
	}

	var req struct {
		Activity    string    `json:"activity"`
		DurationMin int       `json:"durationMin"`
		Notes       string    `json:"notes"`
		StartedAt   time.Time `json:"startedAt"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	log, err := s.activitySvc.LogWorkout(r.Context(), clientID, req.Activity, req.DurationMin, req.Notes, req.StartedAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"workout": log})
}

func (s *Server) handleRecentWorkouts(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if !canAccessClient(userFromContext(r), clientID) && !s.disableAuth {
		writeError(w, app.ErrForbidden)
		return
	}

	limit := intQuery(r, "limit", 20)
	items, err := s.activitySvc.Recent(r.Context(), clientID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleWeeklyActivity(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if !canAccessClient(userFromContext(r), clientID) && !s.disableAuth {
		writeError(w, app.ErrForbidden)
		return
	}

	weeks := intQuery(r, "weeks", 12)
	buckets, err := s.activitySvc.WeeklyActivity(r.Context(), clientID, weeks)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"weeks": weeks, "items": buckets})
}
