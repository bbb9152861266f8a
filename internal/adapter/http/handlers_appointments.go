package adapthttp

import (
	"net/http"
	"time"

	"coachfit/internal/app"
	"coachfit/internal/domain"
)

func (s *Server) handleScheduleAppointment(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	if !s.disableAuth {
		if err := requireRole(user, domain.RoleAdmin, domain.RoleTrainer); err != nil {
			writeError(w, err)
			return
		}
	}

	var req struct {
		TrainerID int64     `json:"trainerId"`
		ClientID  int64     `json:"clientId"`
		Title     string    `json:"title"`
		Notes     string    `json:"notes"`
		StartsAt  time.Time `json:"startsAt"`
		EndsAt    time.Time `json:"endsAt"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// Trainers book on their own calendar only.
	if user != nil && user.Role == domain.RoleTrainer {
		req.TrainerID = user.ID
	}

	appt, err := s.appointmentSvc.Schedule(r.Context(), req.TrainerID, req.ClientID, req.Title, req.Notes, req.StartsAt, req.EndsAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"appointment": appt})
}

func (s *Server) handleTrainerCalendar(w http.ResponseWriter, r *http.Request) {
	trainerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user := userFromContext(r)
	if !s.disableAuth {
		if err := requireRole(user, domain.RoleAdmin, domain.RoleTrainer); err != nil {
			writeError(w, err)
			return
		}
		if user.Role == domain.RoleTrainer && user.ID != trainerID {
			writeError(w, app.ErrForbidden)
			return
		}
	}

	now := time.Now()
	from, err := dateQuery(r, "from", now.AddDate(0, 0, -7))
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := dateQuery(r, "to", now.AddDate(0, 0, 30))
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := s.appointmentSvc.Calendar(r.Context(), trainerID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user := userFromContext(r)
	if !s.disableAuth {
		if err := requireRole(user, domain.RoleAdmin, domain.RoleTrainer); err != nil {
			writeError(w, err)
			return
		}
	}

	actor := domain.User{Role: domain.RoleAdmin}
	if user != nil {
		actor = *user
	}

	if err := s.appointmentSvc.Cancel(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
