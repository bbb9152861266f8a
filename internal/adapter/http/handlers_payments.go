package adapthttp

import (
	"net/http"
	"time"

	"coachfit/internal/app"
	"coachfit/internal/domain"
)

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	if !s.disableAuth {
		if err := requireRole(user, domain.RoleAdmin, domain.RoleTrainer); err != nil {
			writeError(w, err)
			return
		}
	}

	var req struct {
		TrainerID   int64  `json:"trainerId"`
		ClientID    int64  `json:"clientId"`
		AmountCents int64  `json:"amountCents"`
		Currency    string `json:"currency"`
		Concept     string `json:"concept"`
		DueDate     string `json:"dueDate"` // YYYY-MM-DD
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if user != nil && user.Role == domain.RoleTrainer {
		req.TrainerID = user.ID
	}

	dueDate, err := time.ParseInLocation("2006-01-02", req.DueDate, time.Local)
	if err != nil {
		writeError(w, app.ErrInvalidInput)
		return
	}

	p, err := s.paymentSvc.Record(r.Context(), req.TrainerID, req.ClientID, req.AmountCents, req.Currency, req.Concept, dueDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"payment": p})
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	if !s.disableAuth {
		if err := requireRole(user, domain.RoleAdmin, domain.RoleTrainer); err != nil {
			writeError(w, err)
			return
		}
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.paymentSvc.MarkPaid(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleClientPayments(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if !canAccessClient(userFromContext(r), clientID) && !s.disableAuth {
		writeError(w, app.ErrForbidden)
		return
	}

	items, err := s.paymentSvc.ListForClient(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
