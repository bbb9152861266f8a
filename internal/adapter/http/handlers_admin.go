package adapthttp

import (
	"net/http"

	"coachfit/internal/domain"
)

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	if !s.disableAuth {
		if err := requireRole(userFromContext(r), domain.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}
	}

	stats, err := s.statsSvc.Global(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
