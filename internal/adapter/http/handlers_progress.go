package adapthttp

import (
	"net/http"

	"coachfit/internal/app"
)

func (s *Server) handleProgressChanges(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if !canAccessClient(userFromContext(r), clientID) && !s.disableAuth {
		writeError(w, app.ErrForbidden)
		return
	}

	change, err := s.progressSvc.Changes(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changes": change})
}

func (s *Server) handleProgressSeries(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if !canAccessClient(userFromContext(r), clientID) && !s.disableAuth {
		writeError(w, app.ErrForbidden)
		return
	}

	points, err := s.progressSvc.Series(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": points})
}
