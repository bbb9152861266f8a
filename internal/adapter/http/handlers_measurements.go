package adapthttp

import (
	"net/http"
	"time"

	"coachfit/internal/app"
	"coachfit/internal/domain"
)

type measurementRequest struct {
	Date              string   `json:"date"` // YYYY-MM-DD, defaults to today
	Weight            float64  `json:"weight"`
	WeightUnit        string   `json:"weightUnit"` // kg (default) or lb
	BodyFatPercent    *float64 `json:"bodyFatPercent"`
	MuscleMassPercent *float64 `json:"muscleMassPercent"`
	HeightCm          *float64 `json:"heightCm"`
	NeckCm            *float64 `json:"neckCm"`
	WaistCm           *float64 `json:"waistCm"`
	HipCm             *float64 `json:"hipCm"`
	Sex               string   `json:"sex"`
	Notes             string   `json:"notes"`
}

func (s *Server) handleRecordMeasurement(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if !canAccessClient(userFromContext(r), clientID) && !s.disableAuth {
		writeError(w, app.ErrForbidden)
		return
	}

	var req measurementRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	weightKg, err := domain.ConvertWeightToKg(req.Weight, req.WeightUnit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	input := app.MeasurementInput{
		WeightKg:          weightKg,
		BodyFatPercent:    req.BodyFatPercent,
		MuscleMassPercent: req.MuscleMassPercent,
		HeightCm:          req.HeightCm,
		NeckCm:            req.NeckCm,
		WaistCm:           req.WaistCm,
		HipCm:             req.HipCm,
		Sex:               domain.Sex(req.Sex),
		Notes:             req.Notes,
	}
	if req.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			writeError(w, app.ErrInvalidInput)
			return
		}
		input.Date = d
	}

	m, err := s.measurementSvc.Record(r.Context(), clientID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.CounterMeasurements.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{"measurement": m})
}

func (s *Server) handleMeasurementHistory(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if !canAccessClient(userFromContext(r), clientID) && !s.disableAuth {
		writeError(w, app.ErrForbidden)
		return
	}

	// ?date=YYYY-MM-DD narrows the history to a single day's row.
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, app.ErrInvalidInput)
			return
		}
		items := []domain.Measurement{}
		m, err := s.measurementSvc.ForDate(r.Context(), clientID, d)
		if err != nil {
			writeError(w, err)
			return
		}
		if m != nil {
			items = append(items, *m)
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
		return
	}

	limit := intQuery(r, "limit", 90)
	items, err := s.measurementSvc.History(r.Context(), clientID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleDeleteMeasurement(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	// Deletion is a client-initiated action on the client's own rows.
	user := userFromContext(r)
	if !s.disableAuth && (user == nil || (user.Role == domain.RoleClient && user.ID != clientID)) {
		writeError(w, app.ErrForbidden)
		return
	}

	measurementID, err := pathID(r, "measurementID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.measurementSvc.Delete(r.Context(), clientID, measurementID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
