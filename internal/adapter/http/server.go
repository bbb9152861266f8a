// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"coachfit/internal/app"
	"coachfit/internal/metrics"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the optional SSO configuration.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	authSvc        *app.AuthService
	measurementSvc *app.MeasurementService
	progressSvc    *app.ProgressService
	activitySvc    *app.ActivityService
	appointmentSvc *app.AppointmentService
	paymentSvc     *app.PaymentService
	statsSvc       *app.StatsService

	oidcConfig  OIDCConfig
	metrics     *metrics.Manager
	promhttpReg *prometheus.Registry

	disableAuth bool // tests only
}

// Services groups the application services the server dispatches to.
type Services struct {
	Auth         *app.AuthService
	Measurements *app.MeasurementService
	Progress     *app.ProgressService
	Activity     *app.ActivityService
	Appointments *app.AppointmentService
	Payments     *app.PaymentService
	Stats        *app.StatsService
}

// New creates a Server wired to the given application services.
func New(svcs Services, oidcConfig OIDCConfig, mm *metrics.Manager, promReg *prometheus.Registry) *Server {
	return &Server{
		authSvc:        svcs.Auth,
		measurementSvc: svcs.Measurements,
		progressSvc:    svcs.Progress,
		activitySvc:    svcs.Activity,
		appointmentSvc: svcs.Appointments,
		paymentSvc:     svcs.Payments,
		statsSvc:       svcs.Stats,
		oidcConfig:     oidcConfig,
		metrics:        mm,
		promhttpReg:    promReg,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	root := mux.NewRouter()
	root.Use(panicRecovery(s.metrics))
	root.Use(logRequest())
	root.Use(requestMetrics(s.metrics))

	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)
	if s.promhttpReg != nil {
		root.Handle("/metrics", promhttp.HandlerFor(s.promhttpReg, promhttp.HandlerOpts{}))
	}

	api := root.PathPrefix("/api").Subrouter()

	// Public endpoints.
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/setup", s.handleSetup).Methods(http.MethodPost)
	api.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)
	api.HandleFunc("/sso/login", s.handleSSOLogin).Methods(http.MethodGet)
	api.HandleFunc("/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)

	// Everything below requires a session.
	secured := api.NewRoute().Subrouter()
	secured.Use(s.authMiddleware)

	secured.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	secured.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	secured.HandleFunc("/accounts", s.handleCreateAccount).Methods(http.MethodPost)

	secured.HandleFunc("/clients/{id}/measurements", s.handleRecordMeasurement).Methods(http.MethodPut)
	secured.HandleFunc("/clients/{id}/measurements", s.handleMeasurementHistory).Methods(http.MethodGet)
	secured.HandleFunc("/clients/{id}/measurements/{measurementID}", s.handleDeleteMeasurement).Methods(http.MethodDelete)

	secured.HandleFunc("/clients/{id}/progress/changes", s.handleProgressChanges).Methods(http.MethodGet)
	secured.HandleFunc("/clients/{id}/progress/series", s.handleProgressSeries).Methods(http.MethodGet)

	secured.HandleFunc("/clients/{id}/workouts", s.handleLogWorkout).Methods(http.MethodPost)
	secured.HandleFunc("/clients/{id}/workouts", s.handleRecentWorkouts).Methods(http.MethodGet)
	secured.HandleFunc("/clients/{id}/activity/weekly", s.handleWeeklyActivity).Methods(http.MethodGet)

	secured.HandleFunc("/appointments", s.handleScheduleAppointment).Methods(http.MethodPost)
	secured.HandleFunc("/appointments/{id}", s.handleCancelAppointment).Methods(http.MethodDelete)
	secured.HandleFunc("/trainers/{id}/appointments", s.handleTrainerCalendar).Methods(http.MethodGet)

	secured.HandleFunc("/payments", s.handleRecordPayment).Methods(http.MethodPost)
	secured.HandleFunc("/payments/{id}/pay", s.handleMarkPaid).Methods(http.MethodPost)
	secured.HandleFunc("/clients/{id}/payments", s.handleClientPayments).Methods(http.MethodGet)

	secured.HandleFunc("/admin/stats", s.handleAdminStats).Methods(http.MethodGet)

	return withNoCache(root)
}
