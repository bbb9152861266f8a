package main

import (
	"context"
	"errors"
	"flag"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	adapthttp "coachfit/internal/adapter/http"
	"coachfit/internal/adapter/memory"
	"coachfit/internal/adapter/postgres"
	"coachfit/internal/app"
	"coachfit/internal/config"
	"coachfit/internal/domain"
	"coachfit/internal/logging"
	"coachfit/internal/metrics"
	"coachfit/internal/scheduler"
	"coachfit/pkg/notify"
)

func main() {
	envFile := flag.String("env", "", "path to an optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(cfg.Logging)

	var (
		users        domain.UserRepository
		sessions     domain.SessionRepository
		measurements domain.MeasurementRepository
		workouts     domain.WorkoutRepository
		appointments domain.AppointmentRepository
		payments     domain.PaymentRepository
	)

	if cfg.Database.URL != "" {
		db, err := postgres.Open(cfg.Database.URL)
		if err != nil {
			log.Fatalf("db open: %s", err)
		}
		defer func() { _ = db.Close() }()

		users = db
		sessions = postgres.NewSessionRepo(db)
		measurements = postgres.NewMeasurementRepo(db)
		workouts = postgres.NewWorkoutRepo(db)
		appointments = postgres.NewAppointmentRepo(db)
		payments = postgres.NewPaymentRepo(db)
		log.Info("using postgres store")
	} else {
		db := memory.New()
		users = db
		sessions = memory.NewSessionRepo(db)
		measurements = memory.NewMeasurementRepo(db)
		workouts = memory.NewWorkoutRepo(db)
		appointments = memory.NewAppointmentRepo(db)
		payments = memory.NewPaymentRepo(db)
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	svcs := adapthttp.Services{
		Auth:         app.NewAuthService(users, sessions),
		Measurements: app.NewMeasurementService(measurements, users),
		Progress:     app.NewProgressService(measurements),
		Activity:     app.NewActivityService(workouts),
		Appointments: app.NewAppointmentService(appointments, users),
		Payments:     app.NewPaymentService(payments),
		Stats:        app.NewStatsService(users, measurements, appointments),
	}

	oidcConfig := buildOIDCConfig(cfg.OIDC)

	promReg := prometheus.NewRegistry()
	mm := metrics.NewManager("coachfit", "server", promReg)
	mm.GaugeLifeSignal.Set(1)

	var sender notify.Sender = notify.Nop{}
	if cfg.Notify.WebhookURL != "" {
		sender = notify.NewClient(cfg.Notify.WebhookURL, cfg.Notify.AuthToken)
	}

	sched := scheduler.New(cfg.Scheduler, sessions, appointments, users, svcs.Payments, sender)
	sched.Start()
	defer sched.Stop()

	h := adapthttp.New(svcs, oidcConfig, mm, promReg).Handler()
	log.Infof("listening on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func buildOIDCConfig(cfg config.OIDCConfig) adapthttp.OIDCConfig {
	if !cfg.Enabled {
		return adapthttp.OIDCConfig{}
	}

	provider, err := oidc.NewProvider(context.Background(), cfg.IssuerURL)
	if err != nil {
		log.Errorf("oidc provider init failed, SSO disabled: %s", err)
		return adapthttp.OIDCConfig{}
	}

	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}
}
