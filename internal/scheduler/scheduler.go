// Package scheduler runs the recurring background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"coachfit/internal/app"
	"coachfit/internal/config"
	"coachfit/internal/domain"
	"coachfit/pkg/notify"
)

const jobTimeout = 2 * time.Minute

// cronLogger adapts logrus to the cron.Logger interface so a recovered job
// panic lands in the service log instead of killing the process.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debugf("cron: %s %v", msg, keysAndValues)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Errorf("cron: %s: %s %v", msg, err, keysAndValues)
}

// reminderWindow is how far ahead the appointment reminder scan looks.
const reminderWindow = 24 * time.Hour

// Scheduler owns the cron instance and the jobs it drives.
type Scheduler struct {
	cron         *cron.Cron
	cfg          config.SchedulerConfig
	sessions     domain.SessionRepository
	appointments domain.AppointmentRepository
	users        domain.UserRepository
	payments     *app.PaymentService
	sender       notify.Sender
}

// New builds a scheduler. Jobs are registered on Start.
func New(
	cfg config.SchedulerConfig,
	sessions domain.SessionRepository,
	appointments domain.AppointmentRepository,
	users domain.UserRepository,
	payments *app.PaymentService,
	sender notify.Sender,
) *Scheduler {
	if sender == nil {
		sender = notify.Nop{}
	}
	return &Scheduler{
		cron:         cron.New(cron.WithChain(cron.Recover(cronLogger{}))),
		cfg:          cfg,
		sessions:     sessions,
		appointments: appointments,
		users:        users,
		payments:     payments,
		sender:       sender,
	}
}

// Start registers the jobs and kicks off the cron loop.
func (s *Scheduler) Start() {
	log.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.SessionCleanupSpec, s.purgeExpiredSessions); err != nil {
		log.Errorf("failed to schedule session cleanup: %s", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.ReminderSpec, s.sendAppointmentReminders); err != nil {
		log.Errorf("failed to schedule appointment reminders: %s", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.OverdueDigestSpec, s.sendOverdueDigest); err != nil {
		log.Errorf("failed to schedule overdue digest: %s", err)
	}

	s.cron.Start()
}

// Stop stops the cron loop; running jobs finish on their own.
func (s *Scheduler) Stop() {
	log.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.sessions.DeleteExpired(ctx); err != nil {
		log.Errorf("session cleanup failed: %s", err)
		return
	}
	log.Trace("expired sessions purged")
}

func (s *Scheduler) sendAppointmentReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := time.Now()
	appts, err := s.appointments.ListUpcoming(ctx, now, now.Add(reminderWindow))
	if err != nil {
		log.Errorf("appointment reminder scan failed: %s", err)
		return
	}

	for _, appt := range appts {
		trainer, err := s.users.GetByID(ctx, appt.TrainerID)
		if err != nil {
			log.Errorf("appointment %d: trainer lookup failed: %s", appt.ID, err)
			continue
		}
		if trainer == nil {
			log.Warnf("appointment %d: trainer %d no longer exists, skipping reminder", appt.ID, appt.TrainerID)
			continue
		}
		client, err := s.users.GetByID(ctx, appt.ClientID)
		if err != nil {
			log.Errorf("appointment %d: client lookup failed: %s", appt.ID, err)
			continue
		}
		if client == nil {
			log.Warnf("appointment %d: client %d no longer exists, skipping reminder", appt.ID, appt.ClientID)
			continue
		}

		n := notify.Notification{
			Recipient: trainer.Username,
			Subject:   "Upcoming appointment",
			Body: fmt.Sprintf(
				"%s with %s at %s",
				appt.Title, client.Username, appt.StartsAt.Format("Mon 02 Jan 15:04"),
			),
		}
		if err := s.sender.Send(ctx, n); err != nil {
			log.Errorf("appointment %d: reminder delivery failed: %s", appt.ID, err)
		}
	}

	log.Debugf("appointment reminder scan done, %d appointments", len(appts))
}

func (s *Scheduler) sendOverdueDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	overdue, err := s.payments.Overdue(ctx)
	if err != nil {
		log.Errorf("overdue payment scan failed: %s", err)
		return
	}
	if len(overdue) == 0 {
		log.Debug("overdue payment scan done, nothing due")
		return
	}

	// One digest per trainer, not one message per invoice.
	byTrainer := make(map[int64][]domain.Payment)
	for _, p := range overdue {
		byTrainer[p.TrainerID] = append(byTrainer[p.TrainerID], p)
	}

	for trainerID, payments := range byTrainer {
		trainer, err := s.users.GetByID(ctx, trainerID)
		if err != nil {
			log.Errorf("overdue digest: trainer %d lookup failed: %s", trainerID, err)
			continue
		}
		if trainer == nil {
			log.Warnf("overdue digest: trainer %d no longer exists, skipping", trainerID)
			continue
		}

		body := fmt.Sprintf("%d overdue payment(s):", len(payments))
		for _, p := range payments {
			body += fmt.Sprintf(
				"\n- %s: %.2f %s due %s",
				p.Reference, float64(p.AmountCents)/100, p.Currency, p.DueDate.Format("02 Jan 2006"),
			)
		}

		n := notify.Notification{
			Recipient: trainer.Username,
			Subject:   "Overdue payments",
			Body:      body,
		}
		if err := s.sender.Send(ctx, n); err != nil {
			log.Errorf("overdue digest: delivery to %s failed: %s", trainer.Username, err)
		}
	}

	log.Debugf("overdue digest done, %d trainers notified", len(byTrainer))
}
