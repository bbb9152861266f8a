package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachfit/internal/adapter/memory"
	"coachfit/internal/app"
	"coachfit/internal/config"
	"coachfit/internal/domain"
	"coachfit/pkg/notify"
)

type captureSender struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (c *captureSender) Send(_ context.Context, n notify.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return nil
}

func (c *captureSender) all() []notify.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Notification(nil), c.sent...)
}

func newTestScheduler(t *testing.T) (*Scheduler, *memory.DB, *captureSender) {
	t.Helper()
	db := memory.New()
	sender := &captureSender{}
	s := New(
		config.SchedulerConfig{},
		memory.NewSessionRepo(db),
		memory.NewAppointmentRepo(db),
		db,
		app.NewPaymentService(memory.NewPaymentRepo(db)),
		sender,
	)
	return s, db, sender
}

func TestPurgeExpiredSessions(t *testing.T) {
	s, db, _ := newTestScheduler(t)
	ctx := context.Background()

	sessions := memory.NewSessionRepo(db)
	require.NoError(t, sessions.Create(ctx, 1, "live", "", "", time.Now().Add(time.Hour)))
	require.NoError(t, sessions.Create(ctx, 1, "stale", "", "", time.Now().Add(-time.Hour)))

	s.purgeExpiredSessions()

	live, err := sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, live)
	stale, err := sessions.GetByToken(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, stale)
}

func TestSendAppointmentReminders(t *testing.T) {
	s, db, sender := newTestScheduler(t)
	ctx := context.Background()

	trainer, err := db.Create(ctx, "trainer1", "hash", domain.RoleTrainer)
	require.NoError(t, err)
	client, err := db.Create(ctx, "client1", "hash", domain.RoleClient)
	require.NoError(t, err)

	appointments := memory.NewAppointmentRepo(db)
	soon := time.Now().Add(3 * time.Hour)
	_, err = appointments.Add(ctx, domain.Appointment{
		TrainerID: trainer.ID, ClientID: client.ID, Title: "Leg day",
		StartsAt: soon, EndsAt: soon.Add(time.Hour),
	})
	require.NoError(t, err)

	// Outside the 24h window, no reminder.
	far := time.Now().Add(72 * time.Hour)
	_, err = appointments.Add(ctx, domain.Appointment{
		TrainerID: trainer.ID, ClientID: client.ID, Title: "Next week",
		StartsAt: far, EndsAt: far.Add(time.Hour),
	})
	require.NoError(t, err)

	s.sendAppointmentReminders()

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "trainer1", sent[0].Recipient)
	assert.Contains(t, sent[0].Body, "Leg day")
	assert.Contains(t, sent[0].Body, "client1")
}

func TestSendAppointmentReminders_DeletedClient(t *testing.T) {
	s, db, sender := newTestScheduler(t)
	ctx := context.Background()

	trainer, err := db.Create(ctx, "trainer1", "hash", domain.RoleTrainer)
	require.NoError(t, err)

	// Appointment whose client account has since been removed: the job
	// skips it instead of blowing up mid-run.
	appointments := memory.NewAppointmentRepo(db)
	soon := time.Now().Add(3 * time.Hour)
	_, err = appointments.Add(ctx, domain.Appointment{
		TrainerID: trainer.ID, ClientID: 999, Title: "Orphaned",
		StartsAt: soon, EndsAt: soon.Add(time.Hour),
	})
	require.NoError(t, err)

	s.sendAppointmentReminders()
	assert.Empty(t, sender.all())
}

func TestSendOverdueDigest(t *testing.T) {
	s, db, sender := newTestScheduler(t)
	ctx := context.Background()

	trainer, err := db.Create(ctx, "trainer1", "hash", domain.RoleTrainer)
	require.NoError(t, err)

	payments := memory.NewPaymentRepo(db)
	overdueDue := domain.NormalizeDate(time.Now().AddDate(0, 0, -10))
	for _, ref := range []string{"inv-1", "inv-2"} {
		_, err = payments.Add(ctx, domain.Payment{
			Reference: ref, TrainerID: trainer.ID, ClientID: 2,
			AmountCents: 5000, Currency: "EUR", DueDate: overdueDue,
		})
		require.NoError(t, err)
	}
	// Future invoice never appears in the digest.
	_, err = payments.Add(ctx, domain.Payment{
		Reference: "inv-3", TrainerID: trainer.ID, ClientID: 2,
		AmountCents: 5000, Currency: "EUR", DueDate: domain.NormalizeDate(time.Now().AddDate(0, 0, 10)),
	})
	require.NoError(t, err)

	s.sendOverdueDigest()

	sent := sender.all()
	require.Len(t, sent, 1, "one digest per trainer")
	assert.Equal(t, "trainer1", sent[0].Recipient)
	assert.Contains(t, sent[0].Body, "2 overdue payment(s)")
	assert.Contains(t, sent[0].Body, "inv-1")
	assert.Contains(t, sent[0].Body, "inv-2")
	assert.NotContains(t, sent[0].Body, "inv-3")
}

func TestSendOverdueDigest_Empty(t *testing.T) {
	s, _, sender := newTestScheduler(t)
	s.sendOverdueDigest()
	assert.Empty(t, sender.all())
}

func TestSendOverdueDigest_DeletedTrainer(t *testing.T) {
	s, db, sender := newTestScheduler(t)
	ctx := context.Background()

	// Overdue invoice pointing at a trainer ID with no account behind it.
	payments := memory.NewPaymentRepo(db)
	_, err := payments.Add(ctx, domain.Payment{
		Reference: "inv-1", TrainerID: 999, ClientID: 2,
		AmountCents: 5000, Currency: "EUR",
		DueDate: domain.NormalizeDate(time.Now().AddDate(0, 0, -10)),
	})
	require.NoError(t, err)

	s.sendOverdueDigest()
	assert.Empty(t, sender.all())
}
