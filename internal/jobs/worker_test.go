package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reminderrepo "github.com/recallerhq/recaller-backend/internal/data/repos/reminder"
	schedulerepo "github.com/recallerhq/recaller-backend/internal/data/repos/schedule"
	"github.com/recallerhq/recaller-backend/internal/data/repos/testutil"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	"github.com/recallerhq/recaller-backend/internal/notify"
	recurrencesvc "github.com/recallerhq/recaller-backend/internal/services/recurrence"
)

type recordingBus struct {
	mu        sync.Mutex
	published []notify.ReminderDue
}

func (b *recordingBus) PublishReminderDue(_ context.Context, msg notify.ReminderDue) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, msg)
	return nil
}

func (b *recordingBus) StartForwarder(context.Context, func(msg notify.ReminderDue)) error {
	return nil
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.published)
}

func newWorker(t *testing.T, bus notify.Bus) *Worker {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	rules := schedulerepo.NewRecurrenceRepo(gdb, log)
	reminders := reminderrepo.NewReminderRepo(gdb, log)
	generator := recurrencesvc.NewGenerator(gdb, log, rules)
	return NewWorker(gdb, log, rules, reminders, generator, bus, time.Minute, 2)
}

func TestWorker_NotifyDueReminders(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	bus := &recordingBus{}
	w := newWorker(t, bus)

	tenant := testutil.SeedTenant(t, ctx, gdb, "jobs-"+uuid.NewString()[:8])
	user := testutil.SeedUser(t, ctx, gdb, tenant.ID, uuid.NewString()[:8]+"@example.com")

	due := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	reminder := &types.Reminder{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		UserID:   user.ID,
		Title:    "call the dentist",
		DueAt:    due,
	}
	require.NoError(t, gdb.WithContext(ctx).Create(reminder).Error)

	now := time.Date(2021, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, w.NotifyDueReminders(ctx, now))
	require.Equal(t, 1, bus.count())
	assert.Equal(t, reminder.ID, bus.published[0].ReminderID)
	assert.Equal(t, tenant.ID, bus.published[0].TenantID)

	// Already-notified reminders are not republished.
	require.NoError(t, w.NotifyDueReminders(ctx, now))
	assert.Equal(t, 1, bus.count())
}

func TestWorker_GenerateDueFansOut(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	w := newWorker(t, &recordingBus{})

	tenant := testutil.SeedTenant(t, ctx, gdb, "jobs-"+uuid.NewString()[:8])
	user := testutil.SeedUser(t, ctx, gdb, tenant.ID, uuid.NewString()[:8]+"@example.com")

	template := &types.RecurringTransaction{
		ID:          uuid.New(),
		TenantID:    tenant.ID,
		UserID:      user.ID,
		Amount:      decimal.NewFromInt(42),
		Currency:    "USD",
		Description: "gym membership",
	}
	require.NoError(t, gdb.WithContext(ctx).Create(template).Error)

	next := time.Date(2022, 5, 1, 9, 0, 0, 0, time.UTC)
	rule := testutil.SeedRecurrenceRule(t, ctx, gdb, tenant.ID, types.RecurrenceOwnerTransaction, template.ID, next)

	now := time.Date(2022, 5, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, w.GenerateDue(ctx, now))

	var generated types.Transaction
	require.NoError(t, gdb.WithContext(ctx).
		Where("recurring_transaction_id = ?", template.ID).
		First(&generated).Error)
	assert.True(t, generated.Amount.Equal(template.Amount))
	assert.True(t, next.Equal(generated.OccurredAt))

	var reloaded types.RecurrenceRule
	require.NoError(t, gdb.WithContext(ctx).Where("id = ?", rule.ID).First(&reloaded).Error)
	assert.Equal(t, 1, reloaded.GenerationCount)
	assert.True(t, reloaded.NextGenerationAt.After(next))
}
