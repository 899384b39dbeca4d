package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	contactrepo "github.com/recallerhq/recaller-backend/internal/data/repos/contact"
	reminderrepo "github.com/recallerhq/recaller-backend/internal/data/repos/reminder"
	schedulerepo "github.com/recallerhq/recaller-backend/internal/data/repos/schedule"
	"github.com/recallerhq/recaller-backend/internal/data/repos/testutil"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type fixture struct {
	svc       ReminderService
	reminders reminderrepo.ReminderRepo
	ctx       context.Context
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, ctx, db, "rem-"+uuid.NewString()[:8])
	user := testutil.SeedUser(t, ctx, db, tenant.ID, uuid.NewString()[:8]+"@test.local")

	reminders := reminderrepo.NewReminderRepo(db, log)
	svc := NewReminderService(
		db, log,
		reminders,
		contactrepo.NewContactRepo(db, log),
		schedulerepo.NewRecurrenceRepo(db, log),
	)

	reqCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID:   user.ID,
		TenantID: tenant.ID,
	})
	return &fixture{svc: svc, reminders: reminders, ctx: reqCtx}
}

func TestReminderService_UpdateRearmsNotification(t *testing.T) {
	f := setup(t)

	created, err := f.svc.Create(f.ctx, ReminderInput{
		Title: "call the landlord",
		DueAt: time.Date(2018, 4, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	notified := time.Date(2018, 4, 1, 9, 5, 0, 0, time.UTC)
	if err := f.reminders.MarkNotified(f.ctx, nil, created.ID, notified); err != nil {
		t.Fatalf("mark notified: %v", err)
	}

	moved := time.Date(2018, 4, 8, 9, 0, 0, 0, time.UTC)
	updated, err := f.svc.Update(f.ctx, created.ID, ReminderUpdateInput{DueAt: &moved})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !moved.Equal(updated.DueAt) {
		t.Fatalf("due at: got %v, want %v", updated.DueAt, moved)
	}
	if updated.NotifiedAt != nil {
		t.Fatal("moving the deadline must clear the notified marker")
	}
}

func TestReminderService_UpdateTitleKeepsNotification(t *testing.T) {
	f := setup(t)

	created, err := f.svc.Create(f.ctx, ReminderInput{
		Title: "renew passport",
		DueAt: time.Date(2018, 6, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	notified := time.Date(2018, 6, 1, 9, 5, 0, 0, time.UTC)
	if err := f.reminders.MarkNotified(f.ctx, nil, created.ID, notified); err != nil {
		t.Fatalf("mark notified: %v", err)
	}

	title := "renew passport and visa"
	updated, err := f.svc.Update(f.ctx, created.ID, ReminderUpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.NotifiedAt == nil {
		t.Fatal("title edit alone must not re-trigger delivery")
	}
}

func TestReminderService_CompleteTwiceConflicts(t *testing.T) {
	f := setup(t)

	created, err := f.svc.Create(f.ctx, ReminderInput{
		Title: "water the plants",
		DueAt: time.Date(2018, 8, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	completed, err := f.svc.Complete(f.ctx, created.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !completed.Completed || completed.CompletedAt == nil {
		t.Fatal("completed reminder must carry completion state")
	}

	if _, err := f.svc.Complete(f.ctx, created.ID); !errors.Is(err, pkgerr.ErrConflict) {
		t.Fatalf("second complete: got %v, want ErrConflict", err)
	}
}
