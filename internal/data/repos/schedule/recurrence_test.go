package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/recallerhq/recaller-backend/internal/data/repos/testutil"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
)

func TestRecurrenceRepo_OwnerUniqueness(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecurrenceRepo(db, testutil.Logger(t))

	tenant := testutil.SeedTenant(t, ctx, tx, "acme")
	ownerID := uuid.New()
	now := time.Now().UTC()

	first := &types.RecurrenceRule{
		ID:               uuid.New(),
		TenantID:         tenant.ID,
		OwnerType:        types.RecurrenceOwnerTask,
		OwnerID:          ownerID,
		Frequency:        "weekly",
		IntervalCount:    1,
		StartDate:        now,
		NextGenerationAt: now,
		Active:           true,
	}
	if _, err := repo.Create(ctx, tx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := *first
	dup.ID = uuid.New()
	if _, err := repo.Create(ctx, tx, &dup); !errors.Is(err, pkgerr.ErrConflict) {
		t.Fatalf("duplicate owner: got %v, want ErrConflict", err)
	}
}

func TestRecurrenceRepo_ListDue(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecurrenceRepo(db, testutil.Logger(t))

	tenant := testutil.SeedTenant(t, ctx, tx, "acme")
	now := time.Now().UTC()

	due := testutil.SeedRecurrenceRule(t, ctx, tx, tenant.ID, types.RecurrenceOwnerReminder, uuid.New(), now.Add(-time.Hour))
	testutil.SeedRecurrenceRule(t, ctx, tx, tenant.ID, types.RecurrenceOwnerReminder, uuid.New(), now.Add(time.Hour))

	inactive := testutil.SeedRecurrenceRule(t, ctx, tx, tenant.ID, types.RecurrenceOwnerTask, uuid.New(), now.Add(-2*time.Hour))
	if err := repo.Deactivate(ctx, tx, inactive.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	rules, err := repo.ListDue(ctx, tx, now, 10)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("due rules: got %d, want 1", len(rules))
	}
	if rules[0].ID != due.ID {
		t.Fatalf("due rule: got %s, want %s", rules[0].ID, due.ID)
	}
}

func TestRecurrenceRepo_GetByOwner(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecurrenceRepo(db, testutil.Logger(t))

	tenant := testutil.SeedTenant(t, ctx, tx, "acme")
	ownerID := uuid.New()
	rule := testutil.SeedRecurrenceRule(t, ctx, tx, tenant.ID, types.RecurrenceOwnerTransaction, ownerID, time.Now().UTC())

	got, err := repo.GetByOwner(ctx, tx, types.RecurrenceOwnerTransaction, ownerID)
	if err != nil {
		t.Fatalf("get by owner: %v", err)
	}
	if got.ID != rule.ID {
		t.Fatalf("got rule %s, want %s", got.ID, rule.ID)
	}

	if _, err := repo.GetByOwner(ctx, tx, types.RecurrenceOwnerTask, ownerID); !errors.Is(err, pkgerr.ErrNotFound) {
		t.Fatalf("wrong owner type: got %v, want ErrNotFound", err)
	}
}
