package recurrence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	schedulerepo "github.com/recallerhq/recaller-backend/internal/data/repos/schedule"
	"github.com/recallerhq/recaller-backend/internal/data/repos/testutil"
	types "github.com/recallerhq/recaller-backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func seedRecurringTransaction(t *testing.T, ctx context.Context, tenantID, userID uuid.UUID, rule *types.RecurrenceRule) *types.RecurringTransaction {
	t.Helper()
	db := testutil.DB(t)
	template := &types.RecurringTransaction{
		ID:          uuid.New(),
		TenantID:    tenantID,
		UserID:      userID,
		Amount:      decimal.RequireFromString("42.50"),
		Currency:    "USD",
		Description: "gym membership",
		Category:    "health",
	}
	if err := db.WithContext(ctx).Create(template).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	rule.OwnerType = types.RecurrenceOwnerTransaction
	rule.OwnerID = template.ID
	if err := db.WithContext(ctx).Create(rule).Error; err != nil {
		t.Fatalf("seed rule: %v", err)
	}
	return template
}

func TestGenerator_MaterializesTransactionAndAdvances(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	gen := NewGenerator(db, log, schedulerepo.NewRecurrenceRepo(db, log))

	tenantID := uuid.New()
	userID := uuid.New()
	day := 31
	rule := &types.RecurrenceRule{
		ID:               uuid.New(),
		TenantID:         tenantID,
		Frequency:        "monthly",
		IntervalCount:    1,
		DayOfMonth:       &day,
		StartDate:        date(2024, time.January, 31),
		NextGenerationAt: date(2024, time.January, 31),
		Active:           true,
	}
	template := seedRecurringTransaction(t, ctx, tenantID, userID, rule)

	if err := gen.ProcessRule(ctx, rule.ID); err != nil {
		t.Fatalf("process rule: %v", err)
	}

	var generated []types.Transaction
	if err := db.WithContext(ctx).
		Where("recurring_transaction_id = ?", template.ID).
		Find(&generated).Error; err != nil {
		t.Fatalf("load generated: %v", err)
	}
	if len(generated) != 1 {
		t.Fatalf("generated transactions: got %d, want 1", len(generated))
	}
	if !generated[0].Amount.Equal(template.Amount) {
		t.Fatalf("amount: got %s, want %s", generated[0].Amount, template.Amount)
	}
	if !generated[0].OccurredAt.Equal(date(2024, time.January, 31)) {
		t.Fatalf("occurred at: got %s", generated[0].OccurredAt)
	}

	var after types.RecurrenceRule
	if err := db.WithContext(ctx).Where("id = ?", rule.ID).First(&after).Error; err != nil {
		t.Fatalf("reload rule: %v", err)
	}
	if after.GenerationCount != 1 {
		t.Fatalf("generation count: got %d, want 1", after.GenerationCount)
	}
	// January 31 advances to the clamped end of February.
	want := date(2024, time.February, 29)
	if !after.NextGenerationAt.Equal(want) {
		t.Fatalf("next generation: got %s, want %s", after.NextGenerationAt, want)
	}
	if !after.Active {
		t.Fatal("rule should remain active")
	}
}

func TestGenerator_DeactivatesWhenFinished(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	gen := NewGenerator(db, log, schedulerepo.NewRecurrenceRepo(db, log))

	tenantID := uuid.New()
	userID := uuid.New()
	max := 1
	rule := &types.RecurrenceRule{
		ID:               uuid.New(),
		TenantID:         tenantID,
		Frequency:        "daily",
		IntervalCount:    1,
		StartDate:        date(2024, time.March, 1),
		MaxOccurrences:   &max,
		NextGenerationAt: date(2024, time.March, 1),
		Active:           true,
	}
	seedRecurringTransaction(t, ctx, tenantID, userID, rule)

	if err := gen.ProcessRule(ctx, rule.ID); err != nil {
		t.Fatalf("process rule: %v", err)
	}

	var after types.RecurrenceRule
	if err := db.WithContext(ctx).Where("id = ?", rule.ID).First(&after).Error; err != nil {
		t.Fatalf("reload rule: %v", err)
	}
	if after.Active {
		t.Fatal("rule should be deactivated after reaching max occurrences")
	}
	if after.GenerationCount != 1 {
		t.Fatalf("generation count: got %d, want 1", after.GenerationCount)
	}
}

func TestGenerator_RunOnceSkipsFutureRules(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	gen := NewGenerator(db, log, schedulerepo.NewRecurrenceRepo(db, log))

	// Dated before the rules the other tests leave behind, so only this
	// test's due rule is picked up.
	tenantID := uuid.New()
	userID := uuid.New()
	now := date(2020, time.June, 15)

	dueRule := &types.RecurrenceRule{
		ID:               uuid.New(),
		TenantID:         tenantID,
		Frequency:        "weekly",
		IntervalCount:    1,
		StartDate:        date(2020, time.June, 14),
		NextGenerationAt: date(2020, time.June, 14),
		Active:           true,
	}
	seedRecurringTransaction(t, ctx, tenantID, userID, dueRule)

	futureRule := &types.RecurrenceRule{
		ID:               uuid.New(),
		TenantID:         tenantID,
		Frequency:        "weekly",
		IntervalCount:    1,
		StartDate:        date(2020, time.June, 20),
		NextGenerationAt: date(2020, time.June, 20),
		Active:           true,
	}
	seedRecurringTransaction(t, ctx, tenantID, userID, futureRule)

	generated, err := gen.RunOnce(ctx, now, 10)
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if generated != 1 {
		t.Fatalf("generated: got %d, want 1", generated)
	}

	var future types.RecurrenceRule
	if err := db.WithContext(ctx).Where("id = ?", futureRule.ID).First(&future).Error; err != nil {
		t.Fatalf("reload future rule: %v", err)
	}
	if future.GenerationCount != 0 {
		t.Fatalf("future rule advanced: count %d", future.GenerationCount)
	}
}
