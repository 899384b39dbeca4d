package recurrence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	schedulerepo "github.com/recallerhq/recaller-backend/internal/data/repos/schedule"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/recurrence"
)

// Generator materializes concrete rows for recurrence rules that have come
// due: a transaction from its recurring template, or the next occurrence of
// a repeating task or reminder. Each rule is advanced (or deactivated) in
// the same transaction that writes the generated row.
type Generator struct {
	db    *gorm.DB
	log   *logger.Logger
	rules schedulerepo.RecurrenceRepo
}

func NewGenerator(db *gorm.DB, baseLog *logger.Logger, rules schedulerepo.RecurrenceRepo) *Generator {
	return &Generator{db: db, log: baseLog.With("service", "RecurrenceGenerator"), rules: rules}
}

// RunOnce processes every rule due at now and reports how many generated.
func (g *Generator) RunOnce(ctx context.Context, now time.Time, batchSize int) (int, error) {
	due, err := g.rules.ListDue(ctx, nil, now, batchSize)
	if err != nil {
		return 0, err
	}
	generated := 0
	for _, rule := range due {
		if err := g.ProcessRule(ctx, rule.ID); err != nil {
			g.log.Error("rule generation failed", "rule_id", rule.ID, "error", err)
			continue
		}
		generated++
	}
	return generated, nil
}

// ProcessRule materializes one occurrence for the rule and advances it.
func (g *Generator) ProcessRule(ctx context.Context, ruleID uuid.UUID) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rule types.RecurrenceRule
		if err := tx.Where("id = ? AND active = ?", ruleID, true).First(&rule).Error; err != nil {
			return err
		}

		occurrence := rule.NextGenerationAt
		if err := g.materialize(ctx, tx, &rule, occurrence); err != nil {
			return err
		}

		rule.GenerationCount++
		rule.LastGeneratedAt = &occurrence

		next := recurrence.NextOccurrence(rule.SchedulerRule(), occurrence)
		if next == nil {
			rule.Active = false
		} else {
			rule.NextGenerationAt = *next
		}
		return g.rules.Save(ctx, tx, &rule)
	})
}

func (g *Generator) materialize(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule, occurrence time.Time) error {
	switch rule.OwnerType {
	case types.RecurrenceOwnerTransaction:
		return g.materializeTransaction(ctx, tx, rule, occurrence)
	case types.RecurrenceOwnerReminder:
		return g.materializeReminder(ctx, tx, rule, occurrence)
	case types.RecurrenceOwnerTask:
		return g.materializeTask(ctx, tx, rule, occurrence)
	default:
		return fmt.Errorf("unknown recurrence owner type %q", rule.OwnerType)
	}
}

func (g *Generator) materializeTransaction(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule, occurrence time.Time) error {
	var template types.RecurringTransaction
	if err := tx.Where("tenant_id = ? AND id = ?", rule.TenantID, rule.OwnerID).First(&template).Error; err != nil {
		return fmt.Errorf("loading recurring transaction template: %w", err)
	}
	return tx.Create(&types.Transaction{
		ID:                     uuid.New(),
		TenantID:               template.TenantID,
		UserID:                 template.UserID,
		BudgetID:               template.BudgetID,
		Amount:                 template.Amount,
		Currency:               template.Currency,
		Description:            template.Description,
		Category:               template.Category,
		OccurredAt:             occurrence,
		RecurringTransactionID: &template.ID,
	}).Error
}

func (g *Generator) materializeReminder(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule, occurrence time.Time) error {
	var origin types.Reminder
	if err := tx.Where("tenant_id = ? AND id = ?", rule.TenantID, rule.OwnerID).First(&origin).Error; err != nil {
		return fmt.Errorf("loading origin reminder: %w", err)
	}
	// The origin row is the first occurrence; skip duplicating it.
	if occurrence.Equal(origin.DueAt) && rule.GenerationCount == 0 {
		return nil
	}
	return tx.Create(&types.Reminder{
		ID:               uuid.New(),
		TenantID:         origin.TenantID,
		UserID:           origin.UserID,
		ContactID:        origin.ContactID,
		Title:            origin.Title,
		Notes:            origin.Notes,
		DueAt:            occurrence,
		RecurrenceRuleID: &rule.ID,
	}).Error
}

func (g *Generator) materializeTask(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule, occurrence time.Time) error {
	var origin types.Task
	if err := tx.Where("tenant_id = ? AND id = ?", rule.TenantID, rule.OwnerID).First(&origin).Error; err != nil {
		return fmt.Errorf("loading origin task: %w", err)
	}
	if origin.DueAt != nil && occurrence.Equal(*origin.DueAt) && rule.GenerationCount == 0 {
		return nil
	}
	return tx.Create(&types.Task{
		ID:               uuid.New(),
		TenantID:         origin.TenantID,
		UserID:           origin.UserID,
		Title:            origin.Title,
		Description:      origin.Description,
		Status:           types.TaskPending,
		Priority:         origin.Priority,
		DueAt:            &occurrence,
		RecurrenceRuleID: &rule.ID,
	}).Error
}
