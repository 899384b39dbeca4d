// Package jobs runs the background loops: materializing due recurrence rules
// and publishing due reminders onto the notification bus.
package jobs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	reminderrepo "github.com/recallerhq/recaller-backend/internal/data/repos/reminder"
	schedulerepo "github.com/recallerhq/recaller-backend/internal/data/repos/schedule"
	"github.com/recallerhq/recaller-backend/internal/notify"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	recurrencesvc "github.com/recallerhq/recaller-backend/internal/services/recurrence"
)

const dueBatchSize = 100

type Worker struct {
	db          *gorm.DB
	log         *logger.Logger
	rules       schedulerepo.RecurrenceRepo
	reminders   reminderrepo.ReminderRepo
	generator   *recurrencesvc.Generator
	bus         notify.Bus
	tick        time.Duration
	concurrency int
}

func NewWorker(
	db *gorm.DB,
	baseLog *logger.Logger,
	rules schedulerepo.RecurrenceRepo,
	reminders reminderrepo.ReminderRepo,
	generator *recurrencesvc.Generator,
	bus notify.Bus,
	tick time.Duration,
	concurrency int,
) *Worker {
	if tick <= 0 {
		tick = time.Minute
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		db:          db,
		log:         baseLog.With("component", "RecurrenceWorker"),
		rules:       rules,
		reminders:   reminders,
		generator:   generator,
		bus:         bus,
		tick:        tick,
		concurrency: concurrency,
	}
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now().UTC()
				if err := w.GenerateDue(ctx, now); err != nil {
					w.log.Warn("recurrence generation tick failed", "error", err)
				}
				if err := w.NotifyDueReminders(ctx, now); err != nil {
					w.log.Warn("reminder notification tick failed", "error", err)
				}
			}
		}
	}()
}

// GenerateDue materializes every rule due at now, fanning out across rules.
// Each rule advances in its own transaction, so one failure never holds up
// the rest of the batch.
func (w *Worker) GenerateDue(ctx context.Context, now time.Time) error {
	due, err := w.rules.ListDue(ctx, nil, now, dueBatchSize)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, rule := range due {
		rule := rule
		g.Go(func() error {
			if err := w.generator.ProcessRule(gctx, rule.ID); err != nil {
				w.log.Error("rule generation failed", "rule_id", rule.ID, "owner_type", rule.OwnerType, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// NotifyDueReminders publishes reminders whose due time has passed and marks
// them notified so the next tick does not republish them.
func (w *Worker) NotifyDueReminders(ctx context.Context, now time.Time) error {
	due, err := w.reminders.ListDue(ctx, nil, now, dueBatchSize)
	if err != nil {
		return err
	}
	for _, r := range due {
		msg := notify.ReminderDue{
			ReminderID: r.ID,
			TenantID:   r.TenantID,
			UserID:     r.UserID,
			ContactID:  r.ContactID,
			Title:      r.Title,
			DueAt:      r.DueAt,
		}
		if err := w.bus.PublishReminderDue(ctx, msg); err != nil {
			w.log.Warn("reminder publish failed", "reminder_id", r.ID, "error", err)
			continue
		}
		if err := w.reminders.MarkNotified(ctx, nil, r.ID, now); err != nil {
			w.log.Warn("marking reminder notified failed", "reminder_id", r.ID, "error", err)
		}
	}
	return nil
}
