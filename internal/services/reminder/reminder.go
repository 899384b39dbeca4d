package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	contactrepo "github.com/recallerhq/recaller-backend/internal/data/repos/contact"
	reminderrepo "github.com/recallerhq/recaller-backend/internal/data/repos/reminder"
	schedulerepo "github.com/recallerhq/recaller-backend/internal/data/repos/schedule"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
	financesvc "github.com/recallerhq/recaller-backend/internal/services/finance"
)

type ReminderInput struct {
	ContactID *uuid.UUID `json:"contact_id,omitempty"`
	Title     string     `json:"title" binding:"required"`
	Notes     string     `json:"notes"`
	DueAt     time.Time  `json:"due_at" binding:"required"`

	// Recurrence turns this into a repeating reminder; each occurrence is a
	// fresh row materialized by the worker.
	Recurrence *financesvc.RecurrenceInput `json:"recurrence,omitempty"`
}

type ReminderUpdateInput struct {
	Title *string    `json:"title,omitempty"`
	Notes *string    `json:"notes,omitempty"`
	DueAt *time.Time `json:"due_at,omitempty"`
}

type ReminderService interface {
	Create(ctx context.Context, input ReminderInput) (*types.Reminder, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Reminder, error)
	List(ctx context.Context, includeCompleted bool) ([]*types.Reminder, error)
	Update(ctx context.Context, id uuid.UUID, input ReminderUpdateInput) (*types.Reminder, error)
	Complete(ctx context.Context, id uuid.UUID) (*types.Reminder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reminderService struct {
	db          *gorm.DB
	log         *logger.Logger
	reminders   reminderrepo.ReminderRepo
	contacts    contactrepo.ContactRepo
	recurrences schedulerepo.RecurrenceRepo
}

func NewReminderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	reminders reminderrepo.ReminderRepo,
	contacts contactrepo.ContactRepo,
	recurrences schedulerepo.RecurrenceRepo,
) ReminderService {
	return &reminderService{
		db:          db,
		log:         baseLog.With("service", "ReminderService"),
		reminders:   reminders,
		contacts:    contacts,
		recurrences: recurrences,
	}
}

func (s *reminderService) Create(ctx context.Context, input ReminderInput) (*types.Reminder, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}

	var created *types.Reminder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.ContactID != nil {
			if _, err := s.contacts.GetByID(ctx, tx, rd.TenantID, *input.ContactID); err != nil {
				return err
			}
		}

		reminder := &types.Reminder{
			ID:        uuid.New(),
			TenantID:  rd.TenantID,
			UserID:    rd.UserID,
			ContactID: input.ContactID,
			Title:     input.Title,
			Notes:     input.Notes,
			DueAt:     input.DueAt,
		}

		if input.Recurrence != nil {
			rule, err := financesvc.BuildRule(rd.TenantID, types.RecurrenceOwnerReminder, *input.Recurrence)
			if err != nil {
				return err
			}
			rule.OwnerID = reminder.ID
			if _, err := s.recurrences.Create(ctx, tx, rule); err != nil {
				return err
			}
			reminder.RecurrenceRuleID = &rule.ID
		}

		var err error
		created, err = s.reminders.Create(ctx, tx, reminder)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *reminderService) Get(ctx context.Context, id uuid.UUID) (*types.Reminder, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.reminders.GetByID(ctx, nil, rd.TenantID, rd.UserID, id)
}

func (s *reminderService) List(ctx context.Context, includeCompleted bool) ([]*types.Reminder, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.reminders.List(ctx, nil, rd.TenantID, rd.UserID, includeCompleted)
}

func (s *reminderService) Update(ctx context.Context, id uuid.UUID, input ReminderUpdateInput) (*types.Reminder, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	var updated *types.Reminder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reminder, err := s.reminders.GetByID(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if input.Title != nil {
			reminder.Title = *input.Title
		}
		if input.Notes != nil {
			reminder.Notes = *input.Notes
		}
		if input.DueAt != nil {
			reminder.DueAt = *input.DueAt
			// A moved deadline is due for delivery again.
			reminder.NotifiedAt = nil
		}
		if err := s.reminders.Save(ctx, tx, reminder); err != nil {
			return err
		}
		updated = reminder
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *reminderService) Complete(ctx context.Context, id uuid.UUID) (*types.Reminder, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	var updated *types.Reminder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reminder, err := s.reminders.GetByID(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if reminder.Completed {
			return fmt.Errorf("reminder already completed: %w", pkgerr.ErrConflict)
		}
		now := time.Now().UTC()
		reminder.Completed = true
		reminder.CompletedAt = &now
		if err := s.reminders.Save(ctx, tx, reminder); err != nil {
			return err
		}
		updated = reminder
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *reminderService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reminder, err := s.reminders.GetByID(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if reminder.RecurrenceRuleID != nil {
			if err := s.recurrences.DeleteByOwner(ctx, tx, types.RecurrenceOwnerReminder, reminder.ID); err != nil {
				return err
			}
		}
		deleted, err := s.reminders.Delete(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("reminder %s: %w", id, pkgerr.ErrNotFound)
		}
		return nil
	})
}
