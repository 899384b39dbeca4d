package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	reminderrepo "github.com/recallerhq/recaller-backend/internal/data/repos/reminder"
	schedulerepo "github.com/recallerhq/recaller-backend/internal/data/repos/schedule"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
	financesvc "github.com/recallerhq/recaller-backend/internal/services/finance"
)

type TaskInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	DueAt       *time.Time `json:"due_at,omitempty"`

	Recurrence *financesvc.RecurrenceInput `json:"recurrence,omitempty"`
}

type TaskUpdateInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

type TaskService interface {
	Create(ctx context.Context, input TaskInput) (*types.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Task, error)
	List(ctx context.Context, status types.TaskStatus) ([]*types.Task, error)
	Update(ctx context.Context, id uuid.UUID, input TaskUpdateInput) (*types.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskService struct {
	db          *gorm.DB
	log         *logger.Logger
	tasks       reminderrepo.TaskRepo
	recurrences schedulerepo.RecurrenceRepo
}

func NewTaskService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tasks reminderrepo.TaskRepo,
	recurrences schedulerepo.RecurrenceRepo,
) TaskService {
	return &taskService{
		db:          db,
		log:         baseLog.With("service", "TaskService"),
		tasks:       tasks,
		recurrences: recurrences,
	}
}

func (s *taskService) Create(ctx context.Context, input TaskInput) (*types.Task, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}

	var created *types.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task := &types.Task{
			ID:          uuid.New(),
			TenantID:    rd.TenantID,
			UserID:      rd.UserID,
			Title:       input.Title,
			Description: input.Description,
			Status:      types.TaskPending,
			Priority:    input.Priority,
			DueAt:       input.DueAt,
		}

		if input.Recurrence != nil {
			rule, err := financesvc.BuildRule(rd.TenantID, types.RecurrenceOwnerTask, *input.Recurrence)
			if err != nil {
				return err
			}
			rule.OwnerID = task.ID
			if _, err := s.recurrences.Create(ctx, tx, rule); err != nil {
				return err
			}
			task.RecurrenceRuleID = &rule.ID
		}

		var err error
		created, err = s.tasks.Create(ctx, tx, task)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*types.Task, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.tasks.GetByID(ctx, nil, rd.TenantID, rd.UserID, id)
}

func (s *taskService) List(ctx context.Context, status types.TaskStatus) ([]*types.Task, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown task status %q: %w", status, pkgerr.ErrValidation)
	}
	return s.tasks.List(ctx, nil, rd.TenantID, rd.UserID, status)
}

func (s *taskService) Update(ctx context.Context, id uuid.UUID, input TaskUpdateInput) (*types.Task, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	var updated *types.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := s.tasks.GetByID(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.Status != nil {
			status := types.TaskStatus(*input.Status)
			if !status.Valid() {
				return fmt.Errorf("unknown task status %q: %w", *input.Status, pkgerr.ErrValidation)
			}
			if status == types.TaskDone && task.Status != types.TaskDone {
				now := time.Now().UTC()
				task.CompletedAt = &now
			}
			task.Status = status
		}
		if input.Priority != nil {
			task.Priority = *input.Priority
		}
		if input.DueAt != nil {
			task.DueAt = input.DueAt
		}
		if err := s.tasks.Save(ctx, tx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := s.tasks.GetByID(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if task.RecurrenceRuleID != nil {
			if err := s.recurrences.DeleteByOwner(ctx, tx, types.RecurrenceOwnerTask, task.ID); err != nil {
				return err
			}
		}
		deleted, err := s.tasks.Delete(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("task %s: %w", id, pkgerr.ErrNotFound)
		}
		return nil
	})
}
