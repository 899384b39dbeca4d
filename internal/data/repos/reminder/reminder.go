package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type ReminderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, r *types.Reminder) (*types.Reminder, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (*types.Reminder, error)
	List(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, includeCompleted bool) ([]*types.Reminder, error)
	ListDue(ctx context.Context, tx *gorm.DB, before time.Time, limit int) ([]*types.Reminder, error)
	MarkNotified(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	Save(ctx context.Context, tx *gorm.DB, r *types.Reminder) error
	Delete(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error)
}

type reminderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReminderRepo(db *gorm.DB, baseLog *logger.Logger) ReminderRepo {
	return &reminderRepo{db: db, log: baseLog.With("repo", "ReminderRepo")}
}

func (rr *reminderRepo) Create(ctx context.Context, tx *gorm.DB, r *types.Reminder) (*types.Reminder, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if err := transaction.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

func (rr *reminderRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (*types.Reminder, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var r types.Reminder
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("reminder %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (rr *reminderRepo) List(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, includeCompleted bool) ([]*types.Reminder, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	q := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if !includeCompleted {
		q = q.Where("completed = ?", false)
	}
	var reminders []*types.Reminder
	if err := q.Order("due_at ASC").Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// ListDue feeds the notifier: uncompleted, not-yet-notified reminders across
// all tenants whose due time has passed.
func (rr *reminderRepo) ListDue(ctx context.Context, tx *gorm.DB, before time.Time, limit int) ([]*types.Reminder, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if limit <= 0 {
		limit = 100
	}
	var reminders []*types.Reminder
	if err := transaction.WithContext(ctx).
		Where("completed = ? AND notified_at IS NULL AND due_at <= ?", false, before).
		Order("due_at ASC").
		Limit(limit).
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (rr *reminderRepo) MarkNotified(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Reminder{}).
		Where("id = ?", id).
		Update("notified_at", at).Error
}

func (rr *reminderRepo) Save(ctx context.Context, tx *gorm.DB, r *types.Reminder) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Save(r).Error
}

func (rr *reminderRepo) Delete(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		Delete(&types.Reminder{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
