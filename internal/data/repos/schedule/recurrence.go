package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recallerhq/recaller-backend/internal/data/db"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type RecurrenceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule) (*types.RecurrenceRule, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.RecurrenceRule, error)
	GetByOwner(ctx context.Context, tx *gorm.DB, ownerType string, ownerID uuid.UUID) (*types.RecurrenceRule, error)
	ListDue(ctx context.Context, tx *gorm.DB, before time.Time, limit int) ([]*types.RecurrenceRule, error)
	Save(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule) error
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByOwner(ctx context.Context, tx *gorm.DB, ownerType string, ownerID uuid.UUID) error
}

type recurrenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecurrenceRepo(database *gorm.DB, baseLog *logger.Logger) RecurrenceRepo {
	return &recurrenceRepo{db: database, log: baseLog.With("repo", "RecurrenceRepo")}
}

func (rr *recurrenceRepo) Create(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule) (*types.RecurrenceRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if err := transaction.WithContext(ctx).Create(rule).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("recurrence rule already exists for owner: %w", pkgerr.ErrConflict)
		}
		return nil, err
	}
	return rule, nil
}

func (rr *recurrenceRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.RecurrenceRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var rule types.RecurrenceRule
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("recurrence rule %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (rr *recurrenceRepo) GetByOwner(ctx context.Context, tx *gorm.DB, ownerType string, ownerID uuid.UUID) (*types.RecurrenceRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var rule types.RecurrenceRule
	err := transaction.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("recurrence rule for %s %s: %w", ownerType, ownerID, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListDue returns active rules whose next generation time has passed,
// oldest first, capped at limit so one worker tick stays bounded.
func (rr *recurrenceRepo) ListDue(ctx context.Context, tx *gorm.DB, before time.Time, limit int) ([]*types.RecurrenceRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if limit <= 0 {
		limit = 100
	}
	var rules []*types.RecurrenceRule
	if err := transaction.WithContext(ctx).
		Where("active = ? AND next_generation_at <= ?", true, before).
		Order("next_generation_at ASC").
		Limit(limit).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (rr *recurrenceRepo) Save(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Save(rule).Error
}

func (rr *recurrenceRepo) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.RecurrenceRule{}).
		Where("id = ?", id).
		Update("active", false).Error
}

func (rr *recurrenceRepo) DeleteByOwner(ctx context.Context, tx *gorm.DB, ownerType string, ownerID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Delete(&types.RecurrenceRule{}).Error
}
