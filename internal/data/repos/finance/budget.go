package finance

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

type BudgetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, b *types.Budget) (*types.Budget, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (*types.Budget, error)
	List(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, at *time.Time) ([]*types.Budget, error)
	Save(ctx context.Context, tx *gorm.DB, b *types.Budget) error
	Delete(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error)
}

type budgetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBudgetRepo(db *gorm.DB, baseLog *logger.Logger) BudgetRepo {
	return &budgetRepo{db: db, log: baseLog.With("repo", "BudgetRepo")}
}

func (br *budgetRepo) Create(ctx context.Context, tx *gorm.DB, b *types.Budget) (*types.Budget, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if err := transaction.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (br *budgetRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (*types.Budget, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var b types.Budget
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("budget %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns the user's budgets; when at is set, only budgets whose
// period covers that instant.
func (br *budgetRepo) List(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, at *time.Time) ([]*types.Budget, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	q := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if at != nil {
		q = q.Where("period_start <= ? AND period_end >= ?", *at, *at)
	}
	var budgets []*types.Budget
	if err := q.Order("period_start DESC").Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (br *budgetRepo) Save(ctx context.Context, tx *gorm.DB, b *types.Budget) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	return transaction.WithContext(ctx).Save(b).Error
}

func (br *budgetRepo) Delete(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		Delete(&types.Budget{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
