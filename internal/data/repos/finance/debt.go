package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type DebtRepo interface {
	Create(ctx context.Context, tx *gorm.DB, d *types.PersonalDebt) (*types.PersonalDebt, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (*types.PersonalDebt, error)
	List(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, status types.DebtStatus) ([]*types.PersonalDebt, error)
	ListByContact(ctx context.Context, tx *gorm.DB, tenantID, userID, contactID uuid.UUID) ([]*types.PersonalDebt, error)
	Save(ctx context.Context, tx *gorm.DB, d *types.PersonalDebt) error
	Delete(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error)
}

type debtRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDebtRepo(db *gorm.DB, baseLog *logger.Logger) DebtRepo {
	return &debtRepo{db: db, log: baseLog.With("repo", "DebtRepo")}
}

func (dr *debtRepo) Create(ctx context.Context, tx *gorm.DB, d *types.PersonalDebt) (*types.PersonalDebt, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if err := transaction.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (dr *debtRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (*types.PersonalDebt, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var d types.PersonalDebt
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("debt %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (dr *debtRepo) List(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, status types.DebtStatus) ([]*types.PersonalDebt, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	q := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var debts []*types.PersonalDebt
	if err := q.Order("created_at ASC").Find(&debts).Error; err != nil {
		return nil, err
	}
	return debts, nil
}

func (dr *debtRepo) ListByContact(ctx context.Context, tx *gorm.DB, tenantID, userID, contactID uuid.UUID) ([]*types.PersonalDebt, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var debts []*types.PersonalDebt
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND contact_id = ?", tenantID, userID, contactID).
		Order("created_at ASC").
		Find(&debts).Error; err != nil {
		return nil, err
	}
	return debts, nil
}

func (dr *debtRepo) Save(ctx context.Context, tx *gorm.DB, d *types.PersonalDebt) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).Save(d).Error
}

func (dr *debtRepo) Delete(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		Delete(&types.PersonalDebt{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
