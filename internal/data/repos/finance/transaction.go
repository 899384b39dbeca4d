package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type TransactionFilter struct {
	BudgetID *uuid.UUID
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type TransactionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, t *types.Transaction) (*types.Transaction, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (*types.Transaction, error)
	List(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, filter TransactionFilter) ([]*types.Transaction, error)
	SumByBudget(ctx context.Context, tx *gorm.DB, tenantID, userID, budgetID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, tx *gorm.DB, t *types.Transaction) error
	Delete(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error)

	CreateRecurring(ctx context.Context, tx *gorm.DB, rt *types.RecurringTransaction) (*types.RecurringTransaction, error)
	GetRecurringByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.RecurringTransaction, error)
	ListRecurring(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID) ([]*types.RecurringTransaction, error)
	DeleteRecurring(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error)
}

type transactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransactionRepo(db *gorm.DB, baseLog *logger.Logger) TransactionRepo {
	return &transactionRepo{db: db, log: baseLog.With("repo", "TransactionRepo")}
}

func (tr *transactionRepo) Create(ctx context.Context, tx *gorm.DB, t *types.Transaction) (*types.Transaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if err := transaction.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (tr *transactionRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (*types.Transaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var t types.Transaction
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("transaction %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (tr *transactionRepo) List(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, filter TransactionFilter) ([]*types.Transaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	q := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if filter.BudgetID != nil {
		q = q.Where("budget_id = ?", *filter.BudgetID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		q = q.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("occurred_at < ?", *filter.To)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	var transactions []*types.Transaction
	if err := q.Order("occurred_at DESC").
		Limit(limit).Offset(offset).
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// SumByBudget totals the transactions attributed to one budget, for
// spent-versus-allocated reporting.
func (tr *transactionRepo) SumByBudget(ctx context.Context, tx *gorm.DB, tenantID, userID, budgetID uuid.UUID) (decimal.Decimal, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var row struct {
		Total decimal.Decimal
	}
	err := transaction.WithContext(ctx).
		Model(&types.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ? AND user_id = ? AND budget_id = ?", tenantID, userID, budgetID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (tr *transactionRepo) Save(ctx context.Context, tx *gorm.DB, t *types.Transaction) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Save(t).Error
}

func (tr *transactionRepo) Delete(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		Delete(&types.Transaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (tr *transactionRepo) CreateRecurring(ctx context.Context, tx *gorm.DB, rt *types.RecurringTransaction) (*types.RecurringTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if err := transaction.WithContext(ctx).Create(rt).Error; err != nil {
		return nil, err
	}
	return rt, nil
}

func (tr *transactionRepo) GetRecurringByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.RecurringTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var rt types.RecurringTransaction
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("recurring transaction %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (tr *transactionRepo) ListRecurring(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID) ([]*types.RecurringTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var templates []*types.RecurringTransaction
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("created_at ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (tr *transactionRepo) DeleteRecurring(ctx context.Context, tx *gorm.DB, tenantID, userID, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		Delete(&types.RecurringTransaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
