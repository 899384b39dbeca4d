package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	financerepo "github.com/recallerhq/recaller-backend/internal/data/repos/finance"
	schedulerepo "github.com/recallerhq/recaller-backend/internal/data/repos/schedule"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	"github.com/recallerhq/recaller-backend/internal/domain/schedule"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/recurrence"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type BudgetInput struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
	PeriodStart time.Time       `json:"period_start" binding:"required"`
	PeriodEnd   time.Time       `json:"period_end" binding:"required"`
}

type BudgetUpdateInput struct {
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	PeriodStart *time.Time       `json:"period_start,omitempty"`
	PeriodEnd   *time.Time       `json:"period_end,omitempty"`
}

type BudgetStatus struct {
	Budget    *types.Budget   `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

type TransactionInput struct {
	BudgetID    *uuid.UUID      `json:"budget_id,omitempty"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	OccurredAt  *time.Time      `json:"occurred_at,omitempty"`
}

type RecurrenceInput struct {
	Frequency      string     `json:"frequency" binding:"required"`
	IntervalCount  int        `json:"interval_count"`
	DaysOfWeek     []int      `json:"days_of_week,omitempty"`
	DayOfMonth     *int       `json:"day_of_month,omitempty"`
	StartDate      time.Time  `json:"start_date" binding:"required"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	MaxOccurrences *int       `json:"max_occurrences,omitempty"`
}

type RecurringTransactionInput struct {
	BudgetID    *uuid.UUID      `json:"budget_id,omitempty"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Category    string          `json:"category"`

	Recurrence RecurrenceInput `json:"recurrence" binding:"required"`
}

type FinanceService interface {
	CreateBudget(ctx context.Context, input BudgetInput) (*types.Budget, error)
	GetBudget(ctx context.Context, id uuid.UUID) (*BudgetStatus, error)
	ListBudgets(ctx context.Context, at *time.Time) ([]*types.Budget, error)
	UpdateBudget(ctx context.Context, id uuid.UUID, input BudgetUpdateInput) (*types.Budget, error)
	DeleteBudget(ctx context.Context, id uuid.UUID) error

	CreateTransaction(ctx context.Context, input TransactionInput) (*types.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*types.Transaction, error)
	ListTransactions(ctx context.Context, filter financerepo.TransactionFilter) ([]*types.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	CreateRecurringTransaction(ctx context.Context, input RecurringTransactionInput) (*types.RecurringTransaction, error)
	ListRecurringTransactions(ctx context.Context) ([]*types.RecurringTransaction, error)
	DeleteRecurringTransaction(ctx context.Context, id uuid.UUID) error
}

type financeService struct {
	db           *gorm.DB
	log          *logger.Logger
	budgets      financerepo.BudgetRepo
	transactions financerepo.TransactionRepo
	recurrences  schedulerepo.RecurrenceRepo
}

func NewFinanceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	budgets financerepo.BudgetRepo,
	transactions financerepo.TransactionRepo,
	recurrences schedulerepo.RecurrenceRepo,
) FinanceService {
	return &financeService{
		db:           db,
		log:          baseLog.With("service", "FinanceService"),
		budgets:      budgets,
		transactions: transactions,
		recurrences:  recurrences,
	}
}

func (s *financeService) CreateBudget(ctx context.Context, input BudgetInput) (*types.Budget, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, fmt.Errorf("budget period cannot end before it starts: %w", pkgerr.ErrValidation)
	}
	if input.Amount.IsNegative() {
		return nil, fmt.Errorf("budget amount cannot be negative: %w", pkgerr.ErrValidation)
	}
	budget := &types.Budget{
		ID:          uuid.New(),
		TenantID:    rd.TenantID,
		UserID:      rd.UserID,
		Name:        input.Name,
		Category:    input.Category,
		Amount:      input.Amount,
		Currency:    currencyOrDefault(input.Currency),
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
	}
	var created *types.Budget
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.budgets.Create(ctx, tx, budget)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *financeService) GetBudget(ctx context.Context, id uuid.UUID) (*BudgetStatus, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	budget, err := s.budgets.GetByID(ctx, nil, rd.TenantID, rd.UserID, id)
	if err != nil {
		return nil, err
	}
	spent, err := s.transactions.SumByBudget(ctx, nil, rd.TenantID, rd.UserID, id)
	if err != nil {
		return nil, err
	}
	return &BudgetStatus{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.Amount.Sub(spent),
	}, nil
}

func (s *financeService) ListBudgets(ctx context.Context, at *time.Time) ([]*types.Budget, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.budgets.List(ctx, nil, rd.TenantID, rd.UserID, at)
}

func (s *financeService) UpdateBudget(ctx context.Context, id uuid.UUID, input BudgetUpdateInput) (*types.Budget, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	var updated *types.Budget
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := s.budgets.GetByID(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if input.Name != nil {
			budget.Name = *input.Name
		}
		if input.Category != nil {
			budget.Category = *input.Category
		}
		if input.Amount != nil {
			if input.Amount.IsNegative() {
				return fmt.Errorf("budget amount cannot be negative: %w", pkgerr.ErrValidation)
			}
			budget.Amount = *input.Amount
		}
		if input.Currency != nil {
			budget.Currency = currencyOrDefault(*input.Currency)
		}
		if input.PeriodStart != nil {
			budget.PeriodStart = *input.PeriodStart
		}
		if input.PeriodEnd != nil {
			budget.PeriodEnd = *input.PeriodEnd
		}
		if budget.PeriodEnd.Before(budget.PeriodStart) {
			return fmt.Errorf("budget period cannot end before it starts: %w", pkgerr.ErrValidation)
		}
		if err := s.budgets.Save(ctx, tx, budget); err != nil {
			return err
		}
		updated = budget
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *financeService) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	deleted, err := s.budgets.Delete(ctx, nil, rd.TenantID, rd.UserID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("budget %s: %w", id, pkgerr.ErrNotFound)
	}
	return nil
}

func (s *financeService) CreateTransaction(ctx context.Context, input TransactionInput) (*types.Transaction, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	occurredAt := time.Now().UTC()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	var created *types.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.BudgetID != nil {
			if _, err := s.budgets.GetByID(ctx, tx, rd.TenantID, rd.UserID, *input.BudgetID); err != nil {
				return err
			}
		}
		var err error
		created, err = s.transactions.Create(ctx, tx, &types.Transaction{
			ID:          uuid.New(),
			TenantID:    rd.TenantID,
			UserID:      rd.UserID,
			BudgetID:    input.BudgetID,
			Amount:      input.Amount,
			Currency:    currencyOrDefault(input.Currency),
			Description: input.Description,
			Category:    input.Category,
			OccurredAt:  occurredAt,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *financeService) GetTransaction(ctx context.Context, id uuid.UUID) (*types.Transaction, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.transactions.GetByID(ctx, nil, rd.TenantID, rd.UserID, id)
}

func (s *financeService) ListTransactions(ctx context.Context, filter financerepo.TransactionFilter) ([]*types.Transaction, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.transactions.List(ctx, nil, rd.TenantID, rd.UserID, filter)
}

func (s *financeService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	deleted, err := s.transactions.Delete(ctx, nil, rd.TenantID, rd.UserID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("transaction %s: %w", id, pkgerr.ErrNotFound)
	}
	return nil
}

// CreateRecurringTransaction stores the template plus one recurrence rule;
// the worker materializes concrete transactions as each occurrence falls due.
func (s *financeService) CreateRecurringTransaction(ctx context.Context, input RecurringTransactionInput) (*types.RecurringTransaction, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	rule, err := BuildRule(rd.TenantID, types.RecurrenceOwnerTransaction, input.Recurrence)
	if err != nil {
		return nil, err
	}

	var created *types.RecurringTransaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.BudgetID != nil {
			if _, err := s.budgets.GetByID(ctx, tx, rd.TenantID, rd.UserID, *input.BudgetID); err != nil {
				return err
			}
		}
		var err error
		created, err = s.transactions.CreateRecurring(ctx, tx, &types.RecurringTransaction{
			ID:          uuid.New(),
			TenantID:    rd.TenantID,
			UserID:      rd.UserID,
			BudgetID:    input.BudgetID,
			Amount:      input.Amount,
			Currency:    currencyOrDefault(input.Currency),
			Description: input.Description,
			Category:    input.Category,
		})
		if err != nil {
			return err
		}
		rule.OwnerID = created.ID
		_, err = s.recurrences.Create(ctx, tx, rule)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("recurring transaction created", "recurring_transaction_id", created.ID)
	return created, nil
}

func (s *financeService) ListRecurringTransactions(ctx context.Context) ([]*types.RecurringTransaction, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.transactions.ListRecurring(ctx, nil, rd.TenantID, rd.UserID)
}

func (s *financeService) DeleteRecurringTransaction(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.transactions.DeleteRecurring(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("recurring transaction %s: %w", id, pkgerr.ErrNotFound)
		}
		return s.recurrences.DeleteByOwner(ctx, tx, types.RecurrenceOwnerTransaction, id)
	})
}

// BuildRule validates a recurrence request and produces a rule row ready for
// an owner ID. The first generation is due at the rule's start date.
func BuildRule(tenantID uuid.UUID, ownerType string, input RecurrenceInput) (*types.RecurrenceRule, error) {
	freq := recurrence.Frequency(input.Frequency)
	if !freq.Valid() {
		return nil, fmt.Errorf("unknown frequency %q: %w", input.Frequency, pkgerr.ErrValidation)
	}
	if input.DayOfMonth != nil && (*input.DayOfMonth < 1 || *input.DayOfMonth > 31) {
		return nil, fmt.Errorf("day of month must be between 1 and 31: %w", pkgerr.ErrValidation)
	}
	if input.MaxOccurrences != nil && *input.MaxOccurrences < 1 {
		return nil, fmt.Errorf("max occurrences must be positive: %w", pkgerr.ErrValidation)
	}
	interval := input.IntervalCount
	if interval < 1 {
		interval = 1
	}
	days := make([]time.Weekday, 0, len(input.DaysOfWeek))
	for _, d := range input.DaysOfWeek {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("day of week must be between 0 and 6: %w", pkgerr.ErrValidation)
		}
		days = append(days, time.Weekday(d))
	}
	return &types.RecurrenceRule{
		ID:               uuid.New(),
		TenantID:         tenantID,
		OwnerType:        ownerType,
		Frequency:        freq,
		IntervalCount:    interval,
		DaysOfWeek:       schedule.EncodeDaysOfWeek(days),
		DayOfMonth:       input.DayOfMonth,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		MaxOccurrences:   input.MaxOccurrences,
		NextGenerationAt: input.StartDate,
		Active:           true,
	}, nil
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}
