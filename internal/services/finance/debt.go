package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	contactrepo "github.com/recallerhq/recaller-backend/internal/data/repos/contact"
	financerepo "github.com/recallerhq/recaller-backend/internal/data/repos/finance"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type DebtInput struct {
	ContactID   *uuid.UUID      `json:"contact_id,omitempty"`
	Direction   string          `json:"direction" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

type DebtUpdateInput struct {
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	// Amount can only grow past what has already been paid.
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

type PaymentInput struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type DebtService interface {
	Create(ctx context.Context, input DebtInput) (*types.PersonalDebt, error)
	Get(ctx context.Context, id uuid.UUID) (*types.PersonalDebt, error)
	List(ctx context.Context, status types.DebtStatus) ([]*types.PersonalDebt, error)
	ListForContact(ctx context.Context, contactID uuid.UUID) ([]*types.PersonalDebt, error)
	Update(ctx context.Context, id uuid.UUID, input DebtUpdateInput) (*types.PersonalDebt, error)
	// RecordPayment applies a partial or full payment and moves the debt
	// through outstanding -> partial -> settled.
	RecordPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*types.PersonalDebt, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type debtService struct {
	db       *gorm.DB
	log      *logger.Logger
	debts    financerepo.DebtRepo
	contacts contactrepo.ContactRepo
}

func NewDebtService(
	db *gorm.DB,
	baseLog *logger.Logger,
	debts financerepo.DebtRepo,
	contacts contactrepo.ContactRepo,
) DebtService {
	return &debtService{
		db:       db,
		log:      baseLog.With("service", "DebtService"),
		debts:    debts,
		contacts: contacts,
	}
}

func (s *debtService) Create(ctx context.Context, input DebtInput) (*types.PersonalDebt, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	direction := types.DebtDirection(input.Direction)
	if !direction.Valid() {
		return nil, fmt.Errorf("unknown debt direction %q: %w", input.Direction, pkgerr.ErrValidation)
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("debt amount must be positive: %w", pkgerr.ErrValidation)
	}

	var created *types.PersonalDebt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.ContactID != nil {
			if _, err := s.contacts.GetByID(ctx, tx, rd.TenantID, *input.ContactID); err != nil {
				return err
			}
		}
		var err error
		created, err = s.debts.Create(ctx, tx, &types.PersonalDebt{
			ID:          uuid.New(),
			TenantID:    rd.TenantID,
			UserID:      rd.UserID,
			ContactID:   input.ContactID,
			Direction:   direction,
			Amount:      input.Amount,
			AmountPaid:  decimal.Zero,
			Currency:    currencyOrDefault(input.Currency),
			Description: input.Description,
			DueDate:     input.DueDate,
			Status:      types.DebtOutstanding,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *debtService) Get(ctx context.Context, id uuid.UUID) (*types.PersonalDebt, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.debts.GetByID(ctx, nil, rd.TenantID, rd.UserID, id)
}

func (s *debtService) List(ctx context.Context, status types.DebtStatus) ([]*types.PersonalDebt, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown debt status %q: %w", status, pkgerr.ErrValidation)
	}
	return s.debts.List(ctx, nil, rd.TenantID, rd.UserID, status)
}

func (s *debtService) ListForContact(ctx context.Context, contactID uuid.UUID) ([]*types.PersonalDebt, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.debts.ListByContact(ctx, nil, rd.TenantID, rd.UserID, contactID)
}

func (s *debtService) Update(ctx context.Context, id uuid.UUID, input DebtUpdateInput) (*types.PersonalDebt, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	var updated *types.PersonalDebt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debt, err := s.debts.GetByID(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if debt.Status == types.DebtSettled {
			return fmt.Errorf("debt already settled: %w", pkgerr.ErrConflict)
		}
		if input.Description != nil {
			debt.Description = *input.Description
		}
		if input.DueDate != nil {
			debt.DueDate = input.DueDate
		}
		if input.Amount != nil {
			if !input.Amount.IsPositive() {
				return fmt.Errorf("debt amount must be positive: %w", pkgerr.ErrValidation)
			}
			if input.Amount.LessThan(debt.AmountPaid) {
				return fmt.Errorf("debt amount cannot drop below what was already paid: %w", pkgerr.ErrValidation)
			}
			debt.Amount = *input.Amount
			if debt.Amount.Equal(debt.AmountPaid) {
				now := time.Now().UTC()
				debt.Status = types.DebtSettled
				debt.SettledAt = &now
			}
		}
		if err := s.debts.Save(ctx, tx, debt); err != nil {
			return err
		}
		updated = debt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *debtService) RecordPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*types.PersonalDebt, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive: %w", pkgerr.ErrValidation)
	}

	var updated *types.PersonalDebt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debt, err := s.debts.GetByID(ctx, tx, rd.TenantID, rd.UserID, id)
		if err != nil {
			return err
		}
		if debt.Status == types.DebtSettled {
			return fmt.Errorf("debt already settled: %w", pkgerr.ErrConflict)
		}
		remaining := debt.Amount.Sub(debt.AmountPaid)
		if input.Amount.GreaterThan(remaining) {
			return fmt.Errorf("payment exceeds remaining balance: %w", pkgerr.ErrValidation)
		}

		debt.AmountPaid = debt.AmountPaid.Add(input.Amount)
		if debt.AmountPaid.Equal(debt.Amount) {
			now := time.Now().UTC()
			debt.Status = types.DebtSettled
			debt.SettledAt = &now
		} else {
			debt.Status = types.DebtPartial
		}
		if err := s.debts.Save(ctx, tx, debt); err != nil {
			return err
		}
		updated = debt
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("debt payment recorded", "debt_id", updated.ID, "status", updated.Status)
	return updated, nil
}

func (s *debtService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	deleted, err := s.debts.Delete(ctx, nil, rd.TenantID, rd.UserID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("debt %s: %w", id, pkgerr.ErrNotFound)
	}
	return nil
}
