package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Transaction struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	BudgetID *uuid.UUID `gorm:"type:uuid;index;column:budget_id" json:"budget_id,omitempty"`

	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null;column:amount" json:"amount"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD';column:currency" json:"currency"`
	Description string          `gorm:"column:description" json:"description"`
	Category    string          `gorm:"column:category" json:"category"`
	OccurredAt  time.Time       `gorm:"not null;index;column:occurred_at" json:"occurred_at"`

	// RecurringTransactionID is set on rows materialized by the recurrence worker.
	RecurringTransactionID *uuid.UUID `gorm:"type:uuid;index;column:recurring_transaction_id" json:"recurring_transaction_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Transaction) TableName() string { return "transaction" }

// RecurringTransaction is the template the recurrence worker copies into
// concrete Transaction rows on each generation.
type RecurringTransaction struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID  `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	BudgetID *uuid.UUID `gorm:"type:uuid;column:budget_id" json:"budget_id,omitempty"`

	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null;column:amount" json:"amount"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD';column:currency" json:"currency"`
	Description string          `gorm:"column:description" json:"description"`
	Category    string          `gorm:"column:category" json:"category"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (RecurringTransaction) TableName() string { return "recurring_transaction" }
