package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DebtDirection string

const (
	DebtOwedToMe DebtDirection = "owed_to_me"
	DebtOwedByMe DebtDirection = "owed_by_me"
)

func (d DebtDirection) Valid() bool {
	return d == DebtOwedToMe || d == DebtOwedByMe
}

type DebtStatus string

const (
	DebtOutstanding DebtStatus = "outstanding"
	DebtPartial     DebtStatus = "partial"
	DebtSettled     DebtStatus = "settled"
)

func (s DebtStatus) Valid() bool {
	switch s {
	case DebtOutstanding, DebtPartial, DebtSettled:
		return true
	default:
		return false
	}
}

// PersonalDebt tracks money owed between the user and one of their contacts.
type PersonalDebt struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	ContactID *uuid.UUID `gorm:"type:uuid;index;column:contact_id" json:"contact_id,omitempty"`

	Direction   DebtDirection   `gorm:"type:varchar(16);not null;column:direction" json:"direction"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null;column:amount" json:"amount"`
	AmountPaid  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0;column:amount_paid" json:"amount_paid"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD';column:currency" json:"currency"`
	Description string          `gorm:"column:description" json:"description"`
	DueDate     *time.Time      `gorm:"column:due_date" json:"due_date,omitempty"`
	Status      DebtStatus      `gorm:"type:varchar(16);not null;default:'outstanding';column:status" json:"status"`
	SettledAt   *time.Time      `gorm:"column:settled_at" json:"settled_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PersonalDebt) TableName() string { return "personal_debt" }
