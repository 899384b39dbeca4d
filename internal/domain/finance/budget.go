package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Budget struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`

	Name        string          `gorm:"not null;column:name" json:"name"`
	Category    string          `gorm:"column:category" json:"category"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null;column:amount" json:"amount"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD';column:currency" json:"currency"`
	PeriodStart time.Time       `gorm:"not null;column:period_start" json:"period_start"`
	PeriodEnd   time.Time       `gorm:"not null;column:period_end" json:"period_end"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Budget) TableName() string { return "budget" }
