package tenant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is the isolation boundary: every other row is scoped by TenantID and
// contact IDs are only meaningful within one tenant.
type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	IsDefault bool      `gorm:"not null;default:false;column:is_default" json:"is_default"`
	Active    bool      `gorm:"not null;default:true;column:active" json:"active"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Tenant) TableName() string { return "tenant" }
