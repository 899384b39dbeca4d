package contact

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/recallerhq/recaller-backend/internal/relationship"
)

type Contact struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;not null;column:created_by_user_id" json:"created_by_user_id"`

	FirstName string              `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string              `gorm:"column:last_name" json:"last_name"`
	Gender    relationship.Gender `gorm:"type:varchar(16);not null;default:'unknown';column:gender" json:"gender"`
	Email     string              `gorm:"column:email" json:"email"`
	Phone     string              `gorm:"column:phone" json:"phone"`
	Birthday  *time.Time          `gorm:"column:birthday" json:"birthday,omitempty"`
	Notes     string              `gorm:"type:text;column:notes" json:"notes"`
	Metadata  datatypes.JSON      `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Contact) TableName() string { return "contact" }
