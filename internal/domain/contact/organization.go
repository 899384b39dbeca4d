package contact

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organization struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;not null;column:created_by_user_id" json:"created_by_user_id"`

	Name     string `gorm:"not null;column:name" json:"name"`
	Industry string `gorm:"column:industry" json:"industry"`
	Website  string `gorm:"column:website" json:"website"`
	Notes    string `gorm:"type:text;column:notes" json:"notes"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Organization) TableName() string { return "organization" }

// ContactOrganization links a contact to an organization (employment,
// membership). One row per contact/organization pair per tenant.
type ContactOrganization struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contact_org_pair;column:tenant_id" json:"tenant_id"`
	ContactID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contact_org_pair;column:contact_id" json:"contact_id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contact_org_pair;column:organization_id" json:"organization_id"`

	Role      string     `gorm:"column:role" json:"role"`
	StartDate *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ContactOrganization) TableName() string { return "contact_organization" }
