package reminder

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reminder struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	ContactID *uuid.UUID `gorm:"type:uuid;index;column:contact_id" json:"contact_id,omitempty"`

	Title       string     `gorm:"not null;column:title" json:"title"`
	Notes       string     `gorm:"type:text;column:notes" json:"notes"`
	DueAt       time.Time  `gorm:"not null;index;column:due_at" json:"due_at"`
	Completed   bool       `gorm:"not null;default:false;column:completed" json:"completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	NotifiedAt  *time.Time `gorm:"column:notified_at" json:"notified_at,omitempty"`

	// RecurrenceRuleID is set when the reminder repeats; materialized
	// occurrences point back at the same rule.
	RecurrenceRuleID *uuid.UUID `gorm:"type:uuid;index;column:recurrence_rule_id" json:"recurrence_rule_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Reminder) TableName() string { return "reminder" }
