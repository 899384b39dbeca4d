package journal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JournalEntry struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`

	Title     string         `gorm:"column:title" json:"title"`
	Body      string         `gorm:"type:text;not null;column:body" json:"body"`
	Mood      string         `gorm:"column:mood" json:"mood"`
	Tags      datatypes.JSON `gorm:"type:jsonb;column:tags" json:"tags,omitempty"`
	EntryDate time.Time      `gorm:"not null;index;column:entry_date" json:"entry_date"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (JournalEntry) TableName() string { return "journal_entry" }
