package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Event struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;not null;column:created_by_user_id" json:"created_by_user_id"`

	Title       string         `gorm:"not null;column:title" json:"title"`
	Description string         `gorm:"type:text;column:description" json:"description"`
	Location    string         `gorm:"column:location" json:"location"`
	StartsAt    time.Time      `gorm:"not null;index;column:starts_at" json:"starts_at"`
	EndsAt      *time.Time     `gorm:"column:ends_at" json:"ends_at,omitempty"`
	Metadata    datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Event) TableName() string { return "event" }

// EventAttendee links a contact to an event.
type EventAttendee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_attendee;column:tenant_id" json:"tenant_id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_attendee;column:event_id" json:"event_id"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_attendee;column:contact_id" json:"contact_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (EventAttendee) TableName() string { return "event_attendee" }
