package reminder

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskDone:
		return true
	default:
		return false
	}
}

type Task struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`

	Title       string     `gorm:"not null;column:title" json:"title"`
	Description string     `gorm:"type:text;column:description" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(16);not null;default:'pending';column:status" json:"status"`
	Priority    int        `gorm:"not null;default:0;column:priority" json:"priority"`
	DueAt       *time.Time `gorm:"index;column:due_at" json:"due_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	RecurrenceRuleID *uuid.UUID `gorm:"type:uuid;index;column:recurrence_rule_id" json:"recurrence_rule_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Task) TableName() string { return "task" }
