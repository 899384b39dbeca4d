package schedule

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/recallerhq/recaller-backend/internal/recurrence"
)

// Owner types for recurrence rules.
const (
	OwnerTask        = "task"
	OwnerTransaction = "transaction"
	OwnerReminder    = "reminder"
)

// RecurrenceRule is one rule row per recurring parent entity. The worker
// reads rules whose NextGenerationAt has passed, materializes one concrete
// instance and writes back the advanced counters.
type RecurrenceRule struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`

	OwnerType string    `gorm:"not null;uniqueIndex:idx_recurrence_owner;column:owner_type" json:"owner_type"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recurrence_owner;column:owner_id" json:"owner_id"`

	Frequency     recurrence.Frequency `gorm:"type:varchar(16);not null;column:frequency" json:"frequency"`
	IntervalCount int                  `gorm:"not null;default:1;column:interval_count" json:"interval_count"`
	// DaysOfWeek is a JSON array of weekday numbers (0=Sunday ... 6=Saturday).
	DaysOfWeek     datatypes.JSON `gorm:"type:jsonb;column:days_of_week" json:"days_of_week,omitempty"`
	DayOfMonth     *int           `gorm:"column:day_of_month" json:"day_of_month,omitempty"`
	StartDate      time.Time      `gorm:"not null;column:start_date" json:"start_date"`
	EndDate        *time.Time     `gorm:"column:end_date" json:"end_date,omitempty"`
	MaxOccurrences *int           `gorm:"column:max_occurrences" json:"max_occurrences,omitempty"`

	GenerationCount  int        `gorm:"not null;default:0;column:generation_count" json:"generation_count"`
	LastGeneratedAt  *time.Time `gorm:"column:last_generated_at" json:"last_generated_at,omitempty"`
	NextGenerationAt time.Time  `gorm:"not null;index;column:next_generation_at" json:"next_generation_at"`
	Active           bool       `gorm:"not null;default:true;column:active" json:"active"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (RecurrenceRule) TableName() string { return "recurrence_rule" }

// SchedulerRule converts the stored row into the scheduler's pure input.
func (r *RecurrenceRule) SchedulerRule() recurrence.Rule {
	rule := recurrence.Rule{
		Frequency:       r.Frequency,
		IntervalCount:   r.IntervalCount,
		DayOfMonth:      r.DayOfMonth,
		EndDate:         r.EndDate,
		MaxOccurrences:  r.MaxOccurrences,
		GenerationCount: r.GenerationCount,
	}
	if len(r.DaysOfWeek) > 0 {
		var days []int
		if err := json.Unmarshal(r.DaysOfWeek, &days); err == nil {
			for _, d := range days {
				if d >= 0 && d <= 6 {
					rule.DaysOfWeek = append(rule.DaysOfWeek, time.Weekday(d))
				}
			}
		}
	}
	return rule
}

// EncodeDaysOfWeek serializes weekday numbers for storage.
func EncodeDaysOfWeek(days []time.Weekday) datatypes.JSON {
	if len(days) == 0 {
		return nil
	}
	nums := make([]int, 0, len(days))
	for _, d := range days {
		nums = append(nums, int(d))
	}
	b, _ := json.Marshal(nums)
	return datatypes.JSON(b)
}
