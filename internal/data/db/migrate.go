package db

import (
	"gorm.io/gorm"

	types "github.com/recallerhq/recaller-backend/internal/domain"
)

// AutoMigrateAll creates or updates every Recaller table. The composite
// unique indexes declared in the model tags (contact/organization
// membership, event attendee, recurrence-rule owner) are what the conflict
// semantics in the repos rely on; the canonical relationship-pair index is
// created separately below.
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.Tenant{},
		&types.User{},
		&types.UserToken{},

		&types.Contact{},
		&types.Organization{},
		&types.ContactOrganization{},
		&types.ContactRelationship{},

		&types.RecurrenceRule{},

		&types.Event{},
		&types.EventAttendee{},
		&types.JournalEntry{},

		&types.Budget{},
		&types.Transaction{},
		&types.RecurringTransaction{},
		&types.PersonalDebt{},

		&types.Reminder{},
		&types.Task{},
	); err != nil {
		return err
	}

	// The pair constraint must ignore soft-deleted rows so two contacts can
	// be related again after a delete. AutoMigrate cannot express a partial
	// index; Postgres and sqlite share this syntax.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_relationship_pair
		ON contact_relationship (tenant_id, contact_a_id, contact_b_id)
		WHERE deleted_at IS NULL`).Error
}
