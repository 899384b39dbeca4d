package app

import (
	"gorm.io/gorm"

	contactrepo "github.com/recallerhq/recaller-backend/internal/data/repos/contact"
	eventrepo "github.com/recallerhq/recaller-backend/internal/data/repos/event"
	financerepo "github.com/recallerhq/recaller-backend/internal/data/repos/finance"
	identityrepo "github.com/recallerhq/recaller-backend/internal/data/repos/identity"
	journalrepo "github.com/recallerhq/recaller-backend/internal/data/repos/journal"
	relrepo "github.com/recallerhq/recaller-backend/internal/data/repos/relationship"
	reminderrepo "github.com/recallerhq/recaller-backend/internal/data/repos/reminder"
	schedulerepo "github.com/recallerhq/recaller-backend/internal/data/repos/schedule"
	tenantrepo "github.com/recallerhq/recaller-backend/internal/data/repos/tenant"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type Repos struct {
	Tenant       tenantrepo.TenantRepo
	User         identityrepo.UserRepo
	UserToken    identityrepo.UserTokenRepo
	Contact      contactrepo.ContactRepo
	Organization contactrepo.OrganizationRepo
	Relationship relrepo.RelationshipRepo
	Event        eventrepo.EventRepo
	Journal      journalrepo.JournalRepo
	Budget       financerepo.BudgetRepo
	Transaction  financerepo.TransactionRepo
	Debt         financerepo.DebtRepo
	Reminder     reminderrepo.ReminderRepo
	Task         reminderrepo.TaskRepo
	Recurrence   schedulerepo.RecurrenceRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Tenant:       tenantrepo.NewTenantRepo(db, log),
		User:         identityrepo.NewUserRepo(db, log),
		UserToken:    identityrepo.NewUserTokenRepo(db, log),
		Contact:      contactrepo.NewContactRepo(db, log),
		Organization: contactrepo.NewOrganizationRepo(db, log),
		Relationship: relrepo.NewRelationshipRepo(db, log),
		Event:        eventrepo.NewEventRepo(db, log),
		Journal:      journalrepo.NewJournalRepo(db, log),
		Budget:       financerepo.NewBudgetRepo(db, log),
		Transaction:  financerepo.NewTransactionRepo(db, log),
		Debt:         financerepo.NewDebtRepo(db, log),
		Reminder:     reminderrepo.NewReminderRepo(db, log),
		Task:         reminderrepo.NewTaskRepo(db, log),
		Recurrence:   schedulerepo.NewRecurrenceRepo(db, log),
	}
}
