package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/recallerhq/recaller-backend/internal/config"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/relationship"
	authsvc "github.com/recallerhq/recaller-backend/internal/services/auth"
	contactsvc "github.com/recallerhq/recaller-backend/internal/services/contact"
	eventsvc "github.com/recallerhq/recaller-backend/internal/services/event"
	financesvc "github.com/recallerhq/recaller-backend/internal/services/finance"
	journalsvc "github.com/recallerhq/recaller-backend/internal/services/journal"
	orgsvc "github.com/recallerhq/recaller-backend/internal/services/organization"
	recurrencesvc "github.com/recallerhq/recaller-backend/internal/services/recurrence"
	relsvc "github.com/recallerhq/recaller-backend/internal/services/relationship"
	remindersvc "github.com/recallerhq/recaller-backend/internal/services/reminder"
	tenantsvc "github.com/recallerhq/recaller-backend/internal/services/tenant"
)

type Services struct {
	Auth         authsvc.AuthService
	Tenant       tenantsvc.TenantService
	Contact      contactsvc.ContactService
	Relationship relsvc.RelationshipService
	Organization orgsvc.OrganizationService
	Event        eventsvc.EventService
	Journal      journalsvc.JournalService
	Finance      financesvc.FinanceService
	Debt         financesvc.DebtService
	Reminder     remindersvc.ReminderService
	Task         remindersvc.TaskService
	Generator    *recurrencesvc.Generator
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg config.Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	table := relationship.DefaultTable()
	if path := cfg.Relationships.MappingFile; path != "" {
		loaded, err := relationship.LoadTable(path)
		if err != nil {
			return Services{}, fmt.Errorf("loading relationship mapping file: %w", err)
		}
		table = loaded
	}
	resolver := relationship.NewResolver(table)

	relationshipService := relsvc.NewRelationshipService(db, log, resolver, repos.Relationship, repos.Contact)

	return Services{
		Auth:         authsvc.NewAuthService(db, log, cfg.Auth, repos.User, repos.UserToken, repos.Tenant),
		Tenant:       tenantsvc.NewTenantService(db, log, repos.Tenant),
		Contact:      contactsvc.NewContactService(db, log, repos.Contact, relationshipService),
		Relationship: relationshipService,
		Organization: orgsvc.NewOrganizationService(db, log, repos.Organization, repos.Contact),
		Event:        eventsvc.NewEventService(db, log, repos.Event, repos.Contact),
		Journal:      journalsvc.NewJournalService(db, log, repos.Journal),
		Finance:      financesvc.NewFinanceService(db, log, repos.Budget, repos.Transaction, repos.Recurrence),
		Debt:         financesvc.NewDebtService(db, log, repos.Debt, repos.Contact),
		Reminder:     remindersvc.NewReminderService(db, log, repos.Reminder, repos.Contact, repos.Recurrence),
		Task:         remindersvc.NewTaskService(db, log, repos.Task, repos.Recurrence),
		Generator:    recurrencesvc.NewGenerator(db, log, repos.Recurrence),
	}, nil
}
