package app

import (
	"gorm.io/gorm"

	"github.com/recallerhq/recaller-backend/internal/config"
	internalhttp "github.com/recallerhq/recaller-backend/internal/http"
	httpH "github.com/recallerhq/recaller-backend/internal/http/handlers"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	Contact      *httpH.ContactHandler
	Relationship *httpH.RelationshipHandler
	Organization *httpH.OrganizationHandler
	Event        *httpH.EventHandler
	Journal      *httpH.JournalHandler
	Finance      *httpH.FinanceHandler
	Debt         *httpH.DebtHandler
	Reminder     *httpH.ReminderHandler
	Task         *httpH.TaskHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		Auth:         httpH.NewAuthHandler(services.Auth, log),
		Contact:      httpH.NewContactHandler(services.Contact, log),
		Relationship: httpH.NewRelationshipHandler(services.Relationship, log),
		Organization: httpH.NewOrganizationHandler(services.Organization, log),
		Event:        httpH.NewEventHandler(services.Event, log),
		Journal:      httpH.NewJournalHandler(services.Journal, log),
		Finance:      httpH.NewFinanceHandler(services.Finance, log),
		Debt:         httpH.NewDebtHandler(services.Debt, log),
		Reminder:     httpH.NewReminderHandler(services.Reminder, log),
		Task:         httpH.NewTaskHandler(services.Task, log),
	}
}

func wireServer(cfg config.Config, log *logger.Logger, services Services, handlers Handlers) *internalhttp.Server {
	return internalhttp.NewServer(internalhttp.RouterConfig{
		ServiceName:  "recaller-api",
		AllowOrigins: cfg.Server.AllowOrigins,
		Log:          log,

		AuthService:   services.Auth,
		TenantService: services.Tenant,

		AuthHandler:         handlers.Auth,
		ContactHandler:      handlers.Contact,
		RelationshipHandler: handlers.Relationship,
		OrganizationHandler: handlers.Organization,
		EventHandler:        handlers.Event,
		JournalHandler:      handlers.Journal,
		FinanceHandler:      handlers.Finance,
		DebtHandler:         handlers.Debt,
		ReminderHandler:     handlers.Reminder,
		TaskHandler:         handlers.Task,
		HealthHandler:       handlers.Health,
	})
}
