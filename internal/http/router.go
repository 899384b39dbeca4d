package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/recallerhq/recaller-backend/internal/http/handlers"
	httpMW "github.com/recallerhq/recaller-backend/internal/http/middleware"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	authsvc "github.com/recallerhq/recaller-backend/internal/services/auth"
	tenantsvc "github.com/recallerhq/recaller-backend/internal/services/tenant"
)

type RouterConfig struct {
	ServiceName  string
	AllowOrigins []string
	Log          *logger.Logger

	AuthService   authsvc.AuthService
	TenantService tenantsvc.TenantService

	AuthHandler         *httpH.AuthHandler
	ContactHandler      *httpH.ContactHandler
	RelationshipHandler *httpH.RelationshipHandler
	OrganizationHandler *httpH.OrganizationHandler
	EventHandler        *httpH.EventHandler
	JournalHandler      *httpH.JournalHandler
	FinanceHandler      *httpH.FinanceHandler
	DebtHandler         *httpH.DebtHandler
	ReminderHandler     *httpH.ReminderHandler
	TaskHandler         *httpH.TaskHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	if cfg.Log != nil {
		r.Use(httpMW.RequestLog(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.Check)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthService != nil && cfg.Log != nil {
			protected.Use(httpMW.Auth(cfg.AuthService, cfg.Log))
		}
		if cfg.TenantService != nil && cfg.Log != nil {
			protected.Use(httpMW.Tenant(cfg.TenantService, cfg.Log))
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
			protected.GET("/me", cfg.AuthHandler.Me)
		}

		// Contacts
		if cfg.ContactHandler != nil {
			protected.POST("/contacts", cfg.ContactHandler.Create)
			protected.GET("/contacts", cfg.ContactHandler.List)
			protected.GET("/contacts/:id", cfg.ContactHandler.Get)
			protected.PUT("/contacts/:id", cfg.ContactHandler.Update)
			protected.DELETE("/contacts/:id", cfg.ContactHandler.Delete)
		}

		// Relationships
		if cfg.RelationshipHandler != nil {
			protected.POST("/relationships", cfg.RelationshipHandler.Create)
			protected.GET("/relationships/options", cfg.RelationshipHandler.Options)
			protected.GET("/relationships/:contactA/:contactB", cfg.RelationshipHandler.GetBetween)
			protected.PUT("/relationships/:contactA/:contactB", cfg.RelationshipHandler.Update)
			protected.PUT("/relationships/:contactA/:contactB/side", cfg.RelationshipHandler.UpdateSingleSide)
			protected.DELETE("/relationships/:contactA/:contactB", cfg.RelationshipHandler.Delete)

			protected.GET("/contacts/:id/relationships", cfg.RelationshipHandler.ListForContact)
			protected.GET("/contacts/:id/relationships/summary", cfg.RelationshipHandler.Summary)
		}

		// Organizations
		if cfg.OrganizationHandler != nil {
			protected.POST("/organizations", cfg.OrganizationHandler.Create)
			protected.GET("/organizations", cfg.OrganizationHandler.List)
			protected.GET("/organizations/:id", cfg.OrganizationHandler.Get)
			protected.PUT("/organizations/:id", cfg.OrganizationHandler.Update)
			protected.DELETE("/organizations/:id", cfg.OrganizationHandler.Delete)
			protected.POST("/organizations/:id/contacts", cfg.OrganizationHandler.LinkContact)
			protected.GET("/organizations/:id/contacts", cfg.OrganizationHandler.ListMembers)
			protected.DELETE("/organizations/:id/contacts/:contactId", cfg.OrganizationHandler.UnlinkContact)

			protected.GET("/contacts/:id/organizations", cfg.OrganizationHandler.ListForContact)
		}

		// Events
		if cfg.EventHandler != nil {
			protected.POST("/events", cfg.EventHandler.Create)
			protected.GET("/events", cfg.EventHandler.List)
			protected.GET("/events/:id", cfg.EventHandler.Get)
			protected.PUT("/events/:id", cfg.EventHandler.Update)
			protected.DELETE("/events/:id", cfg.EventHandler.Delete)
			protected.POST("/events/:id/attendees", cfg.EventHandler.AddAttendee)
			protected.GET("/events/:id/attendees", cfg.EventHandler.ListAttendees)
			protected.DELETE("/events/:id/attendees/:contactId", cfg.EventHandler.RemoveAttendee)

			protected.GET("/contacts/:id/events", cfg.EventHandler.ListForContact)
		}

		// Journal
		if cfg.JournalHandler != nil {
			protected.POST("/journal", cfg.JournalHandler.Create)
			protected.GET("/journal", cfg.JournalHandler.List)
			protected.GET("/journal/:id", cfg.JournalHandler.Get)
			protected.PUT("/journal/:id", cfg.JournalHandler.Update)
			protected.DELETE("/journal/:id", cfg.JournalHandler.Delete)
		}

		// Budgets and transactions
		if cfg.FinanceHandler != nil {
			protected.POST("/budgets", cfg.FinanceHandler.CreateBudget)
			protected.GET("/budgets", cfg.FinanceHandler.ListBudgets)
			protected.GET("/budgets/:id", cfg.FinanceHandler.GetBudget)
			protected.PUT("/budgets/:id", cfg.FinanceHandler.UpdateBudget)
			protected.DELETE("/budgets/:id", cfg.FinanceHandler.DeleteBudget)

			protected.POST("/transactions", cfg.FinanceHandler.CreateTransaction)
			protected.GET("/transactions", cfg.FinanceHandler.ListTransactions)
			protected.GET("/transactions/:id", cfg.FinanceHandler.GetTransaction)
			protected.DELETE("/transactions/:id", cfg.FinanceHandler.DeleteTransaction)

			protected.POST("/recurring-transactions", cfg.FinanceHandler.CreateRecurringTransaction)
			protected.GET("/recurring-transactions", cfg.FinanceHandler.ListRecurringTransactions)
			protected.DELETE("/recurring-transactions/:id", cfg.FinanceHandler.DeleteRecurringTransaction)
		}

		// Debts
		if cfg.DebtHandler != nil {
			protected.POST("/debts", cfg.DebtHandler.Create)
			protected.GET("/debts", cfg.DebtHandler.List)
			protected.GET("/debts/:id", cfg.DebtHandler.Get)
			protected.PUT("/debts/:id", cfg.DebtHandler.Update)
			protected.POST("/debts/:id/payments", cfg.DebtHandler.RecordPayment)
			protected.DELETE("/debts/:id", cfg.DebtHandler.Delete)

			protected.GET("/contacts/:id/debts", cfg.DebtHandler.ListForContact)
		}

		// Reminders
		if cfg.ReminderHandler != nil {
			protected.POST("/reminders", cfg.ReminderHandler.Create)
			protected.GET("/reminders", cfg.ReminderHandler.List)
			protected.GET("/reminders/:id", cfg.ReminderHandler.Get)
			protected.PUT("/reminders/:id", cfg.ReminderHandler.Update)
			protected.POST("/reminders/:id/complete", cfg.ReminderHandler.Complete)
			protected.DELETE("/reminders/:id", cfg.ReminderHandler.Delete)
		}

		// Tasks
		if cfg.TaskHandler != nil {
			protected.POST("/tasks", cfg.TaskHandler.Create)
			protected.GET("/tasks", cfg.TaskHandler.List)
			protected.GET("/tasks/:id", cfg.TaskHandler.Get)
			protected.PUT("/tasks/:id", cfg.TaskHandler.Update)
			protected.DELETE("/tasks/:id", cfg.TaskHandler.Delete)
		}
	}

	return r
}
