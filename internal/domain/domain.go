// Package domain aggregates the per-area model packages behind one import,
// so repos and services can refer to types.Contact, types.Budget, etc.
package domain

import (
	"github.com/recallerhq/recaller-backend/internal/domain/contact"
	"github.com/recallerhq/recaller-backend/internal/domain/event"
	"github.com/recallerhq/recaller-backend/internal/domain/finance"
	"github.com/recallerhq/recaller-backend/internal/domain/identity"
	"github.com/recallerhq/recaller-backend/internal/domain/journal"
	"github.com/recallerhq/recaller-backend/internal/domain/relations"
	"github.com/recallerhq/recaller-backend/internal/domain/reminder"
	"github.com/recallerhq/recaller-backend/internal/domain/schedule"
	"github.com/recallerhq/recaller-backend/internal/domain/tenant"
)

type (
	Tenant = tenant.Tenant

	User      = identity.User
	UserToken = identity.UserToken

	Contact             = contact.Contact
	Organization        = contact.Organization
	ContactOrganization = contact.ContactOrganization

	ContactRelationship = relations.ContactRelationship
	RelationshipStatus  = relations.RelationshipStatus
	RelationshipView    = relations.View

	RecurrenceRule = schedule.RecurrenceRule

	Event         = event.Event
	EventAttendee = event.EventAttendee

	JournalEntry = journal.JournalEntry

	Budget               = finance.Budget
	Transaction          = finance.Transaction
	RecurringTransaction = finance.RecurringTransaction
	PersonalDebt         = finance.PersonalDebt
	DebtDirection        = finance.DebtDirection
	DebtStatus           = finance.DebtStatus

	Reminder   = reminder.Reminder
	Task       = reminder.Task
	TaskStatus = reminder.TaskStatus
)

const (
	RelationshipActive  = relations.StatusActive
	RelationshipDistant = relations.StatusDistant
	RelationshipEnded   = relations.StatusEnded

	RecurrenceOwnerTask        = schedule.OwnerTask
	RecurrenceOwnerTransaction = schedule.OwnerTransaction
	RecurrenceOwnerReminder    = schedule.OwnerReminder

	DebtOwedToMe    = finance.DebtOwedToMe
	DebtOwedByMe    = finance.DebtOwedByMe
	DebtOutstanding = finance.DebtOutstanding
	DebtPartial     = finance.DebtPartial
	DebtSettled     = finance.DebtSettled

	TaskPending    = reminder.TaskPending
	TaskInProgress = reminder.TaskInProgress
	TaskDone       = reminder.TaskDone
)

var (
	NormalizePair = relations.NormalizePair
	ViewFor       = relations.ViewFor
)
