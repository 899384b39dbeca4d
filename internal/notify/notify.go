// Package notify publishes reminder-due notifications onto a message bus so
// delivery channels (mobile push, email digests) can consume them out of
// process. When Redis is disabled the noop bus swallows publishes.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ReminderDue struct {
	ReminderID uuid.UUID  `json:"reminder_id"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	UserID     uuid.UUID  `json:"user_id"`
	ContactID  *uuid.UUID `json:"contact_id,omitempty"`
	Title      string     `json:"title"`
	DueAt      time.Time  `json:"due_at"`
}

type Bus interface {
	PublishReminderDue(ctx context.Context, msg ReminderDue) error

	// StartForwarder subscribes to the bus and invokes onMsg for every
	// reminder-due message until ctx is cancelled.
	StartForwarder(ctx context.Context, onMsg func(msg ReminderDue)) error

	Close() error
}

type noopBus struct{}

// NewNoopBus returns a bus that drops every message. Used when Redis is
// disabled in config.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) PublishReminderDue(context.Context, ReminderDue) error       { return nil }
func (noopBus) StartForwarder(context.Context, func(msg ReminderDue)) error { return nil }
func (noopBus) Close() error                                                { return nil }
