package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recallerhq/recaller-backend/internal/data/db"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ev *types.Event) (*types.Event, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.Event, error)
	List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, from, to *time.Time) ([]*types.Event, error)
	Save(ctx context.Context, tx *gorm.DB, ev *types.Event) error
	Delete(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (bool, error)

	AddAttendee(ctx context.Context, tx *gorm.DB, att *types.EventAttendee) (*types.EventAttendee, error)
	RemoveAttendee(ctx context.Context, tx *gorm.DB, tenantID, eventID, contactID uuid.UUID) (bool, error)
	ListAttendees(ctx context.Context, tx *gorm.DB, tenantID, eventID uuid.UUID) ([]*types.EventAttendee, error)
	ListByAttendee(ctx context.Context, tx *gorm.DB, tenantID, contactID uuid.UUID) ([]*types.Event, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(database *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: database, log: baseLog.With("repo", "EventRepo")}
}

func (er *eventRepo) Create(ctx context.Context, tx *gorm.DB, ev *types.Event) (*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if err := transaction.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

func (er *eventRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var ev types.Event
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("event %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (er *eventRepo) List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, from, to *time.Time) ([]*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	q := transaction.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if from != nil {
		q = q.Where("starts_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("starts_at < ?", *to)
	}
	var events []*types.Event
	if err := q.Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (er *eventRepo) Save(ctx context.Context, tx *gorm.DB, ev *types.Event) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).Save(ev).Error
}

func (er *eventRepo) Delete(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&types.Event{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (er *eventRepo) AddAttendee(ctx context.Context, tx *gorm.DB, att *types.EventAttendee) (*types.EventAttendee, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if err := transaction.WithContext(ctx).Create(att).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("contact already attends event: %w", pkgerr.ErrConflict)
		}
		return nil, err
	}
	return att, nil
}

func (er *eventRepo) RemoveAttendee(ctx context.Context, tx *gorm.DB, tenantID, eventID, contactID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND event_id = ? AND contact_id = ?", tenantID, eventID, contactID).
		Delete(&types.EventAttendee{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (er *eventRepo) ListAttendees(ctx context.Context, tx *gorm.DB, tenantID, eventID uuid.UUID) ([]*types.EventAttendee, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var atts []*types.EventAttendee
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND event_id = ?", tenantID, eventID).
		Find(&atts).Error; err != nil {
		return nil, err
	}
	return atts, nil
}

func (er *eventRepo) ListByAttendee(ctx context.Context, tx *gorm.DB, tenantID, contactID uuid.UUID) ([]*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var events []*types.Event
	if err := transaction.WithContext(ctx).
		Joins("JOIN event_attendee ON event_attendee.event_id = event.id").
		Where("event.tenant_id = ? AND event_attendee.contact_id = ?", tenantID, contactID).
		Order("event.starts_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
