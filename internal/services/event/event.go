package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	contactrepo "github.com/recallerhq/recaller-backend/internal/data/repos/contact"
	eventrepo "github.com/recallerhq/recaller-backend/internal/data/repos/event"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type CreateInput struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	StartsAt    time.Time      `json:"starts_at" binding:"required"`
	EndsAt      *time.Time     `json:"ends_at,omitempty"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	AttendeeIDs []uuid.UUID    `json:"attendee_ids,omitempty"`
}

type UpdateInput struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Location    *string        `json:"location,omitempty"`
	StartsAt    *time.Time     `json:"starts_at,omitempty"`
	EndsAt      *time.Time     `json:"ends_at,omitempty"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
}

type EventService interface {
	Create(ctx context.Context, input CreateInput) (*types.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Event, error)
	List(ctx context.Context, from, to *time.Time) ([]*types.Event, error)
	ListForContact(ctx context.Context, contactID uuid.UUID) ([]*types.Event, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*types.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddAttendee(ctx context.Context, eventID, contactID uuid.UUID) error
	RemoveAttendee(ctx context.Context, eventID, contactID uuid.UUID) error
	ListAttendees(ctx context.Context, eventID uuid.UUID) ([]*types.EventAttendee, error)
}

type eventService struct {
	db       *gorm.DB
	log      *logger.Logger
	events   eventrepo.EventRepo
	contacts contactrepo.ContactRepo
}

func NewEventService(
	db *gorm.DB,
	baseLog *logger.Logger,
	events eventrepo.EventRepo,
	contacts contactrepo.ContactRepo,
) EventService {
	return &eventService{
		db:       db,
		log:      baseLog.With("service", "EventService"),
		events:   events,
		contacts: contacts,
	}
}

func (s *eventService) Create(ctx context.Context, input CreateInput) (*types.Event, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	if input.EndsAt != nil && input.EndsAt.Before(input.StartsAt) {
		return nil, fmt.Errorf("event cannot end before it starts: %w", pkgerr.ErrValidation)
	}

	var created *types.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev := &types.Event{
			ID:              uuid.New(),
			TenantID:        rd.TenantID,
			CreatedByUserID: rd.UserID,
			Title:           input.Title,
			Description:     input.Description,
			Location:        input.Location,
			StartsAt:        input.StartsAt,
			EndsAt:          input.EndsAt,
			Metadata:        input.Metadata,
		}
		var err error
		created, err = s.events.Create(ctx, tx, ev)
		if err != nil {
			return err
		}
		for _, contactID := range input.AttendeeIDs {
			if _, err := s.contacts.GetByID(ctx, tx, rd.TenantID, contactID); err != nil {
				return err
			}
			if _, err := s.events.AddAttendee(ctx, tx, &types.EventAttendee{
				ID:        uuid.New(),
				TenantID:  rd.TenantID,
				EventID:   ev.ID,
				ContactID: contactID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *eventService) Get(ctx context.Context, id uuid.UUID) (*types.Event, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.events.GetByID(ctx, nil, rd.TenantID, id)
}

func (s *eventService) List(ctx context.Context, from, to *time.Time) ([]*types.Event, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.events.List(ctx, nil, rd.TenantID, from, to)
}

func (s *eventService) ListForContact(ctx context.Context, contactID uuid.UUID) ([]*types.Event, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.events.ListByAttendee(ctx, nil, rd.TenantID, contactID)
}

func (s *eventService) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*types.Event, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	var updated *types.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := s.events.GetByID(ctx, tx, rd.TenantID, id)
		if err != nil {
			return err
		}
		if input.Title != nil {
			ev.Title = *input.Title
		}
		if input.Description != nil {
			ev.Description = *input.Description
		}
		if input.Location != nil {
			ev.Location = *input.Location
		}
		if input.StartsAt != nil {
			ev.StartsAt = *input.StartsAt
		}
		if input.EndsAt != nil {
			ev.EndsAt = input.EndsAt
		}
		if input.Metadata != nil {
			ev.Metadata = input.Metadata
		}
		if ev.EndsAt != nil && ev.EndsAt.Before(ev.StartsAt) {
			return fmt.Errorf("event cannot end before it starts: %w", pkgerr.ErrValidation)
		}
		if err := s.events.Save(ctx, tx, ev); err != nil {
			return err
		}
		updated = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	deleted, err := s.events.Delete(ctx, nil, rd.TenantID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("event %s: %w", id, pkgerr.ErrNotFound)
	}
	return nil
}

func (s *eventService) AddAttendee(ctx context.Context, eventID, contactID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.events.GetByID(ctx, tx, rd.TenantID, eventID); err != nil {
			return err
		}
		if _, err := s.contacts.GetByID(ctx, tx, rd.TenantID, contactID); err != nil {
			return err
		}
		_, err := s.events.AddAttendee(ctx, tx, &types.EventAttendee{
			ID:        uuid.New(),
			TenantID:  rd.TenantID,
			EventID:   eventID,
			ContactID: contactID,
		})
		return err
	})
}

func (s *eventService) RemoveAttendee(ctx context.Context, eventID, contactID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	removed, err := s.events.RemoveAttendee(ctx, nil, rd.TenantID, eventID, contactID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("attendee: %w", pkgerr.ErrNotFound)
	}
	return nil
}

func (s *eventService) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]*types.EventAttendee, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.events.ListAttendees(ctx, nil, rd.TenantID, eventID)
}
