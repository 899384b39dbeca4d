package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	contactrepo "github.com/recallerhq/recaller-backend/internal/data/repos/contact"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	rel "github.com/recallerhq/recaller-backend/internal/relationship"
	relsvc "github.com/recallerhq/recaller-backend/internal/services/relationship"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type CreateInput struct {
	FirstName string         `json:"first_name" binding:"required"`
	LastName  string         `json:"last_name"`
	Gender    string         `json:"gender"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Birthday  *time.Time     `json:"birthday,omitempty"`
	Notes     string         `json:"notes"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
}

type UpdateInput struct {
	FirstName *string        `json:"first_name,omitempty"`
	LastName  *string        `json:"last_name,omitempty"`
	Gender    *string        `json:"gender,omitempty"`
	Email     *string        `json:"email,omitempty"`
	Phone     *string        `json:"phone,omitempty"`
	Birthday  *time.Time     `json:"birthday,omitempty"`
	Notes     *string        `json:"notes,omitempty"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
}

type ListPage struct {
	Contacts []*types.Contact `json:"contacts"`
	Total    int64            `json:"total"`
}

type ContactService interface {
	Create(ctx context.Context, input CreateInput) (*types.Contact, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Contact, error)
	List(ctx context.Context, search string, limit, offset int) (*ListPage, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*types.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactService struct {
	db            *gorm.DB
	log           *logger.Logger
	contacts      contactrepo.ContactRepo
	relationships relsvc.RelationshipService
}

func NewContactService(
	db *gorm.DB,
	baseLog *logger.Logger,
	contacts contactrepo.ContactRepo,
	relationships relsvc.RelationshipService,
) ContactService {
	return &contactService{
		db:            db,
		log:           baseLog.With("service", "ContactService"),
		contacts:      contacts,
		relationships: relationships,
	}
}

func (s *contactService) Create(ctx context.Context, input CreateInput) (*types.Contact, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}

	gender := rel.GenderUnknown
	if input.Gender != "" {
		parsed := rel.ParseGender(input.Gender)
		if parsed == rel.GenderUnknown {
			return nil, fmt.Errorf("unknown gender %q: %w", input.Gender, pkgerr.ErrValidation)
		}
		gender = parsed
	}

	contact := &types.Contact{
		ID:              uuid.New(),
		TenantID:        rd.TenantID,
		CreatedByUserID: rd.UserID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Gender:          gender,
		Email:           input.Email,
		Phone:           input.Phone,
		Birthday:        input.Birthday,
		Notes:           input.Notes,
		Metadata:        input.Metadata,
	}

	var created *types.Contact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.contacts.Create(ctx, tx, contact)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("contact created", "contact_id", created.ID)
	return created, nil
}

func (s *contactService) Get(ctx context.Context, id uuid.UUID) (*types.Contact, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.contacts.GetByID(ctx, nil, rd.TenantID, id)
}

func (s *contactService) List(ctx context.Context, search string, limit, offset int) (*ListPage, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	contacts, total, err := s.contacts.List(ctx, nil, rd.TenantID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListPage{Contacts: contacts, Total: total}, nil
}

func (s *contactService) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*types.Contact, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}

	var updated *types.Contact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contact, err := s.contacts.GetByID(ctx, tx, rd.TenantID, id)
		if err != nil {
			return err
		}

		genderChanged := false
		if input.Gender != nil {
			parsed := rel.ParseGender(*input.Gender)
			if parsed == rel.GenderUnknown {
				return fmt.Errorf("unknown gender %q: %w", *input.Gender, pkgerr.ErrValidation)
			}
			if parsed != contact.Gender {
				contact.Gender = parsed
				genderChanged = true
			}
		}
		if input.FirstName != nil {
			contact.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			contact.LastName = *input.LastName
		}
		if input.Email != nil {
			contact.Email = *input.Email
		}
		if input.Phone != nil {
			contact.Phone = *input.Phone
		}
		if input.Birthday != nil {
			contact.Birthday = input.Birthday
		}
		if input.Notes != nil {
			contact.Notes = *input.Notes
		}
		if input.Metadata != nil {
			contact.Metadata = input.Metadata
		}

		if err := s.contacts.Save(ctx, tx, contact); err != nil {
			return err
		}

		// A gender change shifts the directional labels on every resolved
		// relationship this contact appears in.
		if genderChanged {
			if err := s.relationships.ReresolveForContact(ctx, tx, rd.TenantID, contact.ID); err != nil {
				return err
			}
		}

		updated = contact
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *contactService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	deleted, err := s.contacts.Delete(ctx, nil, rd.TenantID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("contact %s: %w", id, pkgerr.ErrNotFound)
	}
	return nil
}
