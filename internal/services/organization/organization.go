package organization

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	contactrepo "github.com/recallerhq/recaller-backend/internal/data/repos/contact"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type CreateInput struct {
	Name     string `json:"name" binding:"required"`
	Industry string `json:"industry"`
	Website  string `json:"website"`
	Notes    string `json:"notes"`
}

type UpdateInput struct {
	Name     *string `json:"name,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Website  *string `json:"website,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type LinkInput struct {
	ContactID uuid.UUID  `json:"contact_id" binding:"required"`
	Role      string     `json:"role"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type OrganizationService interface {
	Create(ctx context.Context, input CreateInput) (*types.Organization, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Organization, error)
	List(ctx context.Context) ([]*types.Organization, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*types.Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error

	LinkContact(ctx context.Context, orgID uuid.UUID, input LinkInput) (*types.ContactOrganization, error)
	UnlinkContact(ctx context.Context, orgID, contactID uuid.UUID) error
	ListMembers(ctx context.Context, orgID uuid.UUID) ([]*types.ContactOrganization, error)
	ListForContact(ctx context.Context, contactID uuid.UUID) ([]*types.ContactOrganization, error)
}

type organizationService struct {
	db       *gorm.DB
	log      *logger.Logger
	orgs     contactrepo.OrganizationRepo
	contacts contactrepo.ContactRepo
}

func NewOrganizationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	orgs contactrepo.OrganizationRepo,
	contacts contactrepo.ContactRepo,
) OrganizationService {
	return &organizationService{
		db:       db,
		log:      baseLog.With("service", "OrganizationService"),
		orgs:     orgs,
		contacts: contacts,
	}
}

func (s *organizationService) Create(ctx context.Context, input CreateInput) (*types.Organization, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	org := &types.Organization{
		ID:              uuid.New(),
		TenantID:        rd.TenantID,
		CreatedByUserID: rd.UserID,
		Name:            input.Name,
		Industry:        input.Industry,
		Website:         input.Website,
		Notes:           input.Notes,
	}
	var created *types.Organization
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.orgs.Create(ctx, tx, org)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *organizationService) Get(ctx context.Context, id uuid.UUID) (*types.Organization, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.orgs.GetByID(ctx, nil, rd.TenantID, id)
}

func (s *organizationService) List(ctx context.Context) ([]*types.Organization, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.orgs.List(ctx, nil, rd.TenantID)
}

func (s *organizationService) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*types.Organization, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	var updated *types.Organization
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := s.orgs.GetByID(ctx, tx, rd.TenantID, id)
		if err != nil {
			return err
		}
		if input.Name != nil {
			org.Name = *input.Name
		}
		if input.Industry != nil {
			org.Industry = *input.Industry
		}
		if input.Website != nil {
			org.Website = *input.Website
		}
		if input.Notes != nil {
			org.Notes = *input.Notes
		}
		if err := s.orgs.Save(ctx, tx, org); err != nil {
			return err
		}
		updated = org
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *organizationService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	deleted, err := s.orgs.Delete(ctx, nil, rd.TenantID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("organization %s: %w", id, pkgerr.ErrNotFound)
	}
	return nil
}

func (s *organizationService) LinkContact(ctx context.Context, orgID uuid.UUID, input LinkInput) (*types.ContactOrganization, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	var link *types.ContactOrganization
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.orgs.GetByID(ctx, tx, rd.TenantID, orgID); err != nil {
			return err
		}
		if _, err := s.contacts.GetByID(ctx, tx, rd.TenantID, input.ContactID); err != nil {
			return err
		}
		var err error
		link, err = s.orgs.Link(ctx, tx, &types.ContactOrganization{
			ID:             uuid.New(),
			TenantID:       rd.TenantID,
			ContactID:      input.ContactID,
			OrganizationID: orgID,
			Role:           input.Role,
			StartDate:      input.StartDate,
			EndDate:        input.EndDate,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (s *organizationService) UnlinkContact(ctx context.Context, orgID, contactID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	removed, err := s.orgs.Unlink(ctx, nil, rd.TenantID, contactID, orgID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("membership: %w", pkgerr.ErrNotFound)
	}
	return nil
}

func (s *organizationService) ListMembers(ctx context.Context, orgID uuid.UUID) ([]*types.ContactOrganization, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.orgs.ListMembers(ctx, nil, rd.TenantID, orgID)
}

func (s *organizationService) ListForContact(ctx context.Context, contactID uuid.UUID) ([]*types.ContactOrganization, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	return s.orgs.ListByContact(ctx, nil, rd.TenantID, contactID)
}
