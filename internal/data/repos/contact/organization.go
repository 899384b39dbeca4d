package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recallerhq/recaller-backend/internal/data/db"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type OrganizationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, org *types.Organization) (*types.Organization, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.Organization, error)
	List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.Organization, error)
	Save(ctx context.Context, tx *gorm.DB, org *types.Organization) error
	Delete(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (bool, error)

	Link(ctx context.Context, tx *gorm.DB, link *types.ContactOrganization) (*types.ContactOrganization, error)
	Unlink(ctx context.Context, tx *gorm.DB, tenantID, contactID, orgID uuid.UUID) (bool, error)
	ListByContact(ctx context.Context, tx *gorm.DB, tenantID, contactID uuid.UUID) ([]*types.ContactOrganization, error)
	ListMembers(ctx context.Context, tx *gorm.DB, tenantID, orgID uuid.UUID) ([]*types.ContactOrganization, error)
}

type organizationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrganizationRepo(db *gorm.DB, baseLog *logger.Logger) OrganizationRepo {
	return &organizationRepo{db: db, log: baseLog.With("repo", "OrganizationRepo")}
}

func (or *organizationRepo) Create(ctx context.Context, tx *gorm.DB, org *types.Organization) (*types.Organization, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if err := transaction.WithContext(ctx).Create(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

func (or *organizationRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.Organization, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var org types.Organization
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("organization %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (or *organizationRepo) List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.Organization, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var orgs []*types.Organization
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (or *organizationRepo) Save(ctx context.Context, tx *gorm.DB, org *types.Organization) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	return transaction.WithContext(ctx).Save(org).Error
}

func (or *organizationRepo) Delete(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&types.Organization{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (or *organizationRepo) Link(ctx context.Context, tx *gorm.DB, link *types.ContactOrganization) (*types.ContactOrganization, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if err := transaction.WithContext(ctx).Create(link).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("contact already linked to organization: %w", pkgerr.ErrConflict)
		}
		return nil, err
	}
	return link, nil
}

func (or *organizationRepo) Unlink(ctx context.Context, tx *gorm.DB, tenantID, contactID, orgID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND contact_id = ? AND organization_id = ?", tenantID, contactID, orgID).
		Delete(&types.ContactOrganization{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (or *organizationRepo) ListByContact(ctx context.Context, tx *gorm.DB, tenantID, contactID uuid.UUID) ([]*types.ContactOrganization, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var links []*types.ContactOrganization
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND contact_id = ?", tenantID, contactID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (or *organizationRepo) ListMembers(ctx context.Context, tx *gorm.DB, tenantID, orgID uuid.UUID) ([]*types.ContactOrganization, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var links []*types.ContactOrganization
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND organization_id = ?", tenantID, orgID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
