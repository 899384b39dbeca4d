package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type TenantRepo interface {
	Create(ctx context.Context, tx *gorm.DB, t *types.Tenant) (*types.Tenant, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tenant, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Tenant, error)
	GetDefault(ctx context.Context, tx *gorm.DB) (*types.Tenant, error)
}

type tenantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTenantRepo(db *gorm.DB, baseLog *logger.Logger) TenantRepo {
	return &tenantRepo{db: db, log: baseLog.With("repo", "TenantRepo")}
}

func (tr *tenantRepo) Create(ctx context.Context, tx *gorm.DB, t *types.Tenant) (*types.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if err := transaction.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (tr *tenantRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var t types.Tenant
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("tenant %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (tr *tenantRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var t types.Tenant
	err := transaction.WithContext(ctx).Where("slug = ? AND active = ?", slug, true).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("tenant %q: %w", slug, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (tr *tenantRepo) GetDefault(ctx context.Context, tx *gorm.DB) (*types.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var t types.Tenant
	err := transaction.WithContext(ctx).Where("is_default = ? AND active = ?", true, true).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("default tenant: %w", pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
