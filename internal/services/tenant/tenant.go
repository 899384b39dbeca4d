package tenant

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	tenantrepo "github.com/recallerhq/recaller-backend/internal/data/repos/tenant"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type TenantService interface {
	// Resolve picks the tenant for an incoming request. The identifier may be
	// a slug or a UUID; an empty identifier falls back to the default tenant.
	Resolve(ctx context.Context, identifier string) (*types.Tenant, error)
	Create(ctx context.Context, slug, name string, isDefault bool) (*types.Tenant, error)
}

type tenantService struct {
	db      *gorm.DB
	log     *logger.Logger
	tenants tenantrepo.TenantRepo
}

func NewTenantService(db *gorm.DB, baseLog *logger.Logger, tenants tenantrepo.TenantRepo) TenantService {
	return &tenantService{db: db, log: baseLog.With("service", "TenantService"), tenants: tenants}
}

func (s *tenantService) Resolve(ctx context.Context, identifier string) (*types.Tenant, error) {
	if identifier == "" {
		return s.tenants.GetDefault(ctx, nil)
	}
	if id, err := uuid.Parse(identifier); err == nil {
		return s.tenants.GetByID(ctx, nil, id)
	}
	return s.tenants.GetBySlug(ctx, nil, identifier)
}

func (s *tenantService) Create(ctx context.Context, slug, name string, isDefault bool) (*types.Tenant, error) {
	tenant := &types.Tenant{
		ID:        uuid.New(),
		Slug:      slug,
		Name:      name,
		IsDefault: isDefault,
		Active:    true,
	}
	var created *types.Tenant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.tenants.Create(ctx, tx, tenant)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("tenant created", "tenant_id", created.ID, "slug", created.Slug)
	return created, nil
}
