package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type ContactRepo interface {
	Create(ctx context.Context, tx *gorm.DB, c *types.Contact) (*types.Contact, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.Contact, error)
	List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, search string, limit, offset int) ([]*types.Contact, int64, error)
	Save(ctx context.Context, tx *gorm.DB, c *types.Contact) error
	Delete(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (bool, error)
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return &contactRepo{db: db, log: baseLog.With("repo", "ContactRepo")}
}

func (cr *contactRepo) Create(ctx context.Context, tx *gorm.DB, c *types.Contact) (*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (cr *contactRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var c types.Contact
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("contact %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (cr *contactRepo) List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, search string, limit, offset int) ([]*types.Contact, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.Contact{}).
		Where("tenant_id = ?", tenantID)
	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var contacts []*types.Contact
	if err := q.Order("first_name ASC, last_name ASC").
		Limit(limit).Offset(offset).
		Find(&contacts).Error; err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (cr *contactRepo) Save(ctx context.Context, tx *gorm.DB, c *types.Contact) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Save(c).Error
}

func (cr *contactRepo) Delete(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&types.Contact{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
