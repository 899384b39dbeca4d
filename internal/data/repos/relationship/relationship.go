package relationship

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

// RelationshipRepo persists the canonical one-row-per-pair relationships.
// Callers pass pairs already normalized via types.NormalizePair.
type RelationshipRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rel *types.ContactRelationship) (*types.ContactRelationship, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.ContactRelationship, error)
	GetByPair(ctx context.Context, tx *gorm.DB, tenantID, contactAID, contactBID uuid.UUID) (*types.ContactRelationship, error)
	ListByContact(ctx context.Context, tx *gorm.DB, tenantID, contactID uuid.UUID, includeInactive bool) ([]*types.ContactRelationship, error)
	Save(ctx context.Context, tx *gorm.DB, rel *types.ContactRelationship) error
	DeleteByPair(ctx context.Context, tx *gorm.DB, tenantID, contactAID, contactBID uuid.UUID) (bool, error)
}

type relationshipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRelationshipRepo(db *gorm.DB, baseLog *logger.Logger) RelationshipRepo {
	return &relationshipRepo{db: db, log: baseLog.With("repo", "RelationshipRepo")}
}

// Create relies on the (tenant_id, contact_a_id, contact_b_id) unique index
// for duplicate detection: under concurrent creates for the same pair the
// database admits exactly one row and the loser surfaces ErrConflict.
func (rr *relationshipRepo) Create(ctx context.Context, tx *gorm.DB, rel *types.ContactRelationship) (*types.ContactRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if err := transaction.WithContext(ctx).Create(rel).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("relationship already exists for pair: %w", pkgerr.ErrConflict)
		}
		return nil, err
	}
	return rel, nil
}

func (rr *relationshipRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*types.ContactRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var rel types.ContactRelationship
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("relationship %s: %w", id, pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (rr *relationshipRepo) GetByPair(ctx context.Context, tx *gorm.DB, tenantID, contactAID, contactBID uuid.UUID) (*types.ContactRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var rel types.ContactRelationship
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND contact_a_id = ? AND contact_b_id = ?", tenantID, contactAID, contactBID).
		First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("relationship for pair: %w", pkgerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (rr *relationshipRepo) ListByContact(ctx context.Context, tx *gorm.DB, tenantID, contactID uuid.UUID, includeInactive bool) ([]*types.ContactRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	q := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("contact_a_id = ? OR contact_b_id = ?", contactID, contactID)
	if !includeInactive {
		q = q.Where("relationship_status = ?", types.RelationshipActive)
	}
	var results []*types.ContactRelationship
	if err := q.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *relationshipRepo) Save(ctx context.Context, tx *gorm.DB, rel *types.ContactRelationship) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Save(rel).Error
}

func (rr *relationshipRepo) DeleteByPair(ctx context.Context, tx *gorm.DB, tenantID, contactAID, contactBID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	res := transaction.WithContext(ctx).
		Where("tenant_id = ? AND contact_a_id = ? AND contact_b_id = ?", tenantID, contactAID, contactBID).
		Delete(&types.ContactRelationship{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
