package relationship

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	contactrepo "github.com/recallerhq/recaller-backend/internal/data/repos/contact"
	relrepo "github.com/recallerhq/recaller-backend/internal/data/repos/relationship"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	rel "github.com/recallerhq/recaller-backend/internal/relationship"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type CreateInput struct {
	ContactAID uuid.UUID `json:"contact_a_id" binding:"required"`
	ContactBID uuid.UUID `json:"contact_b_id" binding:"required"`

	// Type is a base relationship type (resolved against both genders) or an
	// already-specific label.
	Type string `json:"type" binding:"required"`
	// Override stores Type verbatim on both sides, skipping gender resolution.
	Override bool `json:"override"`

	Strength  *int       `json:"strength,omitempty"`
	Status    string     `json:"status,omitempty"`
	IsMutual  *bool      `json:"is_mutual,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Context   string     `json:"context,omitempty"`
}

type UpdateInput struct {
	// Type re-resolves both directional labels when set.
	Type     *string `json:"type,omitempty"`
	Override bool    `json:"override"`

	Strength  *int       `json:"strength,omitempty"`
	Status    *string    `json:"status,omitempty"`
	IsMutual  *bool      `json:"is_mutual,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Context   *string    `json:"context,omitempty"`
}

type CategorySummary struct {
	Category rel.Category `json:"category"`
	Count    int          `json:"count"`
}

type RelationshipService interface {
	Create(ctx context.Context, input CreateInput) (*types.ContactRelationship, error)
	GetBetween(ctx context.Context, contactAID, contactBID uuid.UUID) (*types.ContactRelationship, error)
	ListForContact(ctx context.Context, contactID uuid.UUID, includeInactive bool) ([]types.RelationshipView, error)
	Update(ctx context.Context, contactAID, contactBID uuid.UUID, input UpdateInput) (*types.ContactRelationship, error)
	// UpdateSingleSide rewrites the label one contact holds toward the other
	// without touching the reverse direction.
	UpdateSingleSide(ctx context.Context, contactID, otherContactID uuid.UUID, label string) (*types.ContactRelationship, error)
	Delete(ctx context.Context, contactAID, contactBID uuid.UUID) error
	SummaryByCategory(ctx context.Context, contactID uuid.UUID) ([]CategorySummary, error)
	TypeOptions() []rel.TypeOption

	// ReresolveForContact refreshes gender-derived labels on every
	// relationship touching the contact, after a gender change.
	ReresolveForContact(ctx context.Context, tx *gorm.DB, tenantID, contactID uuid.UUID) error
}

type relationshipService struct {
	db            *gorm.DB
	log           *logger.Logger
	resolver      *rel.Resolver
	relationships relrepo.RelationshipRepo
	contacts      contactrepo.ContactRepo
}

func NewRelationshipService(
	db *gorm.DB,
	baseLog *logger.Logger,
	resolver *rel.Resolver,
	relationships relrepo.RelationshipRepo,
	contacts contactrepo.ContactRepo,
) RelationshipService {
	return &relationshipService{
		db:            db,
		log:           baseLog.With("service", "RelationshipService"),
		resolver:      resolver,
		relationships: relationships,
		contacts:      contacts,
	}
}

func (s *relationshipService) Create(ctx context.Context, input CreateInput) (*types.ContactRelationship, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}

	if input.ContactAID == input.ContactBID {
		return nil, fmt.Errorf("a contact cannot relate to itself: %w", pkgerr.ErrValidation)
	}
	if err := validateStrength(input.Strength); err != nil {
		return nil, err
	}

	status := types.RelationshipActive
	if input.Status != "" {
		status = types.RelationshipStatus(input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("unknown relationship status %q: %w", input.Status, pkgerr.ErrValidation)
		}
	}

	var created *types.ContactRelationship
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contactA, err := s.contacts.GetByID(ctx, tx, rd.TenantID, input.ContactAID)
		if err != nil {
			return err
		}
		contactB, err := s.contacts.GetByID(ctx, tx, rd.TenantID, input.ContactBID)
		if err != nil {
			return err
		}

		res := s.resolver.Resolve(input.Type, contactA.Gender, contactB.Gender, input.Override)

		first, second, swapped := types.NormalizePair(contactA.ID, contactB.ID)
		aToB, bToA := res.AToB, res.BToA
		if swapped {
			aToB, bToA = bToA, aToB
		}

		row := &types.ContactRelationship{
			ID:                   uuid.New(),
			TenantID:             rd.TenantID,
			CreatedByUserID:      rd.UserID,
			ContactAID:           first,
			ContactBID:           second,
			RelationshipAToB:     aToB,
			RelationshipBToA:     bToA,
			RelationshipCategory: res.Category,
			RelationshipStrength: input.Strength,
			RelationshipStatus:   status,
			IsMutual:             true,
			StartDate:            input.StartDate,
			EndDate:              input.EndDate,
			Notes:                input.Notes,
			Context:              input.Context,
			IsGenderResolved:     res.GenderResolved,
		}
		if input.IsMutual != nil {
			row.IsMutual = *input.IsMutual
		}
		if res.OriginalType != "" {
			row.OriginalRelationshipType = &res.OriginalType
		}

		created, err = s.relationships.Create(ctx, tx, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("relationship created",
		"relationship_id", created.ID,
		"contact_id", created.ContactAID,
		"category", created.RelationshipCategory)
	return created, nil
}

func (s *relationshipService) GetBetween(ctx context.Context, contactAID, contactBID uuid.UUID) (*types.ContactRelationship, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	first, second, _ := types.NormalizePair(contactAID, contactBID)
	return s.relationships.GetByPair(ctx, nil, rd.TenantID, first, second)
}

func (s *relationshipService) ListForContact(ctx context.Context, contactID uuid.UUID, includeInactive bool) ([]types.RelationshipView, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	rows, err := s.relationships.ListByContact(ctx, nil, rd.TenantID, contactID, includeInactive)
	if err != nil {
		return nil, err
	}
	views := make([]types.RelationshipView, 0, len(rows))
	for _, row := range rows {
		views = append(views, types.ViewFor(row, contactID))
	}
	return views, nil
}

func (s *relationshipService) Update(ctx context.Context, contactAID, contactBID uuid.UUID, input UpdateInput) (*types.ContactRelationship, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	if err := validateStrength(input.Strength); err != nil {
		return nil, err
	}

	var updated *types.ContactRelationship
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		first, second, _ := types.NormalizePair(contactAID, contactBID)
		row, err := s.relationships.GetByPair(ctx, tx, rd.TenantID, first, second)
		if err != nil {
			return err
		}

		if input.Type != nil {
			contactA, err := s.contacts.GetByID(ctx, tx, rd.TenantID, row.ContactAID)
			if err != nil {
				return err
			}
			contactB, err := s.contacts.GetByID(ctx, tx, rd.TenantID, row.ContactBID)
			if err != nil {
				return err
			}
			// Resolve in storage order; the caller's argument order does not
			// affect which stored side gets which label.
			res := s.resolver.Resolve(*input.Type, contactA.Gender, contactB.Gender, input.Override)
			row.RelationshipAToB = res.AToB
			row.RelationshipBToA = res.BToA
			row.RelationshipCategory = res.Category
			row.IsGenderResolved = res.GenderResolved
			row.OriginalRelationshipType = nil
			if res.OriginalType != "" {
				row.OriginalRelationshipType = &res.OriginalType
			}
		}

		if input.Strength != nil {
			row.RelationshipStrength = input.Strength
		}
		if input.Status != nil {
			status := types.RelationshipStatus(*input.Status)
			if !status.Valid() {
				return fmt.Errorf("unknown relationship status %q: %w", *input.Status, pkgerr.ErrValidation)
			}
			row.RelationshipStatus = status
		}
		if input.IsMutual != nil {
			row.IsMutual = *input.IsMutual
		}
		if input.StartDate != nil {
			row.StartDate = input.StartDate
		}
		if input.EndDate != nil {
			row.EndDate = input.EndDate
		}
		if input.Notes != nil {
			row.Notes = *input.Notes
		}
		if input.Context != nil {
			row.Context = *input.Context
		}

		if err := s.relationships.Save(ctx, tx, row); err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *relationshipService) UpdateSingleSide(ctx context.Context, contactID, otherContactID uuid.UUID, label string) (*types.ContactRelationship, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	if label == "" {
		return nil, fmt.Errorf("label must not be empty: %w", pkgerr.ErrValidation)
	}

	var updated *types.ContactRelationship
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		first, second, _ := types.NormalizePair(contactID, otherContactID)
		row, err := s.relationships.GetByPair(ctx, tx, rd.TenantID, first, second)
		if err != nil {
			return err
		}
		if row.ContactAID == contactID {
			row.RelationshipAToB = label
		} else {
			row.RelationshipBToA = label
		}
		// A manual one-sided label is no longer a gender-derived pair, and the
		// new label decides the category.
		row.IsGenderResolved = false
		row.OriginalRelationshipType = nil
		row.IsMutual = false
		row.RelationshipCategory = s.resolver.Table().CategoryOf(label)

		if err := s.relationships.Save(ctx, tx, row); err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *relationshipService) Delete(ctx context.Context, contactAID, contactBID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	first, second, _ := types.NormalizePair(contactAID, contactBID)
	deleted, err := s.relationships.DeleteByPair(ctx, nil, rd.TenantID, first, second)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("relationship for pair: %w", pkgerr.ErrNotFound)
	}
	return nil
}

func (s *relationshipService) SummaryByCategory(ctx context.Context, contactID uuid.UUID) ([]CategorySummary, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("missing request identity: %w", pkgerr.ErrUnauthorized)
	}
	rows, err := s.relationships.ListByContact(ctx, nil, rd.TenantID, contactID, false)
	if err != nil {
		return nil, err
	}
	counts := map[rel.Category]int{}
	for _, row := range rows {
		counts[row.RelationshipCategory]++
	}
	summaries := make([]CategorySummary, 0, len(counts))
	for _, category := range []rel.Category{rel.CategoryFamily, rel.CategoryProfessional, rel.CategorySocial, rel.CategoryRomantic} {
		if n, ok := counts[category]; ok {
			summaries = append(summaries, CategorySummary{Category: category, Count: n})
			delete(counts, category)
		}
	}
	for category, n := range counts {
		summaries = append(summaries, CategorySummary{Category: category, Count: n})
	}
	return summaries, nil
}

func (s *relationshipService) TypeOptions() []rel.TypeOption {
	return s.resolver.Table().Options()
}

func (s *relationshipService) ReresolveForContact(ctx context.Context, tx *gorm.DB, tenantID, contactID uuid.UUID) error {
	rows, err := s.relationships.ListByContact(ctx, tx, tenantID, contactID, true)
	if err != nil {
		return err
	}
	for _, row := range rows {
		// Only rows whose labels came from gender resolution are refreshed;
		// manual and override labels stay as the user wrote them.
		if row.OriginalRelationshipType == nil {
			continue
		}
		contactA, err := s.contacts.GetByID(ctx, tx, tenantID, row.ContactAID)
		if err != nil {
			return err
		}
		contactB, err := s.contacts.GetByID(ctx, tx, tenantID, row.ContactBID)
		if err != nil {
			return err
		}
		res := s.resolver.Resolve(*row.OriginalRelationshipType, contactA.Gender, contactB.Gender, false)
		row.RelationshipAToB = res.AToB
		row.RelationshipBToA = res.BToA
		row.RelationshipCategory = res.Category
		row.IsGenderResolved = res.GenderResolved
		if err := s.relationships.Save(ctx, tx, row); err != nil {
			return err
		}
	}
	return nil
}

func validateStrength(strength *int) error {
	if strength == nil {
		return nil
	}
	if *strength < 1 || *strength > 10 {
		return fmt.Errorf("relationship strength must be between 1 and 10: %w", pkgerr.ErrValidation)
	}
	return nil
}
