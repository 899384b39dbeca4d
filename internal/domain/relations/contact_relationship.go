package relations

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recallerhq/recaller-backend/internal/relationship"
)

type RelationshipStatus string

const (
	StatusActive  RelationshipStatus = "active"
	StatusDistant RelationshipStatus = "distant"
	StatusEnded   RelationshipStatus = "ended"
)

func (s RelationshipStatus) Valid() bool {
	switch s {
	case StatusActive, StatusDistant, StatusEnded:
		return true
	default:
		return false
	}
}

// ContactRelationship is the canonical single row describing the relationship
// between two contacts. The pair is stored normalized (smaller UUID first) so
// the (tenant_id, contact_a_id, contact_b_id) unique index catches duplicates
// regardless of the order the caller supplied. The index is partial
// (deleted_at IS NULL, created in db.AutoMigrateAll) so a soft-deleted pair
// can be related again.
type ContactRelationship struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;not null;column:created_by_user_id" json:"created_by_user_id"`

	ContactAID uuid.UUID `gorm:"type:uuid;not null;index;column:contact_a_id" json:"contact_a_id"`
	ContactBID uuid.UUID `gorm:"type:uuid;not null;index;column:contact_b_id" json:"contact_b_id"`

	RelationshipAToB     string                `gorm:"not null;column:relationship_a_to_b" json:"relationship_a_to_b"`
	RelationshipBToA     string                `gorm:"not null;column:relationship_b_to_a" json:"relationship_b_to_a"`
	RelationshipCategory relationship.Category `gorm:"type:varchar(32);not null;column:relationship_category" json:"relationship_category"`

	RelationshipStrength *int               `gorm:"column:relationship_strength" json:"relationship_strength,omitempty"`
	RelationshipStatus   RelationshipStatus `gorm:"type:varchar(16);not null;default:'active';column:relationship_status" json:"relationship_status"`
	IsMutual             bool               `gorm:"not null;default:true;column:is_mutual" json:"is_mutual"`
	StartDate            *time.Time         `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate              *time.Time         `gorm:"column:end_date" json:"end_date,omitempty"`
	Notes                string             `gorm:"type:text;column:notes" json:"notes"`
	Context              string             `gorm:"column:context" json:"context"`

	IsGenderResolved         bool    `gorm:"not null;default:false;column:is_gender_resolved" json:"is_gender_resolved"`
	OriginalRelationshipType *string `gorm:"column:original_relationship_type" json:"original_relationship_type,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContactRelationship) TableName() string { return "contact_relationship" }

// NormalizePair orders two contact IDs into the canonical storage order.
// swapped reports that the caller's (a, b) arrived reversed, so directional
// labels must be swapped to match.
func NormalizePair(a, b uuid.UUID) (first, second uuid.UUID, swapped bool) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b, false
	}
	return b, a, true
}

// View is a relationship annotated from one contact's perspective: the label
// this contact holds toward the other side, whichever storage slot it sits in.
type View struct {
	Relationship   *ContactRelationship `json:"relationship"`
	ContactID      uuid.UUID            `json:"contact_id"`
	OtherContactID uuid.UUID            `json:"other_contact_id"`
	TypeToOther    string               `json:"type_to_other"`
	TypeFromOther  string               `json:"type_from_other"`
}

// ViewFor annotates rel relative to contactID. The caller guarantees
// contactID is one of the pair.
func ViewFor(rel *ContactRelationship, contactID uuid.UUID) View {
	v := View{Relationship: rel, ContactID: contactID}
	if rel.ContactAID == contactID {
		v.OtherContactID = rel.ContactBID
		v.TypeToOther = rel.RelationshipAToB
		v.TypeFromOther = rel.RelationshipBToA
	} else {
		v.OtherContactID = rel.ContactAID
		v.TypeToOther = rel.RelationshipBToA
		v.TypeFromOther = rel.RelationshipAToB
	}
	return v
}
