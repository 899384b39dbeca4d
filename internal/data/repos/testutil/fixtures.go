package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/recallerhq/recaller-backend/internal/domain"
	"github.com/recallerhq/recaller-backend/internal/relationship"
)

func SeedTenant(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Tenant {
	tb.Helper()
	t := &types.Tenant{
		ID:     uuid.New(),
		Slug:   slug,
		Name:   slug,
		Active: true,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed tenant: %v", err)
	}
	return t
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Email:     email,
		Password:  "x",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedContact(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, name string, gender relationship.Gender) *types.Contact {
	tb.Helper()
	c := &types.Contact{
		ID:              uuid.New(),
		TenantID:        tenantID,
		CreatedByUserID: userID,
		FirstName:       name,
		Gender:          gender,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contact: %v", err)
	}
	return c
}

func SeedRecurrenceRule(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, ownerType string, ownerID uuid.UUID, next time.Time) *types.RecurrenceRule {
	tb.Helper()
	r := &types.RecurrenceRule{
		ID:               uuid.New(),
		TenantID:         tenantID,
		OwnerType:        ownerType,
		OwnerID:          ownerID,
		Frequency:        "monthly",
		IntervalCount:    1,
		StartDate:        next,
		NextGenerationAt: next,
		Active:           true,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed recurrence rule: %v", err)
	}
	return r
}

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }
