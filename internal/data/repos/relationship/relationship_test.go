package relationship

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/recallerhq/recaller-backend/internal/data/repos/testutil"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	rel "github.com/recallerhq/recaller-backend/internal/relationship"
)

func newRel(tenantID, userID, a, b uuid.UUID) *types.ContactRelationship {
	first, second, swapped := types.NormalizePair(a, b)
	aToB, bToA := "brother", "sister"
	if swapped {
		aToB, bToA = bToA, aToB
	}
	return &types.ContactRelationship{
		ID:                   uuid.New(),
		TenantID:             tenantID,
		CreatedByUserID:      userID,
		ContactAID:           first,
		ContactBID:           second,
		RelationshipAToB:     aToB,
		RelationshipBToA:     bToA,
		RelationshipCategory: rel.CategoryFamily,
		RelationshipStatus:   types.RelationshipActive,
	}
}

func TestRelationshipRepo_CreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRelationshipRepo(db, testutil.Logger(t))

	tenant := testutil.SeedTenant(t, ctx, tx, "acme")
	user := testutil.SeedUser(t, ctx, tx, tenant.ID, "owner@acme.test")
	a := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Alice", rel.GenderFemale)
	b := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Bob", rel.GenderMale)

	created, err := repo.Create(ctx, tx, newRel(tenant.ID, user.ID, a.ID, b.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, tenant.ID, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.ContactAID != created.ContactAID || got.ContactBID != created.ContactBID {
		t.Fatalf("pair mismatch: got (%s,%s) want (%s,%s)",
			got.ContactAID, got.ContactBID, created.ContactAID, created.ContactBID)
	}

	first, second, _ := types.NormalizePair(a.ID, b.ID)
	byPair, err := repo.GetByPair(ctx, tx, tenant.ID, first, second)
	if err != nil {
		t.Fatalf("get by pair: %v", err)
	}
	if byPair.ID != created.ID {
		t.Fatalf("get by pair returned %s, want %s", byPair.ID, created.ID)
	}
}

func TestRelationshipRepo_DuplicatePairConflicts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRelationshipRepo(db, testutil.Logger(t))

	tenant := testutil.SeedTenant(t, ctx, tx, "acme")
	user := testutil.SeedUser(t, ctx, tx, tenant.ID, "owner@acme.test")
	a := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Alice", rel.GenderFemale)
	b := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Bob", rel.GenderMale)

	if _, err := repo.Create(ctx, tx, newRel(tenant.ID, user.ID, a.ID, b.ID)); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Same pair again, and again with the arguments reversed: normalization
	// produces the same storage row, so both must hit the unique index.
	if _, err := repo.Create(ctx, tx, newRel(tenant.ID, user.ID, a.ID, b.ID)); !errors.Is(err, pkgerr.ErrConflict) {
		t.Fatalf("duplicate create: got %v, want ErrConflict", err)
	}
	if _, err := repo.Create(ctx, tx, newRel(tenant.ID, user.ID, b.ID, a.ID)); !errors.Is(err, pkgerr.ErrConflict) {
		t.Fatalf("reversed duplicate create: got %v, want ErrConflict", err)
	}
}

func TestRelationshipRepo_ListByContact(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRelationshipRepo(db, testutil.Logger(t))

	tenant := testutil.SeedTenant(t, ctx, tx, "acme")
	user := testutil.SeedUser(t, ctx, tx, tenant.ID, "owner@acme.test")
	a := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Alice", rel.GenderFemale)
	b := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Bob", rel.GenderMale)
	c := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Carol", rel.GenderFemale)

	if _, err := repo.Create(ctx, tx, newRel(tenant.ID, user.ID, a.ID, b.ID)); err != nil {
		t.Fatalf("create a-b: %v", err)
	}
	ended := newRel(tenant.ID, user.ID, a.ID, c.ID)
	ended.RelationshipStatus = types.RelationshipEnded
	if _, err := repo.Create(ctx, tx, ended); err != nil {
		t.Fatalf("create a-c: %v", err)
	}

	active, err := repo.ListByContact(ctx, tx, tenant.ID, a.ID, false)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active list: got %d rows, want 1", len(active))
	}

	all, err := repo.ListByContact(ctx, tx, tenant.ID, a.ID, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("full list: got %d rows, want 2", len(all))
	}

	none, err := repo.ListByContact(ctx, tx, tenant.ID, uuid.New(), true)
	if err != nil {
		t.Fatalf("list unrelated: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("unrelated contact: got %d rows, want 0", len(none))
	}
}

func TestRelationshipRepo_TenantIsolation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRelationshipRepo(db, testutil.Logger(t))

	tenant := testutil.SeedTenant(t, ctx, tx, "acme")
	other := testutil.SeedTenant(t, ctx, tx, "globex")
	user := testutil.SeedUser(t, ctx, tx, tenant.ID, "owner@acme.test")
	a := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Alice", rel.GenderFemale)
	b := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Bob", rel.GenderMale)

	created, err := repo.Create(ctx, tx, newRel(tenant.ID, user.ID, a.ID, b.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.GetByID(ctx, tx, other.ID, created.ID); !errors.Is(err, pkgerr.ErrNotFound) {
		t.Fatalf("cross-tenant get: got %v, want ErrNotFound", err)
	}

	first, second, _ := types.NormalizePair(a.ID, b.ID)
	deleted, err := repo.DeleteByPair(ctx, tx, other.ID, first, second)
	if err != nil {
		t.Fatalf("cross-tenant delete: %v", err)
	}
	if deleted {
		t.Fatal("cross-tenant delete removed a row")
	}
}

func TestRelationshipRepo_DeleteByPair(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRelationshipRepo(db, testutil.Logger(t))

	tenant := testutil.SeedTenant(t, ctx, tx, "acme")
	user := testutil.SeedUser(t, ctx, tx, tenant.ID, "owner@acme.test")
	a := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Alice", rel.GenderFemale)
	b := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Bob", rel.GenderMale)

	if _, err := repo.Create(ctx, tx, newRel(tenant.ID, user.ID, a.ID, b.ID)); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, second, _ := types.NormalizePair(a.ID, b.ID)
	deleted, err := repo.DeleteByPair(ctx, tx, tenant.ID, first, second)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("delete reported no rows removed")
	}

	again, err := repo.DeleteByPair(ctx, tx, tenant.ID, first, second)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if again {
		t.Fatal("second delete reported a row removed")
	}
}

func TestRelationshipRepo_RecreateAfterDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRelationshipRepo(db, testutil.Logger(t))

	tenant := testutil.SeedTenant(t, ctx, tx, "acme")
	user := testutil.SeedUser(t, ctx, tx, tenant.ID, "owner@acme.test")
	a := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Alice", rel.GenderFemale)
	b := testutil.SeedContact(t, ctx, tx, tenant.ID, user.ID, "Bob", rel.GenderMale)

	if _, err := repo.Create(ctx, tx, newRel(tenant.ID, user.ID, a.ID, b.ID)); err != nil {
		t.Fatalf("create: %v", err)
	}
	first, second, _ := types.NormalizePair(a.ID, b.ID)
	if _, err := repo.DeleteByPair(ctx, tx, tenant.ID, first, second); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The soft-deleted row must not hold the pair hostage: the partial
	// unique index only covers live rows.
	recreated, err := repo.Create(ctx, tx, newRel(tenant.ID, user.ID, a.ID, b.ID))
	if err != nil {
		t.Fatalf("re-create after delete: %v", err)
	}

	got, err := repo.GetByPair(ctx, tx, tenant.ID, first, second)
	if err != nil {
		t.Fatalf("get recreated pair: %v", err)
	}
	if got.ID != recreated.ID {
		t.Fatalf("get by pair returned %s, want recreated row %s", got.ID, recreated.ID)
	}

	// The live row still enforces uniqueness.
	if _, err := repo.Create(ctx, tx, newRel(tenant.ID, user.ID, a.ID, b.ID)); !errors.Is(err, pkgerr.ErrConflict) {
		t.Fatalf("duplicate of recreated pair: got %v, want ErrConflict", err)
	}
}
