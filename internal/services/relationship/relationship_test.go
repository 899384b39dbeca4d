package relationship

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	contactrepo "github.com/recallerhq/recaller-backend/internal/data/repos/contact"
	relrepo "github.com/recallerhq/recaller-backend/internal/data/repos/relationship"
	"github.com/recallerhq/recaller-backend/internal/data/repos/testutil"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	rel "github.com/recallerhq/recaller-backend/internal/relationship"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type fixture struct {
	svc      RelationshipService
	ctx      context.Context
	tenantID uuid.UUID
	userID   uuid.UUID
	alice    *types.Contact
	bob      *types.Contact
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, ctx, db, "svc-"+uuid.NewString()[:8])
	user := testutil.SeedUser(t, ctx, db, tenant.ID, uuid.NewString()[:8]+"@test.local")
	alice := testutil.SeedContact(t, ctx, db, tenant.ID, user.ID, "Alice", rel.GenderFemale)
	bob := testutil.SeedContact(t, ctx, db, tenant.ID, user.ID, "Bob", rel.GenderMale)

	svc := NewRelationshipService(
		db, log,
		rel.NewResolver(nil),
		relrepo.NewRelationshipRepo(db, log),
		contactrepo.NewContactRepo(db, log),
	)

	reqCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID:   user.ID,
		TenantID: tenant.ID,
	})
	return &fixture{svc: svc, ctx: reqCtx, tenantID: tenant.ID, userID: user.ID, alice: alice, bob: bob}
}

func TestRelationshipService_CreateResolvesGenderedLabels(t *testing.T) {
	f := setup(t)

	created, err := f.svc.Create(f.ctx, CreateInput{
		ContactAID: f.alice.ID,
		ContactBID: f.bob.ID,
		Type:       "sibling",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.IsGenderResolved {
		t.Fatal("expected gender-resolved relationship")
	}
	if created.OriginalRelationshipType == nil || *created.OriginalRelationshipType != "sibling" {
		t.Fatalf("original type: got %v", created.OriginalRelationshipType)
	}

	// Alice's label toward Bob must be sister regardless of storage order.
	view := types.ViewFor(created, f.alice.ID)
	if view.TypeToOther != "sister" {
		t.Fatalf("alice's label: got %q, want sister", view.TypeToOther)
	}
	if view.TypeFromOther != "brother" {
		t.Fatalf("bob's label: got %q, want brother", view.TypeFromOther)
	}
	if created.RelationshipCategory != rel.CategoryFamily {
		t.Fatalf("category: got %q", created.RelationshipCategory)
	}
}

func TestRelationshipService_SelfPairRejected(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(f.ctx, CreateInput{
		ContactAID: f.alice.ID,
		ContactBID: f.alice.ID,
		Type:       "friend",
	})
	if !errors.Is(err, pkgerr.ErrValidation) {
		t.Fatalf("self pair: got %v, want ErrValidation", err)
	}
}

func TestRelationshipService_StrengthBounds(t *testing.T) {
	f := setup(t)

	for _, bad := range []int{0, 11, -3} {
		s := bad
		_, err := f.svc.Create(f.ctx, CreateInput{
			ContactAID: f.alice.ID,
			ContactBID: f.bob.ID,
			Type:       "friend",
			Strength:   &s,
		})
		if !errors.Is(err, pkgerr.ErrValidation) {
			t.Fatalf("strength %d: got %v, want ErrValidation", bad, err)
		}
	}
}

func TestRelationshipService_DuplicateEitherOrderConflicts(t *testing.T) {
	f := setup(t)

	if _, err := f.svc.Create(f.ctx, CreateInput{
		ContactAID: f.alice.ID,
		ContactBID: f.bob.ID,
		Type:       "colleague",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := f.svc.Create(f.ctx, CreateInput{
		ContactAID: f.bob.ID,
		ContactBID: f.alice.ID,
		Type:       "friend",
	})
	if !errors.Is(err, pkgerr.ErrConflict) {
		t.Fatalf("reversed duplicate: got %v, want ErrConflict", err)
	}
}

func TestRelationshipService_UpdateSingleSide(t *testing.T) {
	f := setup(t)

	if _, err := f.svc.Create(f.ctx, CreateInput{
		ContactAID: f.alice.ID,
		ContactBID: f.bob.ID,
		Type:       "sibling",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.UpdateSingleSide(f.ctx, f.alice.ID, f.bob.ID, "mentor")
	if err != nil {
		t.Fatalf("update single side: %v", err)
	}

	view := types.ViewFor(updated, f.alice.ID)
	if view.TypeToOther != "mentor" {
		t.Fatalf("alice's label: got %q, want mentor", view.TypeToOther)
	}
	if view.TypeFromOther != "brother" {
		t.Fatalf("bob's label changed: got %q", view.TypeFromOther)
	}
	if updated.IsGenderResolved {
		t.Fatal("manual label must clear the gender-resolved flag")
	}
	if updated.OriginalRelationshipType != nil {
		t.Fatal("manual label must clear the original type")
	}
	if updated.IsMutual {
		t.Fatal("one-sided label must mark the relationship non-mutual")
	}
	if updated.RelationshipCategory != rel.CategoryProfessional {
		t.Fatalf("category must follow the new label: got %q, want professional", updated.RelationshipCategory)
	}
}

func TestRelationshipService_DeleteThenRecreate(t *testing.T) {
	f := setup(t)

	if _, err := f.svc.Create(f.ctx, CreateInput{
		ContactAID: f.alice.ID,
		ContactBID: f.bob.ID,
		Type:       "friend",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.svc.Delete(f.ctx, f.alice.ID, f.bob.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	recreated, err := f.svc.Create(f.ctx, CreateInput{
		ContactAID: f.alice.ID,
		ContactBID: f.bob.ID,
		Type:       "colleague",
	})
	if err != nil {
		t.Fatalf("re-create after delete: %v", err)
	}
	if recreated.RelationshipCategory != rel.CategoryProfessional {
		t.Fatalf("recreated category: got %q", recreated.RelationshipCategory)
	}
}

func TestRelationshipService_GenderChangeReresolves(t *testing.T) {
	f := setup(t)
	db := testutil.DB(t)

	created, err := f.svc.Create(f.ctx, CreateInput{
		ContactAID: f.alice.ID,
		ContactBID: f.bob.ID,
		Type:       "parent",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := types.ViewFor(created, f.alice.ID)
	if before.TypeToOther != "mother" {
		t.Fatalf("before: got %q, want mother", before.TypeToOther)
	}

	f.alice.Gender = rel.GenderMale
	if err := db.WithContext(f.ctx).Save(f.alice).Error; err != nil {
		t.Fatalf("save contact: %v", err)
	}
	if err := f.svc.ReresolveForContact(f.ctx, nil, f.tenantID, f.alice.ID); err != nil {
		t.Fatalf("reresolve: %v", err)
	}

	after, err := f.svc.GetBetween(f.ctx, f.alice.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	view := types.ViewFor(after, f.alice.ID)
	if view.TypeToOther != "father" {
		t.Fatalf("after: got %q, want father", view.TypeToOther)
	}
}

func TestRelationshipService_SummaryByCategory(t *testing.T) {
	f := setup(t)
	db := testutil.DB(t)
	ctx := context.Background()
	carol := testutil.SeedContact(t, ctx, db, f.tenantID, f.userID, "Carol", rel.GenderFemale)

	if _, err := f.svc.Create(f.ctx, CreateInput{ContactAID: f.alice.ID, ContactBID: f.bob.ID, Type: "sibling"}); err != nil {
		t.Fatalf("create sibling: %v", err)
	}
	if _, err := f.svc.Create(f.ctx, CreateInput{ContactAID: f.alice.ID, ContactBID: carol.ID, Type: "colleague"}); err != nil {
		t.Fatalf("create colleague: %v", err)
	}

	summaries, err := f.svc.SummaryByCategory(f.ctx, f.alice.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	got := map[rel.Category]int{}
	for _, s := range summaries {
		got[s.Category] = s.Count
	}
	if got[rel.CategoryFamily] != 1 || got[rel.CategoryProfessional] != 1 {
		t.Fatalf("summary counts: %v", got)
	}
}
