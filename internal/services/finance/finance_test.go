package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	contactrepo "github.com/recallerhq/recaller-backend/internal/data/repos/contact"
	financerepo "github.com/recallerhq/recaller-backend/internal/data/repos/finance"
	schedulerepo "github.com/recallerhq/recaller-backend/internal/data/repos/schedule"
	"github.com/recallerhq/recaller-backend/internal/data/repos/testutil"
	types "github.com/recallerhq/recaller-backend/internal/domain"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
)

type fixture struct {
	svc   FinanceService
	debts DebtService
	ctx   context.Context
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, ctx, db, "fin-"+uuid.NewString()[:8])
	user := testutil.SeedUser(t, ctx, db, tenant.ID, uuid.NewString()[:8]+"@test.local")

	budgets := financerepo.NewBudgetRepo(db, log)
	transactions := financerepo.NewTransactionRepo(db, log)
	rules := schedulerepo.NewRecurrenceRepo(db, log)

	reqCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID:   user.ID,
		TenantID: tenant.ID,
	})
	return &fixture{
		svc:   NewFinanceService(db, log, budgets, transactions, rules),
		debts: NewDebtService(db, log, financerepo.NewDebtRepo(db, log), contactrepo.NewContactRepo(db, log)),
		ctx:   reqCtx,
	}
}

func TestFinanceService_BudgetStatusTracksSpend(t *testing.T) {
	f := setup(t)

	budget, err := f.svc.CreateBudget(f.ctx, BudgetInput{
		Name:        "groceries",
		Category:    "food",
		Amount:      decimal.NewFromInt(500),
		PeriodStart: time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2019, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	for _, amount := range []int64{120, 80} {
		occurred := time.Date(2019, 3, 10, 0, 0, 0, 0, time.UTC)
		if _, err := f.svc.CreateTransaction(f.ctx, TransactionInput{
			BudgetID:   &budget.ID,
			Amount:     decimal.NewFromInt(amount),
			Category:   "food",
			OccurredAt: &occurred,
		}); err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	status, err := f.svc.GetBudget(f.ctx, budget.ID)
	if err != nil {
		t.Fatalf("get budget: %v", err)
	}
	if !status.Spent.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("spent: got %s, want 200", status.Spent)
	}
	if !status.Remaining.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("remaining: got %s, want 300", status.Remaining)
	}
}

func TestFinanceService_BudgetPeriodValidation(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CreateBudget(f.ctx, BudgetInput{
		Name:        "backwards",
		Amount:      decimal.NewFromInt(100),
		PeriodStart: time.Date(2019, 5, 31, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, pkgerr.ErrValidation) {
		t.Fatalf("inverted period: got %v, want ErrValidation", err)
	}
}

func TestFinanceService_UpdateBudget(t *testing.T) {
	f := setup(t)

	budget, err := f.svc.CreateBudget(f.ctx, BudgetInput{
		Name:        "travel",
		Amount:      decimal.NewFromInt(1000),
		PeriodStart: time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2019, 7, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	amount := decimal.NewFromInt(1500)
	name := "travel and lodging"
	updated, err := f.svc.UpdateBudget(f.ctx, budget.ID, BudgetUpdateInput{Name: &name, Amount: &amount})
	if err != nil {
		t.Fatalf("update budget: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("name: got %q", updated.Name)
	}
	if !updated.Amount.Equal(amount) {
		t.Fatalf("amount: got %s", updated.Amount)
	}

	badEnd := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := f.svc.UpdateBudget(f.ctx, budget.ID, BudgetUpdateInput{PeriodEnd: &badEnd}); !errors.Is(err, pkgerr.ErrValidation) {
		t.Fatalf("period shrunk past start: got %v, want ErrValidation", err)
	}
}

func TestDebtService_PaymentLifecycle(t *testing.T) {
	f := setup(t)

	debt, err := f.debts.Create(f.ctx, DebtInput{
		Direction:   string(types.DebtOwedToMe),
		Amount:      decimal.NewFromInt(100),
		Description: "lunch money",
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	if debt.Status != types.DebtOutstanding {
		t.Fatalf("status: got %q, want outstanding", debt.Status)
	}

	debt, err = f.debts.RecordPayment(f.ctx, debt.ID, PaymentInput{Amount: decimal.NewFromInt(40)})
	if err != nil {
		t.Fatalf("partial payment: %v", err)
	}
	if debt.Status != types.DebtPartial {
		t.Fatalf("status after partial: got %q", debt.Status)
	}

	_, err = f.debts.RecordPayment(f.ctx, debt.ID, PaymentInput{Amount: decimal.NewFromInt(70)})
	if !errors.Is(err, pkgerr.ErrValidation) {
		t.Fatalf("overpayment: got %v, want ErrValidation", err)
	}

	debt, err = f.debts.RecordPayment(f.ctx, debt.ID, PaymentInput{Amount: decimal.NewFromInt(60)})
	if err != nil {
		t.Fatalf("final payment: %v", err)
	}
	if debt.Status != types.DebtSettled {
		t.Fatalf("status after settle: got %q", debt.Status)
	}
	if debt.SettledAt == nil {
		t.Fatal("settled debt must carry a settled timestamp")
	}

	_, err = f.debts.RecordPayment(f.ctx, debt.ID, PaymentInput{Amount: decimal.NewFromInt(1)})
	if !errors.Is(err, pkgerr.ErrConflict) {
		t.Fatalf("payment on settled debt: got %v, want ErrConflict", err)
	}
}

func TestDebtService_UpdateGuardsPaidBalance(t *testing.T) {
	f := setup(t)

	debt, err := f.debts.Create(f.ctx, DebtInput{
		Direction: string(types.DebtOwedByMe),
		Amount:    decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	if _, err := f.debts.RecordPayment(f.ctx, debt.ID, PaymentInput{Amount: decimal.NewFromInt(150)}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	tooLow := decimal.NewFromInt(100)
	if _, err := f.debts.Update(f.ctx, debt.ID, DebtUpdateInput{Amount: &tooLow}); !errors.Is(err, pkgerr.ErrValidation) {
		t.Fatalf("amount below paid: got %v, want ErrValidation", err)
	}

	// Trimming the amount down to exactly what was paid settles the debt.
	exact := decimal.NewFromInt(150)
	updated, err := f.debts.Update(f.ctx, debt.ID, DebtUpdateInput{Amount: &exact})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != types.DebtSettled {
		t.Fatalf("status: got %q, want settled", updated.Status)
	}
}
