package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"guest_portal/internal/domain"
)

func ledger() []domain.BonusTransaction {
	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	return []domain.BonusTransaction{
		{ID: "t3", GuestID: "g1", Amount: -200, BalanceAfter: 800, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "t2", GuestID: "g1", Amount: 500, BalanceAfter: 1000, CreatedAt: base.Add(time.Hour)},
		{ID: "t1", GuestID: "g1", Amount: 500, BalanceAfter: 500, CreatedAt: base},
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := domain.Aggregate(nil)
	if got != (domain.BonusSummary{}) {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestAggregate_Ledger(t *testing.T) {
	txs := ledger()
	snapshot := append([]domain.BonusTransaction(nil), txs...)

	got := domain.Aggregate(txs)
	want := domain.BonusSummary{TotalEarned: 1000, TotalSpent: -200, CurrentBalance: 800}
	if got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
	if again := domain.Aggregate(txs); again != got {
		t.Fatalf("aggregate not stable: %+v vs %+v", again, got)
	}
	if diff := cmp.Diff(snapshot, txs); diff != "" {
		t.Fatalf("input mutated:\n%s", diff)
	}
}

func TestAggregate_PassesThroughInconsistentBalance(t *testing.T) {
	txs := []domain.BonusTransaction{{ID: "x", Amount: 10, BalanceAfter: -50}}
	got := domain.Aggregate(txs)
	if got.CurrentBalance != -50 || got.TotalEarned != 10 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestVerifyLedger(t *testing.T) {
	if d := domain.VerifyLedger(ledger()); len(d) != 0 {
		t.Fatalf("consistent ledger flagged: %+v", d)
	}

	broken := ledger()
	broken[1].BalanceAfter = 900 // t2 should be 1000
	got := domain.VerifyLedger(broken)
	want := []domain.LedgerDiscrepancy{
		{TransactionID: "t2", Expected: 1000, Actual: 900},
		{TransactionID: "t3", Expected: 700, Actual: 800},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("discrepancies (-want +got):\n%s", diff)
	}
}

func TestNextBalance(t *testing.T) {
	if n, err := domain.NextBalance(800, 200); err != nil || n != 1000 {
		t.Fatalf("earn: %d, %v", n, err)
	}
	if n, err := domain.NextBalance(800, -800); err != nil || n != 0 {
		t.Fatalf("spend all: %d, %v", n, err)
	}
	if _, err := domain.NextBalance(800, -801); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("overspend: want ErrInsufficientBalance, got %v", err)
	}
	if _, err := domain.NextBalance(800, 0); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("zero: want ErrInvalidAmount, got %v", err)
	}
}

func TestGuestCanSignIn(t *testing.T) {
	now := time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC)
	checkout := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	past := time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC)

	if !(domain.Guest{IsActive: true}).CanSignIn(now) {
		t.Fatalf("open-ended stay should sign in")
	}
	if !(domain.Guest{IsActive: true, CheckOut: &checkout}).CanSignIn(now) {
		t.Fatalf("check-out day should still sign in")
	}
	if (domain.Guest{IsActive: true, CheckOut: &past}).CanSignIn(now) {
		t.Fatalf("departed guest should not sign in")
	}
	if (domain.Guest{IsActive: false}).CanSignIn(now) {
		t.Fatalf("inactive guest should not sign in")
	}
}
