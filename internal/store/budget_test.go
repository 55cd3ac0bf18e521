package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/tmori/wishnote/internal/database"
)

func setupBudgetTestDB(t *testing.T) *BudgetStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return NewBudgetStore(db)
}

func TestBudgetSetAndGet(t *testing.T) {
	bs := setupBudgetTestDB(t)
	user := uuid.NewString()

	if err := bs.SetLimit(user, "2025-11", 10000); err != nil {
		t.Fatalf("set limit: %v", err)
	}

	limit, err := bs.GetLimit(user, "2025-11")
	if err != nil {
		t.Fatalf("get limit: %v", err)
	}
	if limit == nil {
		t.Fatal("expected limit")
	}
	if limit.Amount != 10000 {
		t.Errorf("amount = %v, want 10000", limit.Amount)
	}

	if got, _ := bs.GetLimit(user, "2025-12"); got != nil {
		t.Error("expected nil for a month without a limit")
	}
}

func TestBudgetUpsert(t *testing.T) {
	bs := setupBudgetTestDB(t)
	user := uuid.NewString()

	bs.SetLimit(user, "2025-11", 10000)
	if err := bs.SetLimit(user, "2025-11", 15000); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	limit, _ := bs.GetLimit(user, "2025-11")
	if limit.Amount != 15000 {
		t.Errorf("amount = %v, want 15000", limit.Amount)
	}

	limits, err := bs.ListByMonth("2025-11")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(limits) != 1 {
		t.Fatalf("expected 1 limit, got %d", len(limits))
	}
}

func TestBudgetListByMonth(t *testing.T) {
	bs := setupBudgetTestDB(t)
	alice := uuid.NewString()
	bob := uuid.NewString()

	bs.SetLimit(alice, "2025-11", 10000)
	bs.SetLimit(bob, "2025-11", 5000)
	bs.SetLimit(alice, "2025-12", 20000)

	limits, err := bs.ListByMonth("2025-11")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(limits) != 2 {
		t.Fatalf("expected 2 limits, got %d", len(limits))
	}
	for _, l := range limits {
		if l.Month != "2025-11" {
			t.Errorf("month = %q, want 2025-11", l.Month)
		}
	}
}
