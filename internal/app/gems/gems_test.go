package gems_test

import (
	"errors"
	"testing"

	"github.com/studygram-app/studygram/internal/app/gems"
	"github.com/studygram-app/studygram/internal/domain"
	"github.com/studygram-app/studygram/internal/infra/sqlite"
)

func testService(t *testing.T) *gems.Service {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return gems.NewService(db)
}

func TestGems_GrantAndBalance(t *testing.T) {
	svc := testService(t)

	if err := svc.Grant(20, "q1", "quest reward"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.Grant(30, "q2", "quest reward"); err != nil {
		t.Fatalf("grant: %v", err)
	}

	bal, err := svc.Balance()
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal != 50 {
		t.Errorf("expected 50, got %d", bal)
	}
	if err := svc.Verify(); err != nil {
		t.Errorf("ledger invariant broken: %v", err)
	}
}

func TestGems_SpendReducesBalance(t *testing.T) {
	svc := testService(t)

	_ = svc.Grant(100, "seed", "starting gems")
	if err := svc.Spend(40, "shop:streak_freeze", "shop purchase"); err != nil {
		t.Fatalf("spend: %v", err)
	}

	bal, _ := svc.Balance()
	if bal != 60 {
		t.Errorf("expected 60, got %d", bal)
	}
	if err := svc.Verify(); err != nil {
		t.Errorf("ledger invariant broken: %v", err)
	}
}

func TestGems_OverdraftRejected(t *testing.T) {
	svc := testService(t)

	_ = svc.Grant(10, "seed", "starting gems")
	err := svc.Spend(25, "shop:theme", "shop purchase")
	if !errors.Is(err, domain.ErrInsufficientGems) {
		t.Fatalf("expected ErrInsufficientGems, got %v", err)
	}

	bal, _ := svc.Balance()
	if bal != 10 {
		t.Errorf("failed spend changed balance: %d", bal)
	}
}

func TestGems_NonPositiveAmounts(t *testing.T) {
	svc := testService(t)

	if err := svc.Grant(0, "x", "y"); err == nil {
		t.Error("zero grant accepted")
	}
	if err := svc.Spend(-5, "x", "y"); err == nil {
		t.Error("negative spend accepted")
	}
}

func TestGems_HistoryNewestFirst(t *testing.T) {
	svc := testService(t)

	_ = svc.Grant(20, "q1", "first")
	_ = svc.Grant(30, "q2", "second")

	hist, err := svc.History(10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 4 {
		t.Fatalf("expected 4 rows (two pairs), got %d", len(hist))
	}
	if hist[0].Ref != "q2" {
		t.Errorf("expected newest first, got %+v", hist[0])
	}
}
