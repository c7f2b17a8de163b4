package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/studygram-app/studygram/internal/app/gems"
	"github.com/studygram-app/studygram/internal/app/notify"
	"github.com/studygram-app/studygram/internal/app/session"
	"github.com/studygram-app/studygram/internal/domain"
	"github.com/studygram-app/studygram/internal/infra/sqlite"
)

type fixture struct {
	svc   *session.Service
	db    *sqlite.DB
	gems  *gems.Service
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:    db,
		gems:  gems.NewService(db),
		// Local zone: lastLogin round-trips through epoch millis and is
		// read back in time.Local, so the clock must match.
		clock: time.Date(2026, 5, 1, 10, 0, 0, 0, time.Local),
	}
	f.svc = session.NewService(db, f.gems, notify.NewService(db))
	f.svc.SetClock(func() time.Time { return f.clock })
	return f
}

func (f *fixture) initProfile(t *testing.T) *domain.UserProfile {
	t.Helper()
	p, err := f.svc.Init("Ada")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	return p
}

func TestService_NoProfile(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Profile(); !errors.Is(err, domain.ErrNoProfile) {
		t.Errorf("expected ErrNoProfile, got %v", err)
	}
	if _, _, err := f.svc.StartSession(); !errors.Is(err, domain.ErrNoProfile) {
		t.Errorf("expected ErrNoProfile from StartSession, got %v", err)
	}
}

func TestService_InitSeedsLedger(t *testing.T) {
	f := newFixture(t)
	p := f.initProfile(t)

	if p.Gems != 50 || len(p.DailyQuests) != 3 {
		t.Errorf("unexpected seed: gems=%d quests=%d", p.Gems, len(p.DailyQuests))
	}
	bal, err := f.gems.Balance()
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal != 50 {
		t.Errorf("ledger balance %d, want 50", bal)
	}
}

func TestService_InitFailsWhenLedgerSeedFails(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	broken, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open ledger db: %v", err)
	}
	broken.Close()

	svc := session.NewService(db, gems.NewService(broken), notify.NewService(db))
	if _, err := svc.Init("Ada"); err == nil {
		t.Fatal("expected init to fail when the ledger cannot be seeded")
	}

	// The half-created profile must be rolled back, not left 50 gems
	// ahead of the ledger.
	if _, err := svc.Profile(); !errors.Is(err, domain.ErrNoProfile) {
		t.Errorf("expected ErrNoProfile after failed init, got %v", err)
	}
}

func TestService_StartSessionNextDay(t *testing.T) {
	f := newFixture(t)
	f.initProfile(t)

	f.clock = f.clock.AddDate(0, 0, 1)
	p, report, err := f.svc.StartSession()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !report.NewDay || !report.StreakContinued {
		t.Errorf("unexpected report: %+v", report)
	}
	if p.StreakCount != 2 {
		t.Errorf("streak %d, want 2", p.StreakCount)
	}

	// Persisted, not just returned.
	stored, _ := f.db.LoadProfile()
	if stored.StreakCount != 2 {
		t.Errorf("stored streak %d, want 2", stored.StreakCount)
	}
}

func TestService_ClaimQuestWritesLedger(t *testing.T) {
	f := newFixture(t)
	f.initProfile(t)

	if _, _, err := f.svc.CompleteFocus("Math", 15); err != nil {
		t.Fatalf("focus: %v", err)
	}
	p, result, err := f.svc.ClaimQuest("q1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !result.Quest.Claimed || result.Quest.RewardGems != 20 {
		t.Errorf("unexpected claim result: %+v", result)
	}
	if p.Gems != 70 {
		t.Errorf("gems %d, want 70", p.Gems)
	}

	bal, _ := f.gems.Balance()
	if bal != 70 {
		t.Errorf("ledger balance %d, want 70 (must mirror profile)", bal)
	}
}

func TestService_ClaimRejectionLeavesState(t *testing.T) {
	f := newFixture(t)
	f.initProfile(t)

	_, _, err := f.svc.ClaimQuest("q1")
	if !errors.Is(err, domain.ErrInvalidClaim) {
		t.Fatalf("expected ErrInvalidClaim, got %v", err)
	}

	p, _ := f.svc.Profile()
	if p.Gems != 50 || p.Experience != 0 {
		t.Errorf("rejected claim changed stored state: %+v", p)
	}
	bal, _ := f.gems.Balance()
	if bal != 50 {
		t.Errorf("rejected claim touched ledger: %d", bal)
	}
}

func TestService_CompleteFocus(t *testing.T) {
	f := newFixture(t)
	f.initProfile(t)

	p, fs, err := f.svc.CompleteFocus("History", 25)
	if err != nil {
		t.Fatalf("focus: %v", err)
	}
	if fs.Minutes != 25 {
		t.Errorf("session minutes %d, want 25", fs.Minutes)
	}
	if p.LifetimeFocusMinutes != 25 || p.Skills.Focus != 11 {
		t.Errorf("profile not updated: lifetime=%d focus=%d", p.LifetimeFocusMinutes, p.Skills.Focus)
	}
	if p.Experience != 50 {
		t.Errorf("experience %d, want 50 (2 per minute)", p.Experience)
	}
	// 25 minutes exceeds the 15-minute quest target; clamped.
	if q := p.Quest("q1"); q.Current != 15 {
		t.Errorf("quest progress %d, want 15", q.Current)
	}
}

func TestService_SubmitQuizTracksWeakPoints(t *testing.T) {
	f := newFixture(t)
	f.initProfile(t)

	p, _, err := f.svc.SubmitQuiz("Algebra", 2, 10)
	if err != nil {
		t.Fatalf("quiz: %v", err)
	}
	if p.CompletedQuizCount != 1 {
		t.Errorf("quiz count %d, want 1", p.CompletedQuizCount)
	}
	if len(p.WeakPoints) != 1 || p.WeakPoints[0].Topic != "Algebra" {
		t.Errorf("weak points not tracked: %+v", p.WeakPoints)
	}
	if p.Experience != 20 {
		t.Errorf("experience %d, want 20 (10 per correct)", p.Experience)
	}

	// A strong score does not add a weak point.
	p, _, err = f.svc.SubmitQuiz("Geometry", 9, 10)
	if err != nil {
		t.Fatalf("quiz: %v", err)
	}
	if len(p.WeakPoints) != 1 {
		t.Errorf("strong score added a weak point: %+v", p.WeakPoints)
	}
}

func TestService_AIInteractionQuest(t *testing.T) {
	f := newFixture(t)
	f.initProfile(t)

	for i := 0; i < 3; i++ {
		if _, err := f.svc.RecordAIInteraction(); err != nil {
			t.Fatalf("interaction %d: %v", i, err)
		}
	}
	p, _ := f.svc.Profile()
	if q := p.Quest("q3"); !q.Claimable() {
		t.Errorf("q3 should be claimable after 3 interactions: %+v", q)
	}
}

func TestService_BadgeUnlockOnStreak(t *testing.T) {
	f := newFixture(t)
	f.initProfile(t)

	// Walk the clock forward seven consecutive days.
	for i := 0; i < 7; i++ {
		f.clock = f.clock.AddDate(0, 0, 1)
		if _, _, err := f.svc.StartSession(); err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
	}
	p, _ := f.svc.Profile()
	if p.StreakCount != 8 {
		t.Errorf("streak %d, want 8", p.StreakCount)
	}
	if !p.HasBadge("streak_7") {
		t.Error("streak_7 badge should be unlocked")
	}
}
