package progression_test

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/studygram-app/studygram/internal/app/progression"
	"github.com/studygram-app/studygram/internal/domain"
)

// newProfile builds a profile mid-session on the given day.
func newProfile(lastLogin time.Time) *domain.UserProfile {
	p := &domain.UserProfile{
		Version:     domain.SchemaVersion,
		UID:         "test-uid",
		Name:        "Tester",
		Experience:  0,
		Gems:        50,
		StreakCount: 1,
		DailyQuests: progression.DefaultDailyQuests(),
	}
	p.SetLastLogin(lastLogin)
	return p
}

// ═══════════════════════════════════════════════════════════════════════════
// Level Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestLevelFor_Thresholds(t *testing.T) {
	cases := []struct {
		exp   int64
		title string
	}{
		{0, "Seedling"},
		{99, "Seedling"},
		{100, "Apprentice"},
		{499, "Apprentice"},
		{500, "Scholar"},
		{1500, "Professor"},
		{2999, "Professor"},
		{3000, "Prodigy"},
		{6000, "Legend"},
		{1_000_000, "Legend"},
	}
	for _, c := range cases {
		if got := progression.LevelFor(c.exp); got.Title != c.title {
			t.Errorf("LevelFor(%d) = %q, want %q", c.exp, got.Title, c.title)
		}
	}
}

func TestLevelFor_Monotonic(t *testing.T) {
	prev := -1
	for exp := int64(0); exp <= 7000; exp += 50 {
		idx := progression.LevelIndex(exp)
		if idx < prev {
			t.Fatalf("level index decreased at exp=%d: %d -> %d", exp, prev, idx)
		}
		prev = idx
	}
}

func TestApplyExperience_LevelUpBoundary(t *testing.T) {
	p := newProfile(time.Now())
	p.Experience = 99

	p2, lu := progression.ApplyExperience(p, 1)
	if !lu.Leveled || lu.NewTitle != "Apprentice" {
		t.Errorf("expected level up to Apprentice, got %+v", lu)
	}
	if p2.Experience != 100 {
		t.Errorf("expected 100 exp, got %d", p2.Experience)
	}
	if p.Experience != 99 {
		t.Errorf("input profile mutated: %d", p.Experience)
	}

	// Within the same tier no level-up is reported.
	_, lu = progression.ApplyExperience(p2, 10)
	if lu.Leveled {
		t.Errorf("unexpected level up: %+v", lu)
	}
}

func TestApplyExperience_Additive(t *testing.T) {
	p := newProfile(time.Now())

	a, _ := progression.ApplyExperience(p, 30)
	a, _ = progression.ApplyExperience(a, 70)

	b, _ := progression.ApplyExperience(p, 100)
	if a.Experience != b.Experience {
		t.Errorf("30+70 != 100: %d vs %d", a.Experience, b.Experience)
	}
}

func TestApplyExperience_FloorsAtZero(t *testing.T) {
	p := newProfile(time.Now())
	p.Experience = 40

	p2, _ := progression.ApplyExperience(p, -100)
	if p2.Experience != 0 {
		t.Errorf("expected floor at 0, got %d", p2.Experience)
	}
}

func TestExperienceToNext(t *testing.T) {
	if got := progression.ExperienceToNext(40); got != 60 {
		t.Errorf("expected 60 to Apprentice, got %d", got)
	}
	if got := progression.ExperienceToNext(6000); got != 0 {
		t.Errorf("expected 0 at top tier, got %d", got)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Streak Tests
// ═══════════════════════════════════════════════════════════════════════════

// Streak fixtures build times in time.Local because LastLogin round-trips
// through epoch millis and comes back in the local zone. Mid-June dates
// keep the fixtures clear of DST transitions in any runner zone; the
// transition itself is covered by TestStreak_DSTSpringForward.

func TestStreak_SameDayUnchanged(t *testing.T) {
	morning := time.Date(2026, 6, 15, 8, 0, 0, 0, time.Local)
	p := newProfile(morning)
	p.StreakCount = 4

	p2, _ := progression.ReconcileStreak(p, morning.Add(9*time.Hour))
	if p2.StreakCount != 4 {
		t.Errorf("same-day streak changed: %d", p2.StreakCount)
	}
}

func TestStreak_NextDayIncrements(t *testing.T) {
	// Late night to early next morning still counts as consecutive.
	night := time.Date(2026, 6, 15, 23, 50, 0, 0, time.Local)
	p := newProfile(night)
	p.StreakCount = 4

	p2, _ := progression.ReconcileStreak(p, night.Add(7*time.Hour))
	if p2.StreakCount != 5 {
		t.Errorf("expected streak 5, got %d", p2.StreakCount)
	}
}

func TestStreak_GapResets(t *testing.T) {
	day := time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)
	p := newProfile(day)
	p.StreakCount = 9

	p2, _ := progression.ReconcileStreak(p, day.AddDate(0, 0, 5))
	if p2.StreakCount != 1 {
		t.Errorf("expected streak reset to 1, got %d", p2.StreakCount)
	}
}

func TestStreak_BackwardClockNoop(t *testing.T) {
	day := time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)
	p := newProfile(day)
	p.StreakCount = 3

	p2, days := progression.ReconcileStreak(p, day.AddDate(0, 0, -2))
	if days != 0 || p2.StreakCount != 3 {
		t.Errorf("backward clock should be a no-op: days=%d streak=%d", days, p2.StreakCount)
	}
}

func TestStreak_DSTSpringForward(t *testing.T) {
	// 2026-03-08 is the 23-hour spring-forward day in US Eastern time.
	// Midnight-to-midnight elapsed time is under 24h, but Mar 8 and Mar 9
	// are still consecutive calendar dates.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	defer func(prev *time.Location) { time.Local = prev }(time.Local)
	time.Local = loc

	evening := time.Date(2026, 3, 8, 20, 0, 0, 0, loc)
	nextMorning := time.Date(2026, 3, 9, 8, 0, 0, 0, loc)

	if progression.SameCalendarDay(evening, nextMorning) {
		t.Error("consecutive dates across spring-forward reported as same day")
	}

	p := newProfile(evening)
	p.StreakCount = 3
	p2, _ := progression.ReconcileStreak(p, nextMorning)
	if p2.StreakCount != 4 {
		t.Errorf("expected streak 4 across spring-forward, got %d", p2.StreakCount)
	}

	p3, reset := progression.ReconcileDailyReset(p, nextMorning)
	if !reset {
		t.Error("quests not reset on the day after spring-forward")
	}
	if !progression.SameCalendarDay(p3.LastLogin(), nextMorning) {
		t.Errorf("last login not stamped: %v", p3.LastLogin())
	}
}

func TestSameCalendarDay(t *testing.T) {
	a := time.Date(2026, 6, 15, 0, 1, 0, 0, time.Local)
	b := time.Date(2026, 6, 15, 23, 59, 0, 0, time.Local)
	if !progression.SameCalendarDay(a, b) {
		t.Error("same-date times reported as different days")
	}
	if progression.SameCalendarDay(b, b.Add(2*time.Minute)) {
		t.Error("midnight crossing reported as same day")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Daily Reset Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestDailyReset_ReplacesQuests(t *testing.T) {
	day := time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)
	p := newProfile(day)
	p.DailyQuests[0].Current = 15
	p.DailyQuests[0].Claimed = true

	next := day.AddDate(0, 0, 1)
	p2, reset := progression.ReconcileDailyReset(p, next)
	if !reset {
		t.Fatal("expected a reset on the next day")
	}
	for _, q := range p2.DailyQuests {
		if q.Current != 0 || q.Claimed {
			t.Errorf("quest %s not reset: current=%d claimed=%v", q.ID, q.Current, q.Claimed)
		}
	}
	if !progression.SameCalendarDay(p2.LastLogin(), next) {
		t.Errorf("last login not stamped: %v", p2.LastLogin())
	}
}

func TestDailyReset_Idempotent(t *testing.T) {
	day := time.Date(2026, 6, 15, 8, 0, 0, 0, time.Local)
	p := newProfile(day)

	p2, reset := progression.ReconcileDailyReset(p, day.Add(6*time.Hour))
	if reset {
		t.Error("same-day reset fired")
	}
	p2.DailyQuests[0].Current = 7

	p3, reset := progression.ReconcileDailyReset(p2, day.Add(8*time.Hour))
	if reset {
		t.Error("second same-day reset fired")
	}
	if p3.DailyQuests[0].Current != 7 {
		t.Errorf("same-day reset destroyed progress: %d", p3.DailyQuests[0].Current)
	}
}

func TestReconcileSession_StreakThenReset(t *testing.T) {
	day := time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)
	p := newProfile(day)
	p.StreakCount = 2
	p.DailyQuests[1].Current = 10

	p2, report := progression.ReconcileSession(p, day.AddDate(0, 0, 1))
	if !report.NewDay || !report.StreakContinued || report.StreakBroken {
		t.Errorf("unexpected report: %+v", report)
	}
	if p2.StreakCount != 3 || report.StreakCount != 3 {
		t.Errorf("expected streak 3, got %d (report %d)", p2.StreakCount, report.StreakCount)
	}
	if !report.QuestsReset || p2.DailyQuests[1].Current != 0 {
		t.Errorf("quests not reset: %+v", p2.DailyQuests)
	}
}

func TestReconcileSession_SameDayNoop(t *testing.T) {
	day := time.Date(2026, 6, 15, 9, 0, 0, 0, time.Local)
	p := newProfile(day)
	p.StreakCount = 6
	p.DailyQuests[0].Current = 12

	p2, report := progression.ReconcileSession(p, day.Add(5*time.Hour))
	if report.NewDay || report.QuestsReset {
		t.Errorf("same-day session reported a new day: %+v", report)
	}
	if p2.StreakCount != 6 || p2.DailyQuests[0].Current != 12 {
		t.Errorf("same-day session changed state: streak=%d current=%d",
			p2.StreakCount, p2.DailyQuests[0].Current)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Quest Progress & Claim Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestRecordProgress_ClampsAtTarget(t *testing.T) {
	p := newProfile(time.Now())

	// q2 targets 10 correct answers; two increments of 6 must clamp.
	p2, completed := progression.RecordProgress(p, domain.QuestQuizCorrect, 6)
	if len(completed) != 0 {
		t.Errorf("completed too early: %+v", completed)
	}
	p3, completed := progression.RecordProgress(p2, domain.QuestQuizCorrect, 6)
	if len(completed) != 1 || completed[0].ID != "q2" {
		t.Fatalf("expected q2 completion, got %+v", completed)
	}
	if q := p3.Quest("q2"); q.Current != 10 {
		t.Errorf("expected clamp at 10, got %d", q.Current)
	}
}

func TestRecordProgress_SkipsClaimedAndOtherTypes(t *testing.T) {
	p := newProfile(time.Now())
	p.Quest("q1").Claimed = true

	p2, _ := progression.RecordProgress(p, domain.QuestFocusTime, 5)
	if p2.Quest("q1").Current != 0 {
		t.Error("claimed quest advanced")
	}
	if p2.Quest("q2").Current != 0 {
		t.Error("unrelated quest type advanced")
	}
}

func TestRecordProgress_NonPositiveNoop(t *testing.T) {
	p := newProfile(time.Now())
	p2, completed := progression.RecordProgress(p, domain.QuestFocusTime, 0)
	if completed != nil || p2.Quest("q1").Current != 0 {
		t.Errorf("zero amount changed state")
	}
}

func TestClaim_GrantsOnce(t *testing.T) {
	p := newProfile(time.Now())
	p.Quest("q1").Current = 15

	p2, res, err := progression.Claim(p, "q1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if p2.Gems != 50+20 {
		t.Errorf("expected 70 gems, got %d", p2.Gems)
	}
	if p2.Experience != 100 {
		t.Errorf("expected 100 exp, got %d", p2.Experience)
	}
	if !res.LevelUp.Leveled {
		t.Errorf("expected level up at 100 exp, got %+v", res.LevelUp)
	}
	if !p2.Quest("q1").Claimed {
		t.Error("quest not marked claimed")
	}

	// Second claim is rejected and grants nothing.
	p3, _, err := progression.Claim(p2, "q1")
	if !errors.Is(err, domain.ErrInvalidClaim) || !errors.Is(err, domain.ErrQuestAlreadyClaimed) {
		t.Fatalf("expected already-claimed error, got %v", err)
	}
	if p3.Gems != p2.Gems || p3.Experience != p2.Experience {
		t.Error("rejected claim changed balances")
	}
}

func TestClaim_Rejections(t *testing.T) {
	p := newProfile(time.Now())
	p.Quest("q2").Current = 4

	cases := []struct {
		name    string
		questID string
		wantErr error
	}{
		{"unknown quest", "nope", domain.ErrQuestNotFound},
		{"incomplete quest", "q2", domain.ErrQuestIncomplete},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p2, _, err := progression.Claim(p, c.questID)
			if !errors.Is(err, domain.ErrInvalidClaim) {
				t.Fatalf("expected ErrInvalidClaim, got %v", err)
			}
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("expected %v, got %v", c.wantErr, err)
			}
			if p2.Gems != p.Gems || p2.Experience != p.Experience {
				t.Error("rejected claim changed the profile")
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Badge Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestEvaluateBadges_UnlocksOnThreshold(t *testing.T) {
	p := newProfile(time.Now())
	p.StreakCount = 7
	p.Gems = 1200

	p2, unlocked := progression.EvaluateBadges(p)
	ids := map[string]bool{}
	for _, b := range unlocked {
		ids[b.ID] = true
	}
	if !ids["streak_7"] || !ids["rich_kid"] {
		t.Errorf("expected streak_7 and rich_kid, got %v", ids)
	}
	if !p2.HasBadge("streak_7") || !p2.HasBadge("rich_kid") {
		t.Error("badges not recorded on profile")
	}
}

func TestEvaluateBadges_Idempotent(t *testing.T) {
	p := newProfile(time.Now())
	p.StreakCount = 7

	p2, first := progression.EvaluateBadges(p)
	if len(first) != 1 {
		t.Fatalf("expected one unlock, got %d", len(first))
	}
	p3, second := progression.EvaluateBadges(p2)
	if len(second) != 0 {
		t.Errorf("re-evaluation unlocked again: %+v", second)
	}
	if len(p3.UnlockedBadgeIDs) != 1 {
		t.Errorf("badge list grew: %v", p3.UnlockedBadgeIDs)
	}
}

func TestEvaluateBadges_NeverRemoves(t *testing.T) {
	p := newProfile(time.Now())
	p.StreakCount = 7
	p2, _ := progression.EvaluateBadges(p)

	// Condition no longer holds; the badge stays.
	p2.StreakCount = 1
	p3, _ := progression.EvaluateBadges(p2)
	if !p3.HasBadge("streak_7") {
		t.Error("unlocked badge was removed")
	}
}

func TestBadgeByID(t *testing.T) {
	if b := progression.BadgeByID("quiz_10"); b == nil || b.Name != "Big Brain" {
		t.Errorf("unexpected lookup result: %+v", b)
	}
	if b := progression.BadgeByID("missing"); b != nil {
		t.Errorf("expected nil for unknown id, got %+v", b)
	}
}
