package progression

import (
	"fmt"
	"time"

	"github.com/studygram-app/studygram/internal/domain"
)

// dailyQuestSet is the canonical quest list created fresh each day.
// Rewards are fixed at creation.
var dailyQuestSet = []domain.Quest{
	{
		ID: "q1", Type: domain.QuestFocusTime,
		Text: "Focus for 15 minutes", Target: 15,
		RewardExperience: 100, RewardGems: 20,
	},
	{
		ID: "q2", Type: domain.QuestQuizCorrect,
		Text: "Answer 10 quiz questions correctly", Target: 10,
		RewardExperience: 150, RewardGems: 30,
	},
	{
		ID: "q3", Type: domain.QuestAIInteraction,
		Text: "Ask the AI tutor 3 questions", Target: 3,
		RewardExperience: 50, RewardGems: 10,
	},
}

// DefaultDailyQuests returns a fresh copy of the canonical daily quest set,
// all progress at zero and unclaimed.
func DefaultDailyQuests() []domain.Quest {
	return append([]domain.Quest(nil), dailyQuestSet...)
}

// ReconcileDailyReset replaces the quest list wholesale when the calendar
// date of the last login differs from now's, and stamps the new login time.
// The same calendar day, including a clock that moved backward, is a no-op,
// which makes repeated calls within one day idempotent.
func ReconcileDailyReset(p *domain.UserProfile, now time.Time) (*domain.UserProfile, bool) {
	if calendarDaysBetween(p.LastLogin(), now) <= 0 {
		return p.Clone(), false
	}

	out := p.Clone()
	out.DailyQuests = DefaultDailyQuests()
	out.SetLastLogin(now)
	return out, true
}

// RecordProgress advances every unclaimed quest of the given type, clamped
// at each quest's target. Returns the quests completed by this call.
// A zero (or negative) amount is a no-op.
func RecordProgress(p *domain.UserProfile, questType domain.QuestType, amount int) (*domain.UserProfile, []domain.Quest) {
	out := p.Clone()
	if amount <= 0 {
		return out, nil
	}

	var completed []domain.Quest
	for i := range out.DailyQuests {
		q := &out.DailyQuests[i]
		if q.Type != questType || q.Claimed {
			continue
		}
		wasComplete := q.Current >= q.Target
		q.Current += amount
		if q.Current > q.Target {
			q.Current = q.Target
		}
		if !wasComplete && q.Current >= q.Target {
			completed = append(completed, *q)
		}
	}
	return out, completed
}

// ClaimResult reports what a successful claim granted.
type ClaimResult struct {
	Quest   domain.Quest `json:"quest"`
	LevelUp LevelUp      `json:"level_up"`
}

// Claim marks a completed quest as claimed and grants its rewards as one
// atomic transition. On any rejection the returned profile is unchanged.
// All rejections wrap domain.ErrInvalidClaim.
func Claim(p *domain.UserProfile, questID string) (*domain.UserProfile, ClaimResult, error) {
	out := p.Clone()

	q := out.Quest(questID)
	switch {
	case q == nil:
		return p.Clone(), ClaimResult{}, fmt.Errorf("%w: %w: %q", domain.ErrInvalidClaim, domain.ErrQuestNotFound, questID)
	case q.Claimed:
		return p.Clone(), ClaimResult{}, fmt.Errorf("%w: %w: %q", domain.ErrInvalidClaim, domain.ErrQuestAlreadyClaimed, questID)
	case q.Current < q.Target:
		return p.Clone(), ClaimResult{}, fmt.Errorf("%w: %w: %q (%d/%d)", domain.ErrInvalidClaim, domain.ErrQuestIncomplete, questID, q.Current, q.Target)
	}

	q.Claimed = true
	out.Gems += q.RewardGems

	out, lu := ApplyExperience(out, q.RewardExperience)
	return out, ClaimResult{Quest: *out.Quest(questID), LevelUp: lu}, nil
}
