// Package domain defines the StudyGram core types.
// The UserProfile is the single owning aggregate: quests, badge ids, and
// skill counters are embedded in it and have no independent lifecycle.
package domain

import "time"

// SchemaVersion is the current persisted-profile format version.
// A record without a version field is read as version 1; a record with a
// higher version than this is treated as corrupt (fail-open to fresh start).
const SchemaVersion = 1

// UserProfile is the single per-device profile record.
// All progression state transitions take and return this aggregate; the
// store persists it whole, never field by field.
type UserProfile struct {
	Version int    `json:"schemaVersion"`
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`

	Experience int64 `json:"experience"`
	Gems       int64 `json:"gems"`

	StreakCount        int   `json:"streakCount"`
	LastLoginTimestamp int64 `json:"lastLoginTimestamp"` // epoch millis

	DailyQuests      []Quest  `json:"dailyQuests"`
	UnlockedBadgeIDs []string `json:"unlockedBadgeIds"`

	CompletedQuizCount   int         `json:"completedQuizCount"`
	LifetimeFocusMinutes int         `json:"lifetimeFocusMinutes"`
	Skills               UserSkills  `json:"skills"`
	WeakPoints           []WeakPoint `json:"weakPoints"`
}

// UserSkills holds the five independent skill counters.
type UserSkills struct {
	CriticalThinking int `json:"criticalThinking"`
	Focus            int `json:"focus"`
	Creativity       int `json:"creativity"`
	Knowledge        int `json:"knowledge"`
	Discipline       int `json:"discipline"`
}

// WeakPoint is a topic the user keeps getting wrong, with its latest score.
type WeakPoint struct {
	Topic string  `json:"topic"`
	Score float64 `json:"score"`
}

// LastLogin returns the last-login timestamp as a time.Time.
func (p *UserProfile) LastLogin() time.Time {
	return time.UnixMilli(p.LastLoginTimestamp)
}

// SetLastLogin stores a time as the last-login timestamp.
func (p *UserProfile) SetLastLogin(t time.Time) {
	p.LastLoginTimestamp = t.UnixMilli()
}

// HasBadge reports whether the badge id is already unlocked.
func (p *UserProfile) HasBadge(id string) bool {
	for _, b := range p.UnlockedBadgeIDs {
		if b == id {
			return true
		}
	}
	return false
}

// Quest returns the daily quest with the given id, or nil.
func (p *UserProfile) Quest(id string) *Quest {
	for i := range p.DailyQuests {
		if p.DailyQuests[i].ID == id {
			return &p.DailyQuests[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the profile. Transition functions operate on
// copies so a failed transition never leaves the caller's value half-mutated.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	c.DailyQuests = append([]Quest(nil), p.DailyQuests...)
	c.UnlockedBadgeIDs = append([]string(nil), p.UnlockedBadgeIDs...)
	c.WeakPoints = append([]WeakPoint(nil), p.WeakPoints...)
	return &c
}

// ─── Quest Types ────────────────────────────────────────────────────────────

// QuestType categorizes the gameplay action a quest tracks.
type QuestType string

const (
	QuestFocusTime     QuestType = "focus_time"
	QuestQuizCorrect   QuestType = "quiz_correct"
	QuestAIInteraction QuestType = "ai_interaction"
)

// Quest is a daily, resettable progress-and-reward unit.
// The full quest list is replaced wholesale at each calendar-day boundary;
// Claimed transitions false→true exactly once per instance.
type Quest struct {
	ID               string    `json:"id"`
	Type             QuestType `json:"type"`
	Text             string    `json:"text"`
	Target           int       `json:"target"`
	Current          int       `json:"current"`
	RewardExperience int64     `json:"rewardExperience"`
	RewardGems       int64     `json:"rewardGems"`
	Claimed          bool      `json:"claimed"`
}

// Claimable reports whether the quest can be claimed right now.
func (q Quest) Claimable() bool {
	return !q.Claimed && q.Current >= q.Target
}

// ProgressPct returns completion percentage (0–100).
func (q Quest) ProgressPct() float64 {
	if q.Target <= 0 {
		return 100.0
	}
	pct := float64(q.Current) / float64(q.Target) * 100.0
	if pct > 100.0 {
		pct = 100.0
	}
	return pct
}

// ─── Level Types ────────────────────────────────────────────────────────────

// LevelInfo is one entry of the static experience→title table.
type LevelInfo struct {
	MinExperience int64  `json:"minExperience"`
	Title         string `json:"title"`
	Icon          string `json:"icon"`
}

// ─── Badge Types ────────────────────────────────────────────────────────────

// BadgeDef defines a permanent achievement gated by a predicate over the
// profile. Unlock is one-way: an unlocked id is never removed, even if the
// predicate later becomes false.
type BadgeDef struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Icon        string                  `json:"icon"`
	Description string                  `json:"description"`
	Predicate   func(*UserProfile) bool `json:"-"`
}

// ─── Session Reconcile ──────────────────────────────────────────────────────

// SessionReport describes what the session-start reconcile did.
type SessionReport struct {
	NewDay          bool `json:"new_day"`
	DaysAway        int  `json:"days_away"`
	QuestsReset     bool `json:"quests_reset"`
	StreakContinued bool `json:"streak_continued"`
	StreakBroken    bool `json:"streak_broken"`
	StreakCount     int  `json:"streak_count"`
}
