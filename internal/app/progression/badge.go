package progression

import "github.com/studygram-app/studygram/internal/domain"

// AllBadges returns the badge catalog. Each badge is a pure predicate over
// profile fields, evaluated in table order.
func AllBadges() []domain.BadgeDef {
	return []domain.BadgeDef{
		{
			ID: "streak_7", Name: "Fire Warrior", Icon: "🔥",
			Description: "Keep a 7-day study streak",
			Predicate:   func(p *domain.UserProfile) bool { return p.StreakCount >= 7 },
		},
		{
			ID: "quiz_10", Name: "Big Brain", Icon: "🧠",
			Description: "Complete 10 quizzes",
			Predicate:   func(p *domain.UserProfile) bool { return p.CompletedQuizCount >= 10 },
		},
		{
			ID: "rich_kid", Name: "Collector", Icon: "💎",
			Description: "Hold 1000 gems",
			Predicate:   func(p *domain.UserProfile) bool { return p.Gems >= 1000 },
		},
		{
			ID: "level_5", Name: "Study Royalty", Icon: "👑",
			Description: "Reach the Prodigy title",
			Predicate:   func(p *domain.UserProfile) bool { return p.Experience >= 3000 },
		},
		{
			ID: "focus_500", Name: "Deep Focus", Icon: "🎯",
			Description: "Log 500 minutes of focus time",
			Predicate:   func(p *domain.UserProfile) bool { return p.LifetimeFocusMinutes >= 500 },
		},
		{
			ID: "scholar_mind", Name: "Scholar Mind", Icon: "📚",
			Description: "Grow every skill to 25",
			Predicate: func(p *domain.UserProfile) bool {
				s := p.Skills
				return s.CriticalThinking >= 25 && s.Focus >= 25 &&
					s.Creativity >= 25 && s.Knowledge >= 25 && s.Discipline >= 25
			},
		},
	}
}

// BadgeByID returns a badge definition, or nil if the id is unknown.
func BadgeByID(id string) *domain.BadgeDef {
	for _, b := range AllBadges() {
		if b.ID == id {
			return &b
		}
	}
	return nil
}

// EvaluateBadges runs every predicate against the profile and unlocks any
// badge not already held. Idempotent: already-unlocked ids are skipped and
// never removed, so re-running on an unchanged profile changes nothing.
func EvaluateBadges(p *domain.UserProfile) (*domain.UserProfile, []domain.BadgeDef) {
	out := p.Clone()

	var unlocked []domain.BadgeDef
	for _, def := range AllBadges() {
		if out.HasBadge(def.ID) {
			continue
		}
		if def.Predicate != nil && def.Predicate(out) {
			out.UnlockedBadgeIDs = append(out.UnlockedBadgeIDs, def.ID)
			unlocked = append(unlocked, def)
		}
	}
	return out, unlocked
}
