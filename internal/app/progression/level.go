package progression

import "github.com/studygram-app/studygram/internal/domain"

// Levels is the static experience→title table, ascending by threshold.
// Lookup is "highest qualifying threshold": the entry with the greatest
// MinExperience that does not exceed the profile's experience.
var Levels = []domain.LevelInfo{
	{MinExperience: 0, Title: "Seedling", Icon: "🌱"},
	{MinExperience: 100, Title: "Apprentice", Icon: "🐣"},
	{MinExperience: 500, Title: "Scholar", Icon: "🦉"},
	{MinExperience: 1500, Title: "Professor", Icon: "👓"},
	{MinExperience: 3000, Title: "Prodigy", Icon: "👑"},
	{MinExperience: 6000, Title: "Legend", Icon: "🐉"},
}

// LevelFor returns the level entry for a given experience amount.
// Total over the non-negative integers; below the lowest threshold it
// returns the zero-floor entry.
func LevelFor(experience int64) domain.LevelInfo {
	level := Levels[0]
	for _, l := range Levels {
		if experience < l.MinExperience {
			break
		}
		level = l
	}
	return level
}

// LevelIndex returns the 1-based tier number for an experience amount.
func LevelIndex(experience int64) int {
	idx := 1
	for i, l := range Levels {
		if experience < l.MinExperience {
			break
		}
		idx = i + 1
	}
	return idx
}

// LevelUp describes the outcome of an experience change.
type LevelUp struct {
	Leveled  bool             `json:"leveled"`
	NewTitle string           `json:"new_title,omitempty"`
	Level    domain.LevelInfo `json:"level"`
}

// ApplyExperience adds delta experience and reports whether the title
// changed. The input profile is not mutated; persistence is the caller's
// responsibility. Experience never goes below zero.
func ApplyExperience(p *domain.UserProfile, delta int64) (*domain.UserProfile, LevelUp) {
	out := p.Clone()
	before := LevelFor(out.Experience)

	out.Experience += delta
	if out.Experience < 0 {
		out.Experience = 0
	}

	after := LevelFor(out.Experience)
	lu := LevelUp{Level: after}
	if after.Title != before.Title {
		lu.Leveled = true
		lu.NewTitle = after.Title
	}
	return out, lu
}

// ExperienceToNext returns experience remaining until the next title.
// Zero at the top tier.
func ExperienceToNext(experience int64) int64 {
	for _, l := range Levels {
		if experience < l.MinExperience {
			return l.MinExperience - experience
		}
	}
	return 0
}

// ProgressPct returns progress toward the next title (0.0–100.0).
func ProgressPct(experience int64) float64 {
	var floor, ceil int64 = 0, 0
	for _, l := range Levels {
		if experience < l.MinExperience {
			ceil = l.MinExperience
			break
		}
		floor = l.MinExperience
	}
	if ceil == 0 {
		return 100.0 // Top tier
	}
	span := ceil - floor
	pct := float64(experience-floor) / float64(span) * 100.0
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}
