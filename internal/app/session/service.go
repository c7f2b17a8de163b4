// Package session orchestrates profile state: every operation loads the
// stored profile, applies pure progression transitions, and persists the
// whole record back before returning. Nothing here mutates state in place;
// a failed step leaves the stored profile untouched.
package session

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/studygram-app/studygram/internal/app/gems"
	"github.com/studygram-app/studygram/internal/app/notify"
	"github.com/studygram-app/studygram/internal/app/progression"
	"github.com/studygram-app/studygram/internal/domain"
	"github.com/studygram-app/studygram/internal/infra/metrics"
	"github.com/studygram-app/studygram/internal/infra/sqlite"
)

// Service is the single writer for the profile record. The mutex serializes
// load-transition-save cycles so concurrent API calls cannot interleave.
type Service struct {
	mu     sync.Mutex
	db     *sqlite.DB
	gems   *gems.Service
	notify *notify.Service
	now    func() time.Time
}

// NewService creates the session service.
func NewService(db *sqlite.DB, g *gems.Service, n *notify.Service) *Service {
	return &Service{db: db, gems: g, notify: n, now: time.Now}
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Profile returns the stored profile, or domain.ErrNoProfile.
func (s *Service) Profile() (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Service) load() (*domain.UserProfile, error) {
	p, err := s.db.LoadProfile()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNoProfile
	}
	return p, nil
}

// Init creates a fresh profile with the canonical quest set and seeds the
// starting gems into the ledger.
func (s *Service) Init(name string) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.db.CreateProfile(name, progression.DefaultDailyQuests(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.gems.Grant(p.Gems, "welcome", "starting gems"); err != nil {
		// Without the seed entry the ledger would trail the wallet forever.
		if derr := s.db.DeleteProfile(); derr != nil {
			log.Printf("[session] roll back profile: %v", derr)
		}
		return nil, fmt.Errorf("seed gems ledger: %w", err)
	}
	metrics.GemsBalance.Set(float64(p.Gems))
	metrics.StreakDays.Set(float64(p.StreakCount))
	return p, nil
}

// StartSession reconciles streak and daily quests against the current time
// and persists the result. Safe to call on every app launch; same-day calls
// change nothing.
func (s *Service) StartSession() (*domain.UserProfile, domain.SessionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load()
	if err != nil {
		return nil, domain.SessionReport{}, err
	}

	now := s.now()
	next, report := progression.ReconcileSession(p, now)
	next, unlocked := progression.EvaluateBadges(next)

	if err := s.db.SaveProfile(next); err != nil {
		return nil, domain.SessionReport{}, err
	}

	metrics.StreakDays.Set(float64(next.StreakCount))
	s.announceBadges(unlocked, now)
	if report.StreakContinued {
		s.announce(domain.NotifyStreak, "Streak extended!",
			fmt.Sprintf("%d days and counting 🔥", next.StreakCount), now)
	}
	return next, report, nil
}

// GrantExperience applies an experience delta from the named source and
// re-evaluates badges.
func (s *Service) GrantExperience(delta int64, source string) (*domain.UserProfile, progression.LevelUp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grantExperienceLocked(delta, source)
}

func (s *Service) grantExperienceLocked(delta int64, source string) (*domain.UserProfile, progression.LevelUp, error) {
	p, err := s.load()
	if err != nil {
		return nil, progression.LevelUp{}, err
	}
	next, lu := s.applyExperience(p, delta, source)
	next, unlocked := progression.EvaluateBadges(next)
	if err := s.db.SaveProfile(next); err != nil {
		return nil, progression.LevelUp{}, err
	}
	now := s.now()
	s.announceLevelUp(lu, now)
	s.announceBadges(unlocked, now)
	return next, lu, nil
}

func (s *Service) applyExperience(p *domain.UserProfile, delta int64, source string) (*domain.UserProfile, progression.LevelUp) {
	next, lu := progression.ApplyExperience(p, delta)
	if delta > 0 {
		metrics.ExperienceGranted.WithLabelValues(source).Add(float64(delta))
	}
	if lu.Leveled {
		metrics.LevelUps.Inc()
	}
	return next, lu
}

// RecordProgress advances quests of the given type and persists. Newly
// completed quests produce a notification.
func (s *Service) RecordProgress(questType domain.QuestType, amount int) (*domain.UserProfile, []domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load()
	if err != nil {
		return nil, nil, err
	}
	next, completed := progression.RecordProgress(p, questType, amount)
	if err := s.db.SaveProfile(next); err != nil {
		return nil, nil, err
	}
	metrics.QuestProgress.WithLabelValues(string(questType)).Add(float64(amount))
	now := s.now()
	for _, q := range completed {
		s.announce(domain.NotifyQuestComplete, "Quest complete!",
			fmt.Sprintf("%s — claim your reward", q.Text), now)
	}
	return next, completed, nil
}

// ClaimQuest claims a completed quest: marks it claimed, grants experience
// and gems, writes the ledger pair, and persists. Rejections leave every
// store untouched.
func (s *Service) ClaimQuest(questID string) (*domain.UserProfile, progression.ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load()
	if err != nil {
		return nil, progression.ClaimResult{}, err
	}

	next, result, err := progression.Claim(p, questID)
	if err != nil {
		metrics.ClaimsRejected.WithLabelValues(claimReason(err)).Inc()
		return nil, progression.ClaimResult{}, err
	}
	next, unlocked := progression.EvaluateBadges(next)

	// Ledger first: if the audit trail cannot be written the claim does
	// not happen.
	if result.Quest.RewardGems > 0 {
		if err := s.gems.Grant(result.Quest.RewardGems, questID, "quest reward: "+result.Quest.Text); err != nil {
			return nil, progression.ClaimResult{}, fmt.Errorf("ledger: %w", err)
		}
	}
	if err := s.db.SaveProfile(next); err != nil {
		return nil, progression.ClaimResult{}, err
	}

	metrics.QuestsClaimed.Inc()
	metrics.ExperienceGranted.WithLabelValues("quest").Add(float64(result.Quest.RewardExperience))
	metrics.GemsGranted.Add(float64(result.Quest.RewardGems))
	metrics.GemsBalance.Set(float64(next.Gems))
	if result.LevelUp.Leveled {
		metrics.LevelUps.Inc()
	}

	now := s.now()
	s.announceLevelUp(result.LevelUp, now)
	s.announceBadges(unlocked, now)
	return next, result, nil
}

// SubmitQuiz records a finished quiz: experience for correct answers,
// quiz_correct quest progress, the completed-quiz counter, a knowledge
// skill bump, and weak-point tracking for low scores.
func (s *Service) SubmitQuiz(topic string, correct, total int) (*domain.UserProfile, progression.LevelUp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if total <= 0 || correct < 0 || correct > total {
		return nil, progression.LevelUp{}, fmt.Errorf("invalid quiz result %d/%d", correct, total)
	}

	p, err := s.load()
	if err != nil {
		return nil, progression.LevelUp{}, err
	}

	next, _ := progression.RecordProgress(p, domain.QuestQuizCorrect, correct)
	next.CompletedQuizCount++
	next.Skills.Knowledge++
	next.Skills.CriticalThinking++

	score := float64(correct) / float64(total) * 100.0
	if score < 50.0 {
		upsertWeakPoint(next, topic, score)
	}

	next, lu := s.applyExperience(next, int64(correct)*10, "quiz")
	next, unlocked := progression.EvaluateBadges(next)
	if err := s.db.SaveProfile(next); err != nil {
		return nil, progression.LevelUp{}, err
	}
	metrics.QuestProgress.WithLabelValues(string(domain.QuestQuizCorrect)).Add(float64(correct))

	now := s.now()
	s.announceLevelUp(lu, now)
	s.announceBadges(unlocked, now)
	return next, lu, nil
}

// CompleteFocus records a finished focus-timer session: the history row,
// lifetime minutes, focus skill and discipline bumps, experience, and
// focus_time quest progress.
func (s *Service) CompleteFocus(subject string, minutes int) (*domain.UserProfile, *domain.FocusSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if minutes <= 0 {
		return nil, nil, fmt.Errorf("invalid focus duration %d", minutes)
	}

	p, err := s.load()
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	fs, err := s.db.RecordFocusSession(subject, minutes, now)
	if err != nil {
		return nil, nil, err
	}

	next, _ := progression.RecordProgress(p, domain.QuestFocusTime, minutes)
	next.LifetimeFocusMinutes += minutes
	next.Skills.Focus++
	next.Skills.Discipline++

	next, lu := s.applyExperience(next, int64(minutes)*2, "focus")
	next, unlocked := progression.EvaluateBadges(next)
	if err := s.db.SaveProfile(next); err != nil {
		return nil, nil, err
	}
	metrics.QuestProgress.WithLabelValues(string(domain.QuestFocusTime)).Add(float64(minutes))

	s.announceLevelUp(lu, now)
	s.announceBadges(unlocked, now)
	return next, fs, nil
}

// RecordAIInteraction advances ai_interaction quests by one. Called after
// each successful tutor or tool exchange.
func (s *Service) RecordAIInteraction() (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load()
	if err != nil {
		return nil, err
	}
	next, completed := progression.RecordProgress(p, domain.QuestAIInteraction, 1)
	next.Skills.Creativity++
	if err := s.db.SaveProfile(next); err != nil {
		return nil, err
	}
	metrics.QuestProgress.WithLabelValues(string(domain.QuestAIInteraction)).Inc()
	now := s.now()
	for _, q := range completed {
		s.announce(domain.NotifyQuestComplete, "Quest complete!",
			fmt.Sprintf("%s — claim your reward", q.Text), now)
	}
	return next, nil
}

func (s *Service) announceLevelUp(lu progression.LevelUp, now time.Time) {
	if !lu.Leveled {
		return
	}
	s.announce(domain.NotifyLevelUp, "Level up!",
		fmt.Sprintf("You are now %s %s", lu.Level.Icon, lu.NewTitle), now)
}

func (s *Service) announceBadges(unlocked []domain.BadgeDef, now time.Time) {
	for _, b := range unlocked {
		metrics.BadgesUnlocked.Inc()
		s.announce(domain.NotifyBadge, "Badge unlocked!",
			fmt.Sprintf("%s %s — %s", b.Icon, b.Name, b.Description), now)
	}
}

func (s *Service) announce(typ domain.NotificationType, title, body string, now time.Time) {
	if s.notify == nil {
		return
	}
	if _, err := s.notify.Create(typ, title, body, now); err != nil {
		log.Printf("[session] notification: %v", err)
	}
}

func upsertWeakPoint(p *domain.UserProfile, topic string, score float64) {
	if topic == "" {
		return
	}
	for i := range p.WeakPoints {
		if p.WeakPoints[i].Topic == topic {
			p.WeakPoints[i].Score = score
			return
		}
	}
	p.WeakPoints = append(p.WeakPoints, domain.WeakPoint{Topic: topic, Score: score})
}

// claimReason maps the detail sentinel wrapped inside ErrInvalidClaim to a
// metric label.
func claimReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuestNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrQuestAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, domain.ErrQuestIncomplete):
		return "incomplete"
	default:
		return "other"
	}
}
