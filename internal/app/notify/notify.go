// Package notify manages user-facing notifications under a calm policy:
// a daily cap, quiet-hour suppression, and a short allowlist of event
// types (level up, badge unlock, quest complete, streak, daily reset).
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/studygram-app/studygram/internal/domain"
	"github.com/studygram-app/studygram/internal/infra/sqlite"
)

// Service creates and delivers notifications.
type Service struct {
	db     *sqlite.DB
	policy domain.NotificationPolicy
}

// NewService creates a notification service with the default policy.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db, policy: domain.DefaultNotificationPolicy()}
}

// NewServiceWithPolicy creates a notification service with a custom policy.
func NewServiceWithPolicy(db *sqlite.DB, policy domain.NotificationPolicy) *Service {
	return &Service{db: db, policy: policy}
}

// Create stores a notification if the policy allows it at the given time.
// Returns the stored notification, or nil when suppressed.
func (s *Service) Create(typ domain.NotificationType, title, body string, at time.Time) (*domain.Notification, error) {
	startOfDay := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	todayCount, err := s.db.NotificationCountSince(startOfDay)
	if err != nil {
		return nil, fmt.Errorf("count today: %w", err)
	}
	if todayCount >= s.policy.MaxPerDay {
		return nil, nil // Suppressed: daily limit reached
	}
	if s.isQuietHour(at) {
		return nil, nil // Suppressed: quiet hours
	}

	return s.db.AddNotification(domain.Notification{
		Type:      typ,
		Title:     title,
		Body:      body,
		CreatedAt: at,
	})
}

// Pending returns unshown notifications, oldest first.
func (s *Service) Pending() ([]domain.Notification, error) {
	return s.db.UnshownNotifications()
}

// MarkShown flags notifications as delivered.
func (s *Service) MarkShown(ids []int64) error {
	return s.db.MarkNotificationsShown(ids)
}

// Policy returns the active policy.
func (s *Service) Policy() domain.NotificationPolicy {
	return s.policy
}

// isQuietHour reports whether t falls inside the quiet window.
func (s *Service) isQuietHour(t time.Time) bool {
	startHour, startMin := parseHHMM(s.policy.QuietStart)
	endHour, endMin := parseHHMM(s.policy.QuietEnd)

	timeMinutes := t.Hour()*60 + t.Minute()
	startMinutes := startHour*60 + startMin
	endMinutes := endHour*60 + endMin

	if startMinutes > endMinutes {
		// Wraps midnight: e.g., 22:00 – 08:00
		return timeMinutes >= startMinutes || timeMinutes < endMinutes
	}
	return timeMinutes >= startMinutes && timeMinutes < endMinutes
}

// parseHHMM parses "HH:MM" into hour and minute, zero on malformed input.
func parseHHMM(s string) (hour, min int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	hour, _ = strconv.Atoi(parts[0])
	min, _ = strconv.Atoi(parts[1])
	return hour, min
}
