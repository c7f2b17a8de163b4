package sqlite

import (
	"fmt"
	"time"

	"github.com/studygram-app/studygram/internal/domain"
)

// RecordFocusSession stores a completed focus-timer run and returns it
// with the assigned id.
func (d *DB) RecordFocusSession(subject string, minutes int, completedAt time.Time) (*domain.FocusSession, error) {
	res, err := d.db.Exec(
		`INSERT INTO focus_sessions (subject, minutes, completed_at) VALUES (?, ?, ?)`,
		subject, minutes, completedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("record focus session: %w", err)
	}
	id, _ := res.LastInsertId()
	return &domain.FocusSession{
		ID: id, Subject: subject, Minutes: minutes, CompletedAt: completedAt,
	}, nil
}

// ListFocusSessions returns recent sessions, newest first.
func (d *DB) ListFocusSessions(limit int) ([]domain.FocusSession, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT id, subject, minutes, completed_at FROM focus_sessions
		 ORDER BY completed_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list focus sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.FocusSession
	for rows.Next() {
		var s domain.FocusSession
		var completed int64
		if err := rows.Scan(&s.ID, &s.Subject, &s.Minutes, &completed); err != nil {
			return nil, fmt.Errorf("scan focus session: %w", err)
		}
		s.CompletedAt = time.Unix(completed, 0)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// FocusMinutesSince sums focus minutes completed at or after the cutoff.
func (d *DB) FocusMinutesSince(cutoff time.Time) (int, error) {
	var total int
	err := d.db.QueryRow(
		`SELECT COALESCE(SUM(minutes), 0) FROM focus_sessions WHERE completed_at >= ?`,
		cutoff.Unix(),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("focus minutes since: %w", err)
	}
	return total, nil
}
