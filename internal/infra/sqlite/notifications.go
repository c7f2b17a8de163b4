package sqlite

import (
	"fmt"
	"time"

	"github.com/studygram-app/studygram/internal/domain"
)

// AddNotification stores a new notification and returns it with its id.
func (d *DB) AddNotification(n domain.Notification) (*domain.Notification, error) {
	res, err := d.db.Exec(
		`INSERT INTO notifications (type, title, body, created_at, shown) VALUES (?, ?, ?, ?, 0)`,
		string(n.Type), n.Title, n.Body, n.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("add notification: %w", err)
	}
	n.ID, _ = res.LastInsertId()
	return &n, nil
}

// UnshownNotifications returns pending notifications, oldest first.
func (d *DB) UnshownNotifications() ([]domain.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, type, title, body, created_at, shown FROM notifications
		 WHERE shown = 0 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("unshown notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var created int64
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &created, &n.Shown); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.CreatedAt = time.Unix(created, 0)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationsShown flags the given ids as delivered.
func (d *DB) MarkNotificationsShown(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("mark shown: %w", err)
	}
	defer tx.Rollback()
	for _, id := range ids {
		if _, err := tx.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id); err != nil {
			return fmt.Errorf("mark shown %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// NotificationCountSince counts notifications created at or after the cutoff,
// shown or not. Used to enforce the daily cap.
func (d *DB) NotificationCountSince(cutoff time.Time) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE created_at >= ?`, cutoff.Unix(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("notification count: %w", err)
	}
	return count, nil
}
