package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

func (s *Store) InsertNotification(ctx context.Context, n *Notification) error {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, task_id, is_read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, n.ID, n.UserID, n.Title, n.Message, nullableString(n.TaskID), n.IsRead, n.CreatedAt)
	return err
}

// NotificationsFor returns the user's notifications, newest first.
func (s *Store) NotificationsFor(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, title, message, task_id, is_read, created_at
		FROM notifications
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		var taskID sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &taskID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if taskID.Valid {
			n.TaskID = &taskID.String
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead is scoped by user id so one user cannot touch
// another's notifications.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID string) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2
	`, id, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE notifications SET is_read=TRUE WHERE user_id=$1 AND is_read=FALSE
	`, userID)
	return err
}

func nullableString(v *string) sql.NullString {
	if v == nil || *v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
