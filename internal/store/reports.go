package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HasReport reports whether a task already has a report with the given
// status. The checker uses this as its idempotency guard; note it is a
// check-then-act, not a transaction, so overlapping checker runs could still
// duplicate a report.
func (s *Store) HasReport(ctx context.Context, taskID, status string) (bool, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM task_reports WHERE task_id=$1 AND status=$2
	`, taskID, status).Scan(&count)
	return count > 0, err
}

func (s *Store) InsertReport(ctx context.Context, r *TaskReport) error {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO task_reports (id, task_id, status, message, sent_to_operator, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, r.ID, r.TaskID, r.Status, r.Message, r.SentToOperator, r.CreatedAt)
	return err
}

// ReportsForAdmin returns reports on tasks the admin assigned.
func (s *Store) ReportsForAdmin(ctx context.Context, adminID string) ([]TaskReport, error) {
	return s.queryReports(ctx, `
		SELECT r.id, r.task_id, r.status, r.message, r.sent_to_operator, r.created_at
		FROM task_reports r
		JOIN tasks t ON t.id = r.task_id
		WHERE t.assigned_by=$1
		ORDER BY r.created_at DESC
	`, adminID)
}

// ReportsForOperator returns operator-directed reports on the operator's
// tasks.
func (s *Store) ReportsForOperator(ctx context.Context, operatorID string) ([]TaskReport, error) {
	return s.queryReports(ctx, `
		SELECT r.id, r.task_id, r.status, r.message, r.sent_to_operator, r.created_at
		FROM task_reports r
		JOIN tasks t ON t.id = r.task_id
		WHERE t.assigned_to=$1 AND r.sent_to_operator=TRUE
		ORDER BY r.created_at DESC
	`, operatorID)
}

func (s *Store) queryReports(ctx context.Context, query string, args ...any) ([]TaskReport, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []TaskReport
	for rows.Next() {
		var r TaskReport
		if err := rows.Scan(&r.ID, &r.TaskID, &r.Status, &r.Message, &r.SentToOperator, &r.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
