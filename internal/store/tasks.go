package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const taskColumns = `id, title, COALESCE(description,''), due_date, status, priority,
		assigned_by, assigned_to, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.Priority,
		&t.AssignedBy, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (s *Store) queryTasks(ctx context.Context, filterColumn, userID string) ([]Task, error) {
	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE %s=$1
		ORDER BY created_at DESC
	`, taskColumns, filterColumn), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// TasksAssignedBy returns the tasks an admin created.
func (s *Store) TasksAssignedBy(ctx context.Context, adminID string) ([]Task, error) {
	return s.queryTasks(ctx, "assigned_by", adminID)
}

// TasksAssignedTo returns the tasks assigned to an operator.
func (s *Store) TasksAssignedTo(ctx context.Context, operatorID string) ([]Task, error) {
	return s.queryTasks(ctx, "assigned_to", operatorID)
}

func (s *Store) Task(ctx context.Context, id string) (Task, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id=$1
	`, id)
	return scanTask(row)
}

// InsertTask fills in the id and timestamps before writing.
func (s *Store) InsertTask(ctx context.Context, t *Task) error {
	t.ID = uuid.NewString()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, due_date, status, priority,
			assigned_by, assigned_to, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, t.ID, t.Title, t.Description, t.DueDate, t.Status, t.Priority,
		t.AssignedBy, t.AssignedTo, t.CreatedAt, t.UpdatedAt)
	return err
}

// UpdateTaskFields applies a partial update. Keys are column names; the
// caller is responsible for only passing known columns. Returns the updated
// row.
func (s *Store) UpdateTaskFields(ctx context.Context, id string, fields map[string]any) (Task, error) {
	if len(fields) == 0 {
		return s.Task(ctx, id)
	}

	// Stable order so the generated SQL is deterministic.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		set = append(set, fmt.Sprintf("%s=$%d", k, i+1))
		args = append(args, fields[k])
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE tasks
		SET %s
		WHERE id=$%d
	`, strings.Join(set, ", "), len(args))

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return Task{}, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return Task{}, sql.ErrNoRows
	}
	return s.Task(ctx, id)
}

// SetTaskStatus updates the status and stamps updated_at.
func (s *Store) SetTaskStatus(ctx context.Context, id, status string) (Task, error) {
	return s.UpdateTaskFields(ctx, id, map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// OpenOrRecentTasks returns every pending or in_progress task, plus tasks
// completed since the given cutoff, joined with the profiles on both sides.
// This is the checker's working set.
func (s *Store) OpenOrRecentTasks(ctx context.Context, completedSince time.Time) ([]TaskWithProfiles, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT t.id, t.title, COALESCE(t.description,''), t.due_date, t.status, t.priority,
			t.assigned_by, t.assigned_to, t.created_at, t.updated_at,
			COALESCE(op.full_name,''), COALESCE(ad.full_name,'')
		FROM tasks t
		JOIN profiles op ON op.id = t.assigned_to
		JOIN profiles ad ON ad.id = t.assigned_by
		WHERE t.status IN ($1, $2)
		   OR (t.status = $3 AND t.updated_at >= $4)
		ORDER BY t.due_date
	`, StatusPending, StatusInProgress, StatusCompleted, completedSince)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []TaskWithProfiles
	for rows.Next() {
		var t TaskWithProfiles
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.Priority,
			&t.AssignedBy, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt,
			&t.AssignedToName, &t.AssignedByName,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// StatusCounts returns per-status task totals for the dashboard. The filter
// column is assigned_by for admins and assigned_to for operators.
func (s *Store) StatusCounts(ctx context.Context, role, userID string) (map[string]int, error) {
	column := "assigned_to"
	if role == RoleAdmin {
		column = "assigned_by"
	}

	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT status, COUNT(*)
		FROM tasks
		WHERE %s=$1
		GROUP BY status
	`, column), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
