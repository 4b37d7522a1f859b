package store

import "time"

// Roles gate every authorization check.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// Task status values. Transitions are not enforced centrally: operators move
// pending -> in_progress -> completed, the checker flips open tasks to
// overdue once their due date passes.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleOperator
}

type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	AssignedBy  string    `json:"assigned_by"`
	AssignedTo  string    `json:"assigned_to"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskWithProfiles carries the joined profile names the checker needs for
// report phrasing.
type TaskWithProfiles struct {
	Task
	AssignedToName string `json:"assigned_to_name"`
	AssignedByName string `json:"assigned_by_name"`
}

type TaskReport struct {
	ID             string    `json:"id"`
	TaskID         string    `json:"task_id"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	SentToOperator bool      `json:"sent_to_operator"`
	CreatedAt      time.Time `json:"created_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	TaskID    *string   `json:"task_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
