package tasks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"taskdesk-backend/internal/auth"
	"taskdesk-backend/internal/logging"
	"taskdesk-backend/internal/notifications"
	"taskdesk-backend/internal/store"
)

type Handler struct {
	Store    *store.Store
	Notifier *notifications.Service
}

func New(st *store.Store, notifier *notifications.Service) *Handler {
	return &Handler{Store: st, Notifier: notifier}
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) (store.Profile, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return store.Profile{}, false
	}
	profile, err := h.Store.Profile(r.Context(), userID)
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return store.Profile{}, false
	}
	return profile, true
}

// visible reports whether the caller may see the task: admins see what they
// assigned, operators what is assigned to them.
func visible(p store.Profile, t store.Task) bool {
	if p.Role == store.RoleAdmin {
		return t.AssignedBy == p.ID
	}
	return t.AssignedTo == p.ID
}

// ------------------------------------------------------------------
// GET /api/tasks
// ------------------------------------------------------------------

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profile(w, r)
	if !ok {
		return
	}

	var tasks []store.Task
	var err error
	if profile.Role == store.RoleAdmin {
		tasks, err = h.Store.TasksAssignedBy(r.Context(), profile.ID)
	} else {
		tasks, err = h.Store.TasksAssignedTo(r.Context(), profile.ID)
	}
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []store.Task{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tasks)
}

// ------------------------------------------------------------------
// GET /api/tasks/{id}
// ------------------------------------------------------------------

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profile(w, r)
	if !ok {
		return
	}

	task, err := h.Store.Task(r.Context(), mux.Vars(r)["id"])
	if err != nil || !visible(profile, task) {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(task)
}

// ------------------------------------------------------------------
// POST /api/tasks
// ------------------------------------------------------------------

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profile(w, r)
	if !ok {
		return
	}
	if profile.Role != store.RoleAdmin {
		http.Error(w, "only admins can create tasks", http.StatusForbidden)
		return
	}

	var body struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		DueDate     time.Time `json:"due_date"`
		Priority    string    `json:"priority"`
		AssignedTo  string    `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if body.Title == "" || body.DueDate.IsZero() || body.AssignedTo == "" {
		http.Error(w, "title, due_date and assigned_to are required", http.StatusBadRequest)
		return
	}
	if !store.ValidPriority(body.Priority) {
		body.Priority = store.PriorityMedium
	}

	task := store.Task{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Status:      store.StatusPending,
		Priority:    body.Priority,
		AssignedBy:  profile.ID,
		AssignedTo:  body.AssignedTo,
	}
	if err := h.Store.InsertTask(r.Context(), &task); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Follow-up notification, not atomic with the insert.
	h.Notifier.Send(r.Context(), task.AssignedTo,
		"New Task Assigned!",
		fmt.Sprintf("You have been assigned a new task: %q. Due: %s.", task.Title, task.DueDate.Format("January 2, 2006")),
		task.ID,
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(task)
}

// ------------------------------------------------------------------
// PUT /api/tasks/{id}
// ------------------------------------------------------------------

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profile(w, r)
	if !ok {
		return
	}
	if profile.Role != store.RoleAdmin {
		http.Error(w, "only admins can edit tasks", http.StatusForbidden)
		return
	}

	taskID := mux.Vars(r)["id"]
	existing, err := h.Store.Task(r.Context(), taskID)
	if err != nil || existing.AssignedBy != profile.ID {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	var body struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		DueDate     time.Time `json:"due_date"`
		Priority    string    `json:"priority"`
		AssignedTo  string    `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if body.Title == "" || body.DueDate.IsZero() || body.AssignedTo == "" {
		http.Error(w, "title, due_date and assigned_to are required", http.StatusBadRequest)
		return
	}
	if !store.ValidPriority(body.Priority) {
		body.Priority = store.PriorityMedium
	}

	task, err := h.Store.UpdateTaskFields(r.Context(), taskID, map[string]any{
		"title":       body.Title,
		"description": body.Description,
		"due_date":    body.DueDate,
		"priority":    body.Priority,
		"assigned_to": body.AssignedTo,
		"updated_at":  time.Now().UTC(),
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.Notifier.Send(r.Context(), task.AssignedTo,
		"Task Updated!",
		fmt.Sprintf("Task %q has been updated and assigned to you.", task.Title),
		task.ID,
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(task)
}

// ------------------------------------------------------------------
// POST /api/tasks/{id}/status
// ------------------------------------------------------------------

// SetStatus is the operator flow: update status, append a task report, then
// notify the assigning admin. The three writes are not atomic.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profile(w, r)
	if !ok {
		return
	}

	taskID := mux.Vars(r)["id"]
	existing, err := h.Store.Task(r.Context(), taskID)
	if err != nil || !visible(profile, existing) {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	var body struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if !store.ValidStatus(body.Status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	task, err := h.Store.SetTaskStatus(r.Context(), taskID, body.Status)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	message := body.Comment
	if message == "" {
		message = "Task status updated to " + body.Status
	}
	report := store.TaskReport{
		TaskID:         task.ID,
		Status:         body.Status,
		Message:        message,
		SentToOperator: false, // operator reporting back to the admin
	}
	if err := h.Store.InsertReport(r.Context(), &report); err != nil {
		logging.Logger.Warnf("tasks: status report for %s failed: %v", task.ID, err)
	}

	notification := fmt.Sprintf("Task %q status changed to: %s.", task.Title, strings.ReplaceAll(body.Status, "_", " "))
	if body.Comment != "" {
		notification += fmt.Sprintf(" Comment: %q", body.Comment)
	}
	h.Notifier.Send(r.Context(), task.AssignedBy,
		"Task Update: "+task.Title,
		notification,
		task.ID,
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(task)
}

// ------------------------------------------------------------------
// DELETE /api/tasks/{id}
// ------------------------------------------------------------------

// Delete is restricted to the admin who assigned the task.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profile(w, r)
	if !ok {
		return
	}
	if profile.Role != store.RoleAdmin {
		http.Error(w, "only admins can delete tasks", http.StatusForbidden)
		return
	}

	taskID := mux.Vars(r)["id"]
	task, err := h.Store.Task(r.Context(), taskID)
	if err != nil || task.AssignedBy != profile.ID {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	if err := h.Store.DeleteTask(r.Context(), taskID); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}

// ------------------------------------------------------------------
// GET /api/dashboard/summary
// ------------------------------------------------------------------

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profile(w, r)
	if !ok {
		return
	}

	counts, err := h.Store.StatusCounts(r.Context(), profile.Role, profile.ID)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total":       total,
		"pending":     counts[store.StatusPending],
		"in_progress": counts[store.StatusInProgress],
		"completed":   counts[store.StatusCompleted],
		"overdue":     counts[store.StatusOverdue],
	})
}
