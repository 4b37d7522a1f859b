package bot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"taskdesk-backend/internal/ai"
	"taskdesk-backend/internal/analytics"
	"taskdesk-backend/internal/auth"
	"taskdesk-backend/internal/logging"
	"taskdesk-backend/internal/store"
)

// Store is the slice of the repository the bot needs.
type Store interface {
	Profile(ctx context.Context, id string) (store.Profile, error)
	Operators(ctx context.Context) ([]store.Profile, error)
	TasksAssignedBy(ctx context.Context, adminID string) ([]store.Task, error)
	TasksAssignedTo(ctx context.Context, operatorID string) ([]store.Task, error)
	InsertTask(ctx context.Context, t *store.Task) error
	UpdateTaskFields(ctx context.Context, id string, fields map[string]any) (store.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type Bot struct {
	Store Store
	Gen   ai.Generator
	DB    *sql.DB // analytics sink, may be nil

	// Now is a clock hook for tests. Defaults to time.Now.
	Now func() time.Time
}

func New(st Store, gen ai.Generator, db *sql.DB) *Bot {
	return &Bot{Store: st, Gen: gen, DB: db}
}

func (b *Bot) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// ChatResponse is the conversational endpoint's success envelope. Mutation
// failures inside command handlers are folded into Response rather than an
// error status.
type ChatResponse struct {
	Response string      `json:"response"`
	Action   string      `json:"action,omitempty"`
	Task     *store.Task `json:"task,omitempty"`
	TaskID   string      `json:"taskId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Chat handles POST /api/bot/chat.
func (b *Bot) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Message string `json:"message"`
		Role    string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()

	profile, err := b.Store.Profile(ctx, userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "User profile not found")
		return
	}

	// Task context for the model. A fetch failure degrades to an empty
	// context rather than failing the chat.
	var tasks []store.Task
	if profile.Role == store.RoleAdmin {
		tasks, err = b.Store.TasksAssignedBy(ctx, userID)
	} else {
		tasks, err = b.Store.TasksAssignedTo(ctx, userID)
	}
	if err != nil {
		logging.Logger.Warnf("bot: failed to load tasks for %s: %v", userID, err)
		tasks = nil
	}

	var operators []store.Profile
	if profile.Role == store.RoleAdmin {
		operators, err = b.Store.Operators(ctx)
		if err != nil {
			logging.Logger.Warnf("bot: failed to load operators: %v", err)
			operators = nil
		}
	}

	// Admin messages go through command classification first.
	if profile.Role == store.RoleAdmin {
		names := make([]string, len(operators))
		for i, op := range operators {
			names[i] = op.FullName
		}

		cmd, err := ParseCommand(ctx, b.Gen, body.Message, names, b.now())
		if err != nil {
			logging.Logger.Errorf("bot: command classification failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to process message")
			return
		}

		analytics.Log(ctx, b.DB, "bot_command_parsed", map[string]any{
			"command_type": cmd.CommandType,
		})

		switch cmd.CommandType {
		case CommandCreate:
			writeJSON(w, http.StatusOK, b.handleCreate(ctx, userID, cmd.TaskData, operators))
			return
		case CommandUpdate:
			writeJSON(w, http.StatusOK, b.handleUpdate(ctx, cmd.TaskData, tasks, operators))
			return
		case CommandDelete:
			writeJSON(w, http.StatusOK, b.handleDelete(ctx, cmd.TaskData, tasks))
			return
		}
	}

	// Not a command, or not an admin: regular chat.
	taskLines := make([]string, len(tasks))
	for i, t := range tasks {
		taskLines[i] = ai.TaskLine(t.Title, t.Status, t.DueDate)
	}

	prompt := ai.ChatPrompt(profile.Role, profile.FullName, body.Message, taskLines, b.now())
	response, err := b.Gen.GenerateContent(ctx, prompt)
	if err != nil {
		logging.Logger.Errorf("bot: chat generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: response})
}

// confirm runs the cosmetic confirmation call. Its failure must not undo a
// mutation that already committed, so it degrades to canned text.
func (b *Bot) confirm(ctx context.Context, prompt, fallback string) string {
	msg, err := b.Gen.GenerateContent(ctx, prompt)
	if err != nil {
		logging.Logger.Warnf("bot: confirmation generation failed: %v", err)
		return fallback
	}
	return msg
}

func (b *Bot) handleCreate(ctx context.Context, userID string, data TaskData, operators []store.Profile) ChatResponse {
	var operatorID, operatorName string
	if op, ok := MatchOperator(operators, data.AssignedOperator); ok {
		operatorID, operatorName = op.ID, op.FullName
	}

	// Fallback: first operator in the list. Arbitrary, not validated.
	if operatorID == "" && len(operators) > 0 {
		operatorID, operatorName = operators[0].ID, operators[0].FullName
	}

	if operatorID == "" {
		return ChatResponse{
			Response: "I couldn't find an operator to assign this task to. Please specify an operator name or add operators to the system first.",
		}
	}

	now := b.now()
	due, ok := ResolveDueDate(data.DueDate, now)
	if !ok {
		due = now.AddDate(0, 0, 7)
	}

	title := data.Title
	if title == "" {
		title = "New Task"
	}
	priority := data.Priority
	if !store.ValidPriority(priority) {
		priority = store.PriorityMedium
	}

	task := &store.Task{
		Title:       title,
		Description: data.Description,
		DueDate:     due,
		Status:      store.StatusPending,
		Priority:    priority,
		AssignedBy:  userID,
		AssignedTo:  operatorID,
	}

	if err := b.Store.InsertTask(ctx, task); err != nil {
		logging.Logger.Errorf("bot: create task failed: %v", err)
		return ChatResponse{
			Response: fmt.Sprintf("I encountered an error while trying to create the task: %v. Please try again with clearer instructions.", err),
		}
	}

	analytics.Log(ctx, b.DB, "bot_task_created", map[string]any{"task_id": task.ID})

	msg := b.confirm(ctx,
		ai.CreateConfirmationPrompt(title, due, priority, operatorName),
		fmt.Sprintf("Task %q has been created and assigned to %s, due %s.", title, operatorName, due.Format("January 2, 2006")),
	)

	return ChatResponse{Response: msg, Action: "create_task", Task: task}
}

func (b *Bot) handleUpdate(ctx context.Context, data TaskData, tasks []store.Task, operators []store.Profile) ChatResponse {
	target, ok := MatchTask(tasks, data.TaskID, data.Title)
	if !ok {
		return ChatResponse{
			Response: "I couldn't find the task you want to update. Please specify the task title more clearly.",
		}
	}

	updates := map[string]any{}
	var changes []string

	if data.Title != "" && data.Title != target.Title {
		updates["title"] = data.Title
		changes = append(changes, "- New title: "+data.Title)
	}
	if data.Description != "" {
		updates["description"] = data.Description
	}
	if data.Status != "" && store.ValidStatus(data.Status) {
		updates["status"] = data.Status
		changes = append(changes, "- New status: "+data.Status)
	}
	if data.Priority != "" && store.ValidPriority(data.Priority) {
		updates["priority"] = data.Priority
		changes = append(changes, "- New priority: "+data.Priority)
	}
	if data.DueDate != "" {
		// Unparseable due dates leave the field unchanged.
		if due, ok := ResolveDueDate(data.DueDate, b.now()); ok {
			updates["due_date"] = due
			changes = append(changes, "- New due date: "+due.Format("January 2, 2006"))
		}
	}
	if data.AssignedOperator != "" {
		if op, ok := MatchOperator(operators, data.AssignedOperator); ok {
			updates["assigned_to"] = op.ID
			changes = append(changes, "- Newly assigned to: "+op.FullName)
		}
	}

	if len(updates) == 0 {
		return ChatResponse{
			Response: "I didn't detect any changes to make to the task. Please specify what you want to update.",
		}
	}

	updates["updated_at"] = b.now().UTC()

	updated, err := b.Store.UpdateTaskFields(ctx, target.ID, updates)
	if err != nil {
		logging.Logger.Errorf("bot: update task %s failed: %v", target.ID, err)
		return ChatResponse{
			Response: fmt.Sprintf("I encountered an error while trying to update the task: %v. Please try again with clearer instructions.", err),
		}
	}

	analytics.Log(ctx, b.DB, "bot_task_updated", map[string]any{"task_id": target.ID})

	msg := b.confirm(ctx,
		ai.UpdateConfirmationPrompt(target.Title, changes),
		fmt.Sprintf("Task %q has been updated.", target.Title),
	)

	return ChatResponse{Response: msg, Action: "update_task", Task: &updated}
}

func (b *Bot) handleDelete(ctx context.Context, data TaskData, tasks []store.Task) ChatResponse {
	target, ok := MatchTask(tasks, data.TaskID, data.Title)
	if !ok {
		return ChatResponse{
			Response: "I couldn't find the task you want to delete. Please specify the task title more clearly.",
		}
	}

	if err := b.Store.DeleteTask(ctx, target.ID); err != nil {
		logging.Logger.Errorf("bot: delete task %s failed: %v", target.ID, err)
		return ChatResponse{
			Response: fmt.Sprintf("I encountered an error while trying to delete the task: %v. Please try again with clearer instructions.", err),
		}
	}

	analytics.Log(ctx, b.DB, "bot_task_deleted", map[string]any{"task_id": target.ID})

	msg := b.confirm(ctx,
		ai.DeleteConfirmationPrompt(target.Title),
		fmt.Sprintf("Task %q has been deleted.", target.Title),
	)

	return ChatResponse{Response: msg, Action: "delete_task", TaskID: target.ID}
}
