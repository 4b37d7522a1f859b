package checker

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"taskdesk-backend/internal/ai"
	"taskdesk-backend/internal/analytics"
	"taskdesk-backend/internal/logging"
	"taskdesk-backend/internal/store"
)

// Store is the slice of the repository the checker needs.
type Store interface {
	OpenOrRecentTasks(ctx context.Context, completedSince time.Time) ([]store.TaskWithProfiles, error)
	HasReport(ctx context.Context, taskID, status string) (bool, error)
	InsertReport(ctx context.Context, r *store.TaskReport) error
	SetTaskStatus(ctx context.Context, id, status string) (store.Task, error)
}

// Checker scans open tasks, flips overdue ones and emits task reports. It is
// driven by an external scheduler hitting its HTTP endpoints; idempotency for
// completion reports rests on an existence check, so overlapping runs can
// still race.
type Checker struct {
	Store Store
	Gen   ai.Generator
	DB    *sql.DB // analytics sink, may be nil

	// Now is a clock hook for tests. Defaults to time.Now.
	Now func() time.Time
}

func New(st Store, gen ai.Generator, db *sql.DB) *Checker {
	return &Checker{Store: st, Gen: gen, DB: db}
}

func (c *Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// generate phrases a report message; a model failure degrades to the canned
// fallback so the report is still written.
func (c *Checker) generate(ctx context.Context, prompt, fallback string) string {
	msg, err := c.Gen.GenerateContent(ctx, prompt)
	if err != nil {
		logging.Logger.Warnf("checker: report generation failed: %v", err)
		return fallback
	}
	return msg
}

// Run performs one scan. Per-task report failures are logged and skipped so
// one bad task does not starve the rest of the run.
func (c *Checker) Run(ctx context.Context) ([]store.TaskReport, error) {
	now := c.now()

	tasks, err := c.Store.OpenOrRecentTasks(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	reports := []store.TaskReport{}

	for _, task := range tasks {
		switch {
		case task.Status == store.StatusCompleted:
			report, err := c.completedReport(ctx, task)
			if err != nil {
				logging.Logger.Warnf("checker: completion report for task %s failed: %v", task.ID, err)
				continue
			}
			if report != nil {
				reports = append(reports, *report)
			}

		case task.DueDate.Before(now) && task.Status != store.StatusOverdue:
			report, err := c.overdueReport(ctx, task)
			if err != nil {
				logging.Logger.Warnf("checker: overdue report for task %s failed: %v", task.ID, err)
				continue
			}
			reports = append(reports, *report)

		case sameDay(task.DueDate, now):
			report, err := c.dueTodayReport(ctx, task)
			if err != nil {
				logging.Logger.Warnf("checker: due-today report for task %s failed: %v", task.ID, err)
				continue
			}
			reports = append(reports, *report)
		}
	}

	analytics.Log(ctx, c.DB, "checker_run", map[string]any{
		"scanned": len(tasks),
		"reports": len(reports),
	})

	return reports, nil
}

// completedReport congratulates the admin once per task. Returns nil when a
// completion report already exists.
func (c *Checker) completedReport(ctx context.Context, task store.TaskWithProfiles) (*store.TaskReport, error) {
	exists, err := c.Store.HasReport(ctx, task.ID, store.StatusCompleted)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	message := c.generate(ctx,
		ai.CompletedReportPrompt(task.AssignedByName, task.AssignedToName, task.Title),
		fmt.Sprintf("Great news: %s completed the task %q.", task.AssignedToName, task.Title),
	)

	report := &store.TaskReport{
		TaskID:         task.ID,
		Status:         store.StatusCompleted,
		Message:        message,
		SentToOperator: false, // this report is for the admin
	}
	if err := c.Store.InsertReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// overdueReport flips the task to overdue and reminds the operator.
func (c *Checker) overdueReport(ctx context.Context, task store.TaskWithProfiles) (*store.TaskReport, error) {
	if _, err := c.Store.SetTaskStatus(ctx, task.ID, store.StatusOverdue); err != nil {
		return nil, err
	}

	message := c.generate(ctx,
		ai.OverdueReportPrompt(task.AssignedToName, task.Title, task.DueDate),
		fmt.Sprintf("The task %q was due on %s and is now overdue. Please complete it as soon as possible.", task.Title, task.DueDate.Format("January 2, 2006")),
	)

	report := &store.TaskReport{
		TaskID:         task.ID,
		Status:         store.StatusOverdue,
		Message:        message,
		SentToOperator: true,
	}
	if err := c.Store.InsertReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// dueTodayReport reminds the operator on the due day. Not suppressed across
// multiple runs within the same day.
func (c *Checker) dueTodayReport(ctx context.Context, task store.TaskWithProfiles) (*store.TaskReport, error) {
	message := c.generate(ctx,
		ai.DueTodayReportPrompt(task.AssignedToName, task.Title),
		fmt.Sprintf("Reminder: the task %q is due today.", task.Title),
	)

	report := &store.TaskReport{
		TaskID:         task.ID,
		Status:         task.Status,
		Message:        message,
		SentToOperator: true,
	}
	if err := c.Store.InsertReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ------------------------------------------------------------------
// HTTP handlers
// ------------------------------------------------------------------

type runResult struct {
	Success bool               `json:"success"`
	Reports []store.TaskReport `json:"reports,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func (c *Checker) writeRun(w http.ResponseWriter, r *http.Request) {
	reports, err := c.Run(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		logging.Logger.Errorf("checker: run failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(runResult{Success: false, Error: "Failed to check tasks"})
		return
	}
	_ = json.NewEncoder(w).Encode(runResult{Success: true, Reports: reports})
}

// CheckTasks handles GET /api/bot/check-tasks.
func (c *Checker) CheckTasks(w http.ResponseWriter, r *http.Request) {
	c.writeRun(w, r)
}

// DailyCheck handles GET /api/cron/daily-check, the endpoint an external
// time-based trigger is pointed at. It invokes the same run directly rather
// than making an HTTP round trip to CheckTasks.
func (c *Checker) DailyCheck(w http.ResponseWriter, r *http.Request) {
	c.writeRun(w, r)
}
