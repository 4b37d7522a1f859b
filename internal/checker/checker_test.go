package checker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk-backend/internal/store"
)

type fakeGen struct {
	response string
	err      error
	calls    int
}

func (g *fakeGen) GenerateContent(context.Context, string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

type fakeCheckerStore struct {
	tasks   []store.TaskWithProfiles
	reports []store.TaskReport

	tasksErr  error
	insertErr error
}

func (s *fakeCheckerStore) OpenOrRecentTasks(context.Context, time.Time) ([]store.TaskWithProfiles, error) {
	if s.tasksErr != nil {
		return nil, s.tasksErr
	}
	return s.tasks, nil
}

func (s *fakeCheckerStore) HasReport(_ context.Context, taskID, status string) (bool, error) {
	for _, r := range s.reports {
		if r.TaskID == taskID && r.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeCheckerStore) InsertReport(_ context.Context, r *store.TaskReport) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.reports = append(s.reports, *r)
	return nil
}

func (s *fakeCheckerStore) SetTaskStatus(_ context.Context, id, status string) (store.Task, error) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Status = status
			return s.tasks[i].Task, nil
		}
	}
	return store.Task{}, errors.New("not found")
}

var checkNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func checkTask(id, status string, due time.Time) store.TaskWithProfiles {
	return store.TaskWithProfiles{
		Task: store.Task{
			ID: id, Title: "Task " + id, Status: status, DueDate: due,
			AssignedBy: "admin-1", AssignedTo: "op-1",
		},
		AssignedByName: "Dana Admin",
		AssignedToName: "Alice Johnson",
	}
}

func newChecker(st Store, gen *fakeGen) *Checker {
	c := New(st, gen, nil)
	c.Now = func() time.Time { return checkNow }
	return c
}

func TestRunOverdueTask(t *testing.T) {
	st := &fakeCheckerStore{tasks: []store.TaskWithProfiles{
		checkTask("t-1", store.StatusPending, checkNow.AddDate(0, 0, -2)),
	}}
	gen := &fakeGen{response: "You missed the deadline for Task t-1."}
	c := newChecker(st, gen)

	reports, err := c.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, reports, 1)
	assert.Equal(t, "t-1", reports[0].TaskID)
	assert.Equal(t, store.StatusOverdue, reports[0].Status)
	assert.True(t, reports[0].SentToOperator)
	assert.Equal(t, "You missed the deadline for Task t-1.", reports[0].Message)

	// The task itself was flipped.
	assert.Equal(t, store.StatusOverdue, st.tasks[0].Status)

	// A second run sees the task already overdue and writes nothing new.
	reports, err = c.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Len(t, st.reports, 1)
}

func TestRunCompletedTaskIdempotent(t *testing.T) {
	st := &fakeCheckerStore{tasks: []store.TaskWithProfiles{
		checkTask("t-1", store.StatusCompleted, checkNow.AddDate(0, 0, -1)),
	}}
	gen := &fakeGen{response: "Alice finished the task, nice work!"}
	c := newChecker(st, gen)

	reports, err := c.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, reports, 1)
	assert.Equal(t, store.StatusCompleted, reports[0].Status)
	assert.False(t, reports[0].SentToOperator)

	// Completion reports are one-shot: the existence check suppresses a
	// second one.
	reports, err = c.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Len(t, st.reports, 1)
}

func TestRunDueTodayTask(t *testing.T) {
	st := &fakeCheckerStore{tasks: []store.TaskWithProfiles{
		checkTask("t-1", store.StatusInProgress, checkNow.Add(3*time.Hour)),
	}}
	gen := &fakeGen{response: "Heads up, Task t-1 is due today."}
	c := newChecker(st, gen)

	reports, err := c.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, reports, 1)
	assert.Equal(t, store.StatusInProgress, reports[0].Status)
	assert.True(t, reports[0].SentToOperator)
	assert.Equal(t, store.StatusInProgress, st.tasks[0].Status)
}

func TestRunGenerationFailureUsesFallback(t *testing.T) {
	st := &fakeCheckerStore{tasks: []store.TaskWithProfiles{
		checkTask("t-1", store.StatusPending, checkNow.AddDate(0, 0, -1)),
	}}
	gen := &fakeGen{err: errors.New("model unavailable")}
	c := newChecker(st, gen)

	reports, err := c.Run(context.Background())
	require.NoError(t, err)

	// The report still lands, carrying the canned message.
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0].Message, "now overdue")
}

func TestRunSkipsFailingTask(t *testing.T) {
	st := &fakeCheckerStore{
		tasks: []store.TaskWithProfiles{
			checkTask("t-1", store.StatusPending, checkNow.AddDate(0, 0, -1)),
		},
		insertErr: errors.New("db down"),
	}
	gen := &fakeGen{response: "whatever"}
	c := newChecker(st, gen)

	reports, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestCheckTasksHandler(t *testing.T) {
	st := &fakeCheckerStore{tasks: []store.TaskWithProfiles{
		checkTask("t-1", store.StatusPending, checkNow.AddDate(0, 0, -1)),
	}}
	gen := &fakeGen{response: "overdue!"}
	c := newChecker(st, gen)

	rec := httptest.NewRecorder()
	c.CheckTasks(rec, httptest.NewRequest(http.MethodGet, "/api/bot/check-tasks", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var res runResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.True(t, res.Success)
	require.Len(t, res.Reports, 1)
	assert.Equal(t, "t-1", res.Reports[0].TaskID)
}

func TestCheckTasksHandlerFailure(t *testing.T) {
	st := &fakeCheckerStore{tasksErr: errors.New("db down")}
	c := newChecker(st, &fakeGen{})

	rec := httptest.NewRecorder()
	c.DailyCheck(rec, httptest.NewRequest(http.MethodGet, "/api/cron/daily-check", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var res runResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to check tasks", res.Error)
}
