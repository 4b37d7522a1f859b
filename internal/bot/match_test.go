package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk-backend/internal/store"
)

var testOperators = []store.Profile{
	{ID: "op-1", FullName: "Alice Johnson", Role: store.RoleOperator},
	{ID: "op-2", FullName: "Bob Smith", Role: store.RoleOperator},
	{ID: "op-3", FullName: "Bobby Tables", Role: store.RoleOperator},
}

func TestMatchOperator(t *testing.T) {
	op, ok := MatchOperator(testOperators, "bob")
	require.True(t, ok)
	// Substring matching, first match wins: "bob" hits Bob Smith before
	// Bobby Tables.
	assert.Equal(t, "op-2", op.ID)

	op, ok = MatchOperator(testOperators, "ALICE")
	require.True(t, ok)
	assert.Equal(t, "op-1", op.ID)

	op, ok = MatchOperator(testOperators, "johnson")
	require.True(t, ok)
	assert.Equal(t, "op-1", op.ID)

	_, ok = MatchOperator(testOperators, "charlie")
	assert.False(t, ok)

	_, ok = MatchOperator(testOperators, "")
	assert.False(t, ok)

	_, ok = MatchOperator(nil, "bob")
	assert.False(t, ok)
}

func TestMatchTask(t *testing.T) {
	tasks := []store.Task{
		{ID: "t-1", Title: "Ship the quarterly report"},
		{ID: "t-2", Title: "Review pull requests"},
		{ID: "t-3", Title: "Report server incident"},
	}

	got, ok := MatchTask(tasks, "t-2", "")
	require.True(t, ok)
	assert.Equal(t, "t-2", got.ID)

	// Id takes precedence over a title that would match another task.
	got, ok = MatchTask(tasks, "t-2", "report")
	require.True(t, ok)
	assert.Equal(t, "t-2", got.ID)

	// Unknown id falls through to the title search.
	got, ok = MatchTask(tasks, "t-99", "pull requests")
	require.True(t, ok)
	assert.Equal(t, "t-2", got.ID)

	got, ok = MatchTask(tasks, "", "REPORT")
	require.True(t, ok)
	assert.Equal(t, "t-1", got.ID)

	_, ok = MatchTask(tasks, "", "nonexistent")
	assert.False(t, ok)

	_, ok = MatchTask(tasks, "", "")
	assert.False(t, ok)
}
