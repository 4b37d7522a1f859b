package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var promptDay = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestCommandPrompt(t *testing.T) {
	p := CommandPrompt("assign bob a task", []string{"Alice Johnson", "Bob Smith"}, promptDay)

	assert.Contains(t, p, `Message: "assign bob a task"`)
	assert.Contains(t, p, "Available operators: Alice Johnson, Bob Smith")
	assert.Contains(t, p, "March 10, 2026")
	assert.Contains(t, p, `"command_type"`)
}

func TestChatPromptAdmin(t *testing.T) {
	lines := []string{TaskLine("Ship release", "pending", promptDay)}
	p := ChatPrompt("admin", "Dana", "what's due?", lines, promptDay)

	assert.Contains(t, p, "a admin named Dana")
	assert.Contains(t, p, "- Task: Ship release, Status: pending, Due: March 10, 2026")
	assert.Contains(t, p, "create, update, or delete tasks")
	assert.Contains(t, p, "under 150 words")
}

func TestChatPromptOperatorNoTasks(t *testing.T) {
	p := ChatPrompt("operator", "Alice", "what's due?", nil, promptDay)

	assert.Contains(t, p, "a operator named Alice")
	assert.Contains(t, p, "No tasks available.")
	assert.NotContains(t, p, "create, update, or delete tasks")
}

func TestCompletedReportPromptDefaultsAdminName(t *testing.T) {
	p := CompletedReportPrompt("", "Alice", "Ship release")
	assert.Contains(t, p, "an admin named admin")
	assert.Contains(t, p, `"Ship release"`)
}
