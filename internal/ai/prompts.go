package ai

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "January 2, 2006"

// CommandPrompt builds the classification prompt for an admin message. The
// model must answer with a single JSON object carrying command_type and
// task_data.
func CommandPrompt(message string, operators []string, today time.Time) string {
	var b strings.Builder

	b.WriteString("You are a task management system parser. Analyze the following message from an admin and determine if they are trying to:\n")
	b.WriteString("1. CREATE a new task\n")
	b.WriteString("2. UPDATE an existing task\n")
	b.WriteString("3. DELETE an existing task\n")
	b.WriteString("4. Just asking a question (not a command)\n\n")
	b.WriteString("If it's a command, extract the relevant details in JSON format.\n\n")

	b.WriteString("For CREATE: Extract title, description (if any), due date (interpret relative dates like \"tomorrow\" or \"next week\" relative to today: ")
	b.WriteString(today.Format(dateLayout))
	b.WriteString("), priority (low, medium, high), and assigned operator name (if mentioned).\n\n")
	b.WriteString("For UPDATE: Extract task title or ID to identify which task, and any fields being updated (status, due date, priority, description, assigned operator).\n\n")
	b.WriteString("For DELETE: Extract task title or ID to identify which task to delete.\n\n")

	b.WriteString("Message: \"")
	b.WriteString(message)
	b.WriteString("\"\n\n")

	b.WriteString("Available operators: ")
	b.WriteString(strings.Join(operators, ", "))
	b.WriteString("\n\n")

	b.WriteString("Respond with JSON only, without any markdown formatting, in this format:\n")
	b.WriteString("{\n")
	b.WriteString("  \"command_type\": \"CREATE\" | \"UPDATE\" | \"DELETE\" | \"QUERY\",\n")
	b.WriteString("  \"task_data\": {\n")
	b.WriteString("    // Relevant fields based on command type\n")
	b.WriteString("  }\n")
	b.WriteString("}\n\n")
	b.WriteString("Do not include any explanations, markdown formatting, or code blocks. Return only the raw JSON object.\n")

	return b.String()
}

// ChatPrompt builds the conversational prompt used for operator messages and
// admin messages classified as plain questions.
func ChatPrompt(role, name, message string, taskLines []string, today time.Time) string {
	var b strings.Builder

	b.WriteString("You are a helpful task management assistant. The user is a ")
	b.WriteString(role)
	b.WriteString(" named ")
	b.WriteString(name)
	b.WriteString(".\n\n")

	if role == "admin" {
		b.WriteString("They manage tasks and assign them to operators. They can ask you to create, update, or delete tasks.\n\n")
	} else {
		b.WriteString("They are assigned tasks by admins and need to complete them.\n\n")
	}

	b.WriteString("Current tasks information:\n")
	if len(taskLines) > 0 {
		b.WriteString(strings.Join(taskLines, "\n"))
	} else {
		b.WriteString("No tasks available.")
	}
	b.WriteString("\n\n")

	b.WriteString("Today's date is ")
	b.WriteString(today.Format(dateLayout))
	b.WriteString(".\n\n")

	b.WriteString("The user's message is: \"")
	b.WriteString(message)
	b.WriteString("\"\n\n")

	b.WriteString("Provide a helpful, concise response. If they ask about task status, due dates, or need help with task management, use the context provided.\n")
	b.WriteString("If they ask something you don't have information about, politely explain that you can only help with task-related queries.\n")
	if role == "admin" {
		b.WriteString("If they want to manage tasks, remind them they can ask you to create, update, or delete tasks.\n")
	}
	b.WriteString("Keep your response under 150 words.\n")

	return b.String()
}

// TaskLine formats one task for the chat prompt context block.
func TaskLine(title, status string, due time.Time) string {
	return fmt.Sprintf("- Task: %s, Status: %s, Due: %s", title, status, due.Format(dateLayout))
}

func CreateConfirmationPrompt(title string, due time.Time, priority, operatorName string) string {
	var b strings.Builder
	b.WriteString("Generate a confirmation message for creating a new task with the following details:\n")
	fmt.Fprintf(&b, "- Title: %s\n", title)
	fmt.Fprintf(&b, "- Due date: %s\n", due.Format(dateLayout))
	fmt.Fprintf(&b, "- Priority: %s\n", priority)
	fmt.Fprintf(&b, "- Assigned to: %s\n\n", operatorName)
	b.WriteString("Keep it concise and friendly.\n")
	return b.String()
}

// UpdateConfirmationPrompt takes pre-formatted change lines like
// "- New status: completed".
func UpdateConfirmationPrompt(originalTitle string, changes []string) string {
	var b strings.Builder
	b.WriteString("Generate a confirmation message for updating a task with the following details:\n")
	fmt.Fprintf(&b, "- Original task: %s\n", originalTitle)
	for _, c := range changes {
		b.WriteString(c)
		b.WriteString("\n")
	}
	b.WriteString("\nKeep it concise and friendly.\n")
	return b.String()
}

func DeleteConfirmationPrompt(title string) string {
	return fmt.Sprintf("Generate a confirmation message for deleting a task with the title %q.\nKeep it concise and friendly.\n", title)
}

func CompletedReportPrompt(adminName, operatorName, title string) string {
	if adminName == "" {
		adminName = "admin"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a congratulatory message for an admin named %s about a task that was completed by %s.\n", adminName, operatorName)
	fmt.Fprintf(&b, "The task title is %q. The message should be concise (maximum 2 sentences) and positive in tone.\n", title)
	return b.String()
}

func OverdueReportPrompt(operatorName, title string, due time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a friendly reminder message for an operator named %s about an overdue task.\n", operatorName)
	fmt.Fprintf(&b, "The task title is %q and it was due on %s. The message should be concise (maximum 2 sentences) and encourage them to complete the task as soon as possible.\n", title, due.Format(dateLayout))
	return b.String()
}

func DueTodayReportPrompt(operatorName, title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a friendly reminder message for an operator named %s about a task that is due today.\n", operatorName)
	fmt.Fprintf(&b, "The task title is %q. The message should be concise (maximum 2 sentences) and remind them to complete the task today.\n", title)
	return b.String()
}
