package bot

import (
	"context"
	"encoding/json"
	"time"

	"taskdesk-backend/internal/ai"
	"taskdesk-backend/internal/logging"
)

const (
	CommandCreate = "CREATE"
	CommandUpdate = "UPDATE"
	CommandDelete = "DELETE"
	CommandQuery  = "QUERY"
)

// TaskData holds whatever structured fields the model managed to extract.
// All fields are optional; handlers apply their own defaults.
type TaskData struct {
	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	DueDate          string `json:"due_date,omitempty"`
	Priority         string `json:"priority,omitempty"`
	Status           string `json:"status,omitempty"`
	AssignedOperator string `json:"assigned_operator,omitempty"`
	TaskID           string `json:"task_id,omitempty"`
}

type Command struct {
	CommandType string   `json:"command_type"`
	TaskData    TaskData `json:"task_data"`
}

// ParseCommand classifies an admin message via one model call. Malformed
// model output degrades to a QUERY command rather than an error; only a
// failed generation call is surfaced.
func ParseCommand(ctx context.Context, gen ai.Generator, message string, operators []string, now time.Time) (Command, error) {
	prompt := ai.CommandPrompt(message, operators, now)

	response, err := gen.GenerateContent(ctx, prompt)
	if err != nil {
		return Command{}, err
	}

	jsonString := ai.ExtractJSON(response)

	var cmd Command
	if err := json.Unmarshal([]byte(jsonString), &cmd); err != nil {
		logging.Logger.Warnf("bot: failed to parse command response, falling back to QUERY: %v", err)
		return Command{CommandType: CommandQuery}, nil
	}

	switch cmd.CommandType {
	case CommandCreate, CommandUpdate, CommandDelete, CommandQuery:
	default:
		// Unknown command type gets the same silent treatment as a
		// parse failure.
		logging.Logger.Warnf("bot: unknown command type %q, falling back to QUERY", cmd.CommandType)
		return Command{CommandType: CommandQuery}, nil
	}

	return cmd, nil
}
