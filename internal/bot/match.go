package bot

import (
	"strings"

	"taskdesk-backend/internal/store"
)

// MatchOperator resolves a free-text operator reference by case-insensitive
// substring containment over full names. First match wins; with multiple
// candidates the list order decides, which is a known source of
// misassignment.
func MatchOperator(operators []store.Profile, name string) (store.Profile, bool) {
	if name == "" {
		return store.Profile{}, false
	}
	needle := strings.ToLower(name)
	for _, op := range operators {
		if strings.Contains(strings.ToLower(op.FullName), needle) {
			return op, true
		}
	}
	return store.Profile{}, false
}

// MatchTask resolves a task reference by exact id first, then by title
// substring. Same first-match-wins caveat as MatchOperator.
func MatchTask(tasks []store.Task, id, title string) (store.Task, bool) {
	if id != "" {
		for _, t := range tasks {
			if t.ID == id {
				return t, true
			}
		}
	}
	if title != "" {
		needle := strings.ToLower(title)
		for _, t := range tasks {
			if strings.Contains(strings.ToLower(t.Title), needle) {
				return t, true
			}
		}
	}
	return store.Task{}, false
}
