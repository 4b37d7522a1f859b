package bot

import (
	"strings"
	"time"
)

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ResolveDueDate turns a free-text due date into a timestamp. The literals
// "tomorrow", "next week" and "next month" resolve relative to now; anything
// else goes through a layout list. Returns ok=false when nothing matched so
// the caller can apply its type-specific default.
func ResolveDueDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	lower := strings.ToLower(raw)
	switch {
	case lower == "tomorrow":
		return now.AddDate(0, 0, 1), true
	case strings.Contains(lower, "next week"):
		return now.AddDate(0, 0, 7), true
	case strings.Contains(lower, "next month"):
		return now.AddDate(0, 1, 0), true
	}

	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
