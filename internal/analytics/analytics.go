package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type ctxKey string

const userIDKey ctxKey = "analytics_user_id"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return "", false
	}
	uid, ok := v.(string)
	return uid, ok
}

// Log inserts one analytics event. Best-effort: a nil db or an insert
// failure never breaks the calling flow. Events from unauthenticated flows
// (the checker triggers) carry a NULL user id.
func Log(ctx context.Context, db *sql.DB, eventName string, props any) {
	if db == nil || eventName == "" {
		return
	}

	var userID sql.NullString
	if uid, ok := UserIDFromContext(ctx); ok {
		userID = sql.NullString{String: uid, Valid: true}
	}

	b, err := json.Marshal(props)
	if err != nil {
		return
	}

	_, _ = db.ExecContext(ctx, `
		INSERT INTO analytics_events (event_name, event_time, user_id, properties)
		VALUES ($1, $2, $3, $4::jsonb)
	`, eventName, time.Now().UTC(), userID, string(b))
}
