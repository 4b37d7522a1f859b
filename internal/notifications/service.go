package notifications

import (
	"context"

	"taskdesk-backend/internal/logging"
	"taskdesk-backend/internal/store"
)

// Service persists notifications and pushes them to live subscribers. Task
// mutations call Send as a follow-up step; it is not atomic with the mutation
// that triggered it, so a failure here is logged and swallowed.
type Service struct {
	Store *store.Store
	Hub   *Hub
}

func NewService(st *store.Store, hub *Hub) *Service {
	return &Service{Store: st, Hub: hub}
}

func (s *Service) Send(ctx context.Context, recipientID, title, message string, taskID string) {
	n := store.Notification{
		UserID:  recipientID,
		Title:   title,
		Message: message,
	}
	if taskID != "" {
		n.TaskID = &taskID
	}

	if err := s.Store.InsertNotification(ctx, &n); err != nil {
		logging.Logger.Warnf("notifications: insert for %s failed: %v", recipientID, err)
		return
	}

	s.Hub.Publish(n)
}
