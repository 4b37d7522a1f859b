package reports

import (
	"encoding/json"
	"net/http"

	"taskdesk-backend/internal/auth"
	"taskdesk-backend/internal/store"
)

type Handler struct {
	Store *store.Store
}

func New(st *store.Store) *Handler {
	return &Handler{Store: st}
}

// List handles GET /api/reports. Admins see every report on tasks they
// assigned; operators only see reports directed at them.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.Store.Profile(r.Context(), userID)
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	var reports []store.TaskReport
	if profile.Role == store.RoleAdmin {
		reports, err = h.Store.ReportsForAdmin(r.Context(), userID)
	} else {
		reports, err = h.Store.ReportsForOperator(r.Context(), userID)
	}
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []store.TaskReport{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reports)
}
