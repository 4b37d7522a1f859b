package profiles

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"taskdesk-backend/internal/auth"
	"taskdesk-backend/internal/store"
)

type Handler struct {
	Store *store.Store
}

func New(st *store.Store) *Handler {
	return &Handler{Store: st}
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (store.Profile, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return store.Profile{}, false
	}
	profile, err := h.Store.Profile(r.Context(), userID)
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return store.Profile{}, false
	}
	return profile, true
}

// Operators handles GET /api/operators: the assignment dropdown source.
func (h *Handler) Operators(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if caller.Role != store.RoleAdmin {
		http.Error(w, "admin only", http.StatusForbidden)
		return
	}

	operators, err := h.Store.Operators(r.Context())
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if operators == nil {
		operators = []store.Profile{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(operators)
}

// Get handles GET /api/users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}

	profile, err := h.Store.Profile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}

// UpdateRole handles POST /api/users/{id}/role: admins promote or demote
// accounts between the two roles.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if caller.Role != store.RoleAdmin {
		http.Error(w, "admin only", http.StatusForbidden)
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if !store.ValidRole(body.Role) {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.Store.UpdateRole(r.Context(), id, body.Role); err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}
