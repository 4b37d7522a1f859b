package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskdesk-backend/internal/logging"
	"taskdesk-backend/internal/store"
)

type Handler struct {
	Store  *store.Store
	Secret []byte
}

func NewHandler(st *store.Store, secret []byte) *Handler {
	return &Handler{Store: st, Secret: secret}
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *Handler) setSession(w http.ResponseWriter, userID string) error {
	token, err := GenerateToken(h.Secret, userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
	return nil
}

// ------------------------------------------------------------------
// Registration: POST /auth/register (form-encoded, redirect responses)
// ------------------------------------------------------------------

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/register", "invalid form")
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	fullName := r.PostFormValue("fullName")

	if email == "" || password == "" {
		redirectWithError(w, r, "/register", "email and password are required")
		return
	}

	exists, err := h.Store.EmailExists(r.Context(), email)
	if err == nil && exists {
		redirectWithError(w, r, "/register", "email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		redirectWithError(w, r, "/register", "internal error")
		return
	}

	id, err := h.Store.CreateUser(r.Context(), email, string(hash))
	if err != nil {
		logging.Logger.Warnf("register: create user failed: %v", err)
		redirectWithError(w, r, "/register", "could not create account")
		return
	}

	// New accounts always start as operators; an admin promotes them later.
	if err := h.Store.CreateProfile(r.Context(), id, fullName, store.RoleOperator); err != nil {
		logging.Logger.Warnf("register: create profile failed: %v", err)
		redirectWithError(w, r, "/register", "could not create profile")
		return
	}

	if err := h.setSession(w, id); err != nil {
		redirectWithError(w, r, "/login", "could not start session")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ------------------------------------------------------------------
// Login: POST /auth/login
// ------------------------------------------------------------------

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/login", "invalid form")
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	id, hash, err := h.Store.UserByEmail(r.Context(), email)
	if err != nil {
		redirectWithError(w, r, "/login", "invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		redirectWithError(w, r, "/login", "invalid credentials")
		return
	}

	if err := h.setSession(w, id); err != nil {
		redirectWithError(w, r, "/login", "could not start session")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ------------------------------------------------------------------
// Logout: POST /auth/logout
// ------------------------------------------------------------------

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ------------------------------------------------------------------
// Get current user: GET /auth/me
// ------------------------------------------------------------------

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.Store.Profile(r.Context(), userID)
	if err != nil {
		http.Error(w, "user profile not found", http.StatusNotFound)
		return
	}

	email, err := h.Store.UserEmail(r.Context(), userID)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":        profile.ID,
		"email":     email,
		"full_name": profile.FullName,
		"role":      profile.Role,
	})
}
