package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"taskdesk-backend/internal/ai"
	"taskdesk-backend/internal/auth"
	"taskdesk-backend/internal/bot"
	"taskdesk-backend/internal/checker"
	"taskdesk-backend/internal/config"
	"taskdesk-backend/internal/db"
	"taskdesk-backend/internal/logging"
	"taskdesk-backend/internal/notifications"
	"taskdesk-backend/internal/profiles"
	"taskdesk-backend/internal/reports"
	"taskdesk-backend/internal/store"
	"taskdesk-backend/internal/tasks"
)

func main() {
	logging.Init()
	log := logging.Logger

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatalf("failed to connect DB: %v", err)
	}
	defer database.Close()
	log.Info("connected to PostgreSQL")

	st := store.New(database)
	gemini := ai.NewGemini(cfg.GeminiKey, cfg.GeminiModel)

	hub := notifications.NewHub()
	notifier := notifications.NewService(st, hub)

	secret := []byte(cfg.JWTSecret)
	authHandler := auth.NewHandler(st, secret)
	authMW := auth.New(secret)

	taskHandler := tasks.New(st, notifier)
	profileHandler := profiles.New(st)
	reportHandler := reports.New(st)
	notificationHandler := notifications.NewHandler(st, hub)
	taskBot := bot.New(st, gemini, database)
	taskChecker := checker.New(st, gemini, database)

	r := mux.NewRouter()

	// Health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	// ----- AUTH -----
	r.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", authMW.Wrap(authHandler.Me)).Methods(http.MethodGet)

	// ----- TASKS API -----
	r.HandleFunc("/api/tasks", authMW.Wrap(taskHandler.List)).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks", authMW.Wrap(taskHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}", authMW.Wrap(taskHandler.Get)).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", authMW.Wrap(taskHandler.Update)).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id}", authMW.Wrap(taskHandler.Delete)).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{id}/status", authMW.Wrap(taskHandler.SetStatus)).Methods(http.MethodPost)
	r.HandleFunc("/api/dashboard/summary", authMW.Wrap(taskHandler.Summary)).Methods(http.MethodGet)

	// ----- USERS / OPERATORS -----
	r.HandleFunc("/api/operators", authMW.Wrap(profileHandler.Operators)).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", authMW.Wrap(profileHandler.Get)).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}/role", authMW.Wrap(profileHandler.UpdateRole)).Methods(http.MethodPost)

	// ----- REPORTS -----
	r.HandleFunc("/api/reports", authMW.Wrap(reportHandler.List)).Methods(http.MethodGet)

	// ----- NOTIFICATIONS -----
	r.HandleFunc("/api/notifications", authMW.Wrap(notificationHandler.List)).Methods(http.MethodGet)
	r.HandleFunc("/api/notifications/read-all", authMW.Wrap(notificationHandler.MarkAllRead)).Methods(http.MethodPost)
	r.HandleFunc("/api/notifications/{id}/read", authMW.Wrap(notificationHandler.MarkRead)).Methods(http.MethodPost)
	r.HandleFunc("/api/notifications/stream", authMW.Wrap(notificationHandler.Stream)).Methods(http.MethodGet)

	// ----- BOT -----
	r.HandleFunc("/api/bot/chat", authMW.Wrap(taskBot.Chat)).Methods(http.MethodPost)
	r.HandleFunc("/api/bot/check-tasks", taskChecker.CheckTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/cron/daily-check", taskChecker.DailyCheck).Methods(http.MethodGet)

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Infof("API server is running on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
