package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, "SUPER_SECRET_KEY_CHANGE_ME", cfg.JWTSecret)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "taskdesk")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("DB_NAME", "taskdesk")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
	assert.Equal(t, "key-123", cfg.GeminiKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t,
		"host=db.internal port=5433 user=taskdesk password=hunter2 dbname=taskdesk sslmode=disable",
		cfg.ConnString(),
	)
}
