package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90m")
	assert.Equal(t, 90*time.Minute, envDuration("TEST_DURATION", time.Hour))

	t.Setenv("TEST_DURATION", "soon")
	assert.Equal(t, time.Hour, envDuration("TEST_DURATION", time.Hour))

	assert.Equal(t, time.Minute, envDuration("TEST_DURATION_UNSET", time.Minute))
}

func TestEnvList(t *testing.T) {
	def := []string{"http://localhost:3000"}

	t.Setenv("TEST_ORIGINS", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, envList("TEST_ORIGINS", def))

	t.Setenv("TEST_ORIGINS", " , ")
	assert.Equal(t, def, envList("TEST_ORIGINS", def))
}

func TestEnvIntRejectsNonPositive(t *testing.T) {
	t.Setenv("TEST_LIMIT", "0")
	assert.Equal(t, 5, envInt("TEST_LIMIT", 5))

	t.Setenv("TEST_LIMIT", "12")
	assert.Equal(t, 12, envInt("TEST_LIMIT", 5))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8000")
	t.Setenv("JWT_SECRET", "test-secret")
	for _, key := range []string{"DB_DRIVER", "JWT_EXPIRY", "CORS_ALLOWED_ORIGINS", "S3_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Len(t, cfg.CORSAllowedOrigins, 3)
	assert.False(t, cfg.StorageEnabled())
}
