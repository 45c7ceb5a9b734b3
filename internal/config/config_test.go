package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("CHAT_SEND_TIMEOUT", "")
	t.Setenv("DB_DRIVER", "")

	cfg := New()

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "@tcp(localhost:3306)/muzz")
	assert.Equal(t, 3*time.Second, cfg.Chat.SendTimeout)
	assert.Equal(t, 2*time.Second, cfg.Chat.TypingDebounce)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.NotEmpty(t, cfg.Presence.InstanceID)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CHAT_SEND_TIMEOUT", "250ms")
	t.Setenv("CHAT_RATE_LIMIT", "5")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOG_SOURCE", "yes")

	cfg := New()

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Chat.SendTimeout)
	assert.Equal(t, 5, cfg.Chat.RateLimit)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Log.Source)
}

func TestNew_BadValuesFallBack(t *testing.T) {
	t.Setenv("CHAT_TYPING_DEBOUNCE", "soon")
	t.Setenv("WS_SEND_BUFFER", "many")

	cfg := New()

	assert.Equal(t, 2*time.Second, cfg.Chat.TypingDebounce)
	assert.Equal(t, 64, cfg.Realtime.SendBuffer)
}
