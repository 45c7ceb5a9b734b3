package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		ENV             string
		ShutdownTimeout time.Duration
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		Driver     string
		DSN        string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		SQLitePath string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	GRPC struct {
		Host string
		Port string
	}

	HTTP struct {
		Host string
		Port string
	}

	Auth struct {
		JWTSecret string
		Issuer    string
	}

	Chat struct {
		SendTimeout     time.Duration
		TypingDebounce  time.Duration
		RateLimit       int
		RateWindow      time.Duration
		HistoryPageSize int
	}

	Match struct {
		LikesPageSize int
	}

	Realtime struct {
		SendBuffer   int
		WriteTimeout time.Duration
	}

	Presence struct {
		InstanceID string
	}
}

func New() *Config {
	cfg := &Config{}

	// App
	cfg.App.ENV = getEnvDefault("APP_ENV", "production")
	cfg.App.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second)

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "match_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	cfg.DB.SQLitePath = getEnvDefault("SQLITE_PATH", "muzz.db")
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "muzz")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	// HTTP + websocket
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")

	// Auth (tokens are issued elsewhere, we only verify them)
	cfg.Auth.JWTSecret = getEnvDefault("JWT_SECRET", "change-me")
	cfg.Auth.Issuer = getEnvDefault("JWT_ISSUER", "")

	// Chat
	cfg.Chat.SendTimeout = getEnvDuration("CHAT_SEND_TIMEOUT", 3*time.Second)
	cfg.Chat.TypingDebounce = getEnvDuration("CHAT_TYPING_DEBOUNCE", 2*time.Second)
	cfg.Chat.RateLimit = getEnvInt("CHAT_RATE_LIMIT", 20)
	cfg.Chat.RateWindow = getEnvDuration("CHAT_RATE_WINDOW", 10*time.Second)
	cfg.Chat.HistoryPageSize = getEnvInt("CHAT_HISTORY_PAGE_SIZE", 50)

	// Match
	cfg.Match.LikesPageSize = getEnvInt("LIKES_PAGE_SIZE", 20)

	// Realtime
	cfg.Realtime.SendBuffer = getEnvInt("WS_SEND_BUFFER", 64)
	cfg.Realtime.WriteTimeout = getEnvDuration("WS_WRITE_TIMEOUT", 10*time.Second)

	// Presence
	cfg.Presence.InstanceID = getEnvDefault("PRESENCE_INSTANCE_ID", defaultInstanceID())

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("2s", "150ms").
func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

func defaultInstanceID() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "instance-1"
}
