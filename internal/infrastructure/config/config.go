package config

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevSessionSecret signs cookies when SESSION_SECRET is unset. It is only
// fit for local development.
const DevSessionSecret = "dmv-dev-secret-change-me"

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	LogLevel        slog.Level

	// Question bank
	QuestionsPath string
	ImagePrefix   string
	AssetDir      string
	AuditWorkers  int

	// Sessions
	SessionStore  string // "memory", "sqlite" or "postgres"
	SessionDSN    string
	SessionTTL    time.Duration
	SessionSecret string
	CookieSecure  bool // set the Secure flag; needs HTTPS in front

	CORSOrigins     []string
	ReloadTokenHash string

	TelegramToken string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   getenvDefault("SERVER_ADDRESS", ":3022"),
		ShutdownTimeout: getDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        getLevel("LOG_LEVEL", slog.LevelInfo),

		QuestionsPath: getenvDefault("QUESTIONS_PATH", "new_questions.json"),
		ImagePrefix:   getenvDefault("IMAGE_PREFIX", "dmv_images/"),
		AssetDir:      getenvAllowEmpty("ASSET_DIR", "static"),
		AuditWorkers:  getIntDefault("AUDIT_WORKERS", 4),

		SessionStore:  strings.ToLower(getenvDefault("SESSION_STORE", "memory")),
		SessionDSN:    os.Getenv("SESSION_DSN"),
		SessionTTL:    getDurationDefault("SESSION_TTL", 24*time.Hour),
		SessionSecret: getenvDefault("SESSION_SECRET", DevSessionSecret),
		CookieSecure:  getBoolDefault("COOKIE_SECURE", false),

		CORSOrigins:     csvOr(os.Getenv("CORS_ORIGINS"), []string{"http://localhost:3000"}),
		ReloadTokenHash: os.Getenv("RELOAD_TOKEN_HASH"),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
}

// UsesDevSecret reports whether cookies are signed with the built-in key.
func (c *Config) UsesDevSecret() bool {
	return c.SessionSecret == DevSessionSecret
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

// MustTelegramToken returns TELEGRAM_BOT_TOKEN or exits.
func (c *Config) MustTelegramToken() string {
	if c.TelegramToken != "" {
		return c.TelegramToken
	}
	return mustGetenv("TELEGRAM_BOT_TOKEN")
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}

func getBoolDefault(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid boolean", k, v)
	}
	return b
}

func getLevel(k string, fallback slog.Level) slog.Level {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		log.Fatalf("config: %s=%q is not a valid log level: %v", k, v, err)
	}
	return lvl
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

// getenvAllowEmpty distinguishes an unset variable from one set to "".
func getenvAllowEmpty(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return fallback
}

func csvOr(s string, def []string) []string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
