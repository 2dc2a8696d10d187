package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env      string // "development", "production", etc.
	LogLevel string // debug, info, warn, error

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis-backed session storage; in-memory sessions when empty
	RedisURL string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// Admin SSO (optional)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Admin password login, bcrypt hash. Disabled when empty.
	AdminPasswordHash string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// Crew session tokens
	CrewTokenSecret        string
	CrewTokenTTL           time.Duration
	AllowLegacyCrewCookies bool // accept the old crew_id/account_id cookie pair

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Object storage host that crew images must live on
	StoragePublicHost string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // none, tls, starttls

	// Kafka moderation events; disabled when no brokers are set
	KafkaBrokers []string
	KafkaTopic   string

	// Stale pending request digest; disabled when the interval is zero
	ReminderInterval time.Duration
	ReminderMaxAge   time.Duration

	// Site Branding
	SiteTitle string // env: SITE_TITLE, default: "Run Crew"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                    getEnv("ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		ServerAddr:             getEnv("SERVER_ADDR", ":3000"),
		BaseURL:                getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:            getEnv("DATABASE_URL", "postgres://localhost:5432/crewhub?sslmode=disable"),
		RedisURL:               getEnv("REDIS_URL", ""),
		TLSEnabled:             getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:            getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:             getEnv("TLS_KEY_FILE", ""),
		OIDCIssuer:             getEnv("OIDC_ISSUER", ""),
		OIDCClientID:           getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret:       getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:        getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/admin/auth/callback"),
		AdminPasswordHash:      getEnv("ADMIN_PASSWORD_HASH", ""),
		SessionSecret:          getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CrewTokenSecret:        getEnv("CREW_TOKEN_SECRET", "change-me-crew-token-secret"),
		CrewTokenTTL:           getDuration("CREW_TOKEN_TTL", 7*24*time.Hour),
		AllowLegacyCrewCookies: getBool("ALLOW_LEGACY_CREW_COOKIES", false),
		CORSOrigins:            getEnv("CORS_ORIGINS", ""),
		StoragePublicHost:      getEnv("STORAGE_PUBLIC_HOST", ""),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               getInt("SMTP_PORT", 587),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:               getEnv("SMTP_FROM", ""),
		SMTPFromName:           getEnv("SMTP_FROM_NAME", "Run Crew"),
		SMTPTLS:                getEnv("SMTP_TLS", "starttls"),
		KafkaBrokers:           splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:             getEnv("KAFKA_TOPIC", "crew-edit-requests"),
		ReminderInterval:       getDuration("REMINDER_INTERVAL", 0),
		ReminderMaxAge:         getDuration("REMINDER_MAX_AGE", 48*time.Hour),
		SiteTitle:              getEnv("SITE_TITLE", "Run Crew"),
	}
}

// Validate reports settings that must be overridden outside development.
func (c *Config) Validate() error {
	if c.IsDev() {
		return nil
	}
	var problems []string
	if len(c.SessionSecret) < 32 || strings.HasPrefix(c.SessionSecret, "change-me") {
		problems = append(problems, "SESSION_SECRET must be set to at least 32 characters")
	}
	if len(c.CrewTokenSecret) < 32 || strings.HasPrefix(c.CrewTokenSecret, "change-me") {
		problems = append(problems, "CREW_TOKEN_SECRET must be set to at least 32 characters")
	}
	if c.StoragePublicHost == "" {
		problems = append(problems, "STORAGE_PUBLIC_HOST is required")
	}
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		problems = append(problems, "TLS_CERT_FILE and TLS_KEY_FILE are required when TLS_ENABLED is set")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

// getBool accepts the strconv.ParseBool spellings; anything else is the fallback.
func getBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsOIDCEnabled returns true if admin SSO is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// IsEmailEnabled returns true if SMTP is configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsKafkaEnabled returns true if moderation events should be published.
func (c *Config) IsKafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaTopic != ""
}
