// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// WebsiteAPIConfig provides settings for the upstream website leads API.
type WebsiteAPIConfig interface {
	GetWebsiteAPIBaseURL() string
	GetWebsiteAPIUsername() string
	GetWebsiteAPIPassword() string
	GetWebsiteAPITimeout() time.Duration
	GetWebsiteTokenTTL() time.Duration
	GetWebsiteDefaultMinLeadID() int64
	IsWebsiteAPIEnabled() bool
}

// SchedulerConfig provides settings for the background sync scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetWebsiteSyncInterval() time.Duration
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetImportSummaryRecipient() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	JWTAccessSecret        string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	WebsiteAPIBaseURL      string
	WebsiteAPIUsername     string
	WebsiteAPIPassword     string
	WebsiteAPITimeout      time.Duration
	WebsiteTokenTTL        time.Duration
	WebsiteDefaultMinLead  int64
	RedisURL               string
	AsynqQueueName         string
	WebsiteSyncInterval    time.Duration
	EmailEnabled           bool
	SMTPHost               string
	SMTPPort               int
	SMTPUsername           string
	SMTPPassword           string
	EmailFromName          string
	EmailFromAddress       string
	ImportSummaryRecipient string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// WebsiteAPIConfig implementation
func (c *Config) GetWebsiteAPIBaseURL() string        { return c.WebsiteAPIBaseURL }
func (c *Config) GetWebsiteAPIUsername() string       { return c.WebsiteAPIUsername }
func (c *Config) GetWebsiteAPIPassword() string       { return c.WebsiteAPIPassword }
func (c *Config) GetWebsiteAPITimeout() time.Duration { return c.WebsiteAPITimeout }
func (c *Config) GetWebsiteTokenTTL() time.Duration   { return c.WebsiteTokenTTL }
func (c *Config) GetWebsiteDefaultMinLeadID() int64   { return c.WebsiteDefaultMinLead }
func (c *Config) IsWebsiteAPIEnabled() bool           { return c.WebsiteAPIBaseURL != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string                   { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string             { return c.AsynqQueueName }
func (c *Config) GetWebsiteSyncInterval() time.Duration { return c.WebsiteSyncInterval }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool             { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string               { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                  { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string           { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string           { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string          { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string       { return c.EmailFromAddress }
func (c *Config) GetImportSummaryRecipient() string { return c.ImportSummaryRecipient }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTAccessSecret:        getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		WebsiteAPIBaseURL:      strings.TrimRight(getEnv("WEBSITE_API_BASE_URL", ""), "/"),
		WebsiteAPIUsername:     getEnv("WEBSITE_API_USERNAME", ""),
		WebsiteAPIPassword:     getEnv("WEBSITE_API_PASSWORD", ""),
		WebsiteAPITimeout:      mustDuration(getEnv("WEBSITE_API_TIMEOUT", "15s")),
		WebsiteTokenTTL:        mustDuration(getEnv("WEBSITE_TOKEN_TTL", "60m")),
		WebsiteDefaultMinLead:  mustInt64(getEnv("WEBSITE_MIN_LEAD_ID", "794")),
		RedisURL:               getEnv("REDIS_URL", ""),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "default"),
		WebsiteSyncInterval:    mustDuration(getEnv("WEBSITE_SYNC_INTERVAL", "6h")),
		EmailEnabled:           emailEnabled && smtpHost != "",
		SMTPHost:               smtpHost,
		SMTPPort:               int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		EmailFromName:          getEnv("EMAIL_FROM_NAME", "Event CRM"),
		EmailFromAddress:       getEnv("EMAIL_FROM_ADDRESS", ""),
		ImportSummaryRecipient: getEnv("IMPORT_SUMMARY_RECIPIENT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.IsWebsiteAPIEnabled() && (cfg.WebsiteAPIUsername == "" || cfg.WebsiteAPIPassword == "") {
		return nil, fmt.Errorf("WEBSITE_API_USERNAME and WEBSITE_API_PASSWORD are required when WEBSITE_API_BASE_URL is set")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
