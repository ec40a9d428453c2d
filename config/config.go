package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"kinovek-client/internal/domain"
)

type Config struct {
	// Base URL of the analysis service, without a trailing slash
	APIBaseURL string
	// Client-side wait bound per request
	RequestTimeoutSeconds int
	// Upload limits checked before anything goes on the wire. The server
	// rejects above 10 MiB with 413; the client stops at this limit first.
	MaxUploadSizeMB    int
	AcceptedExtensions []string
	// Optional session cookie; auth is opaque to the pipeline
	SessionCookieName string
	SessionCookie     string
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; ignored elsewhere
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:            strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api"), "/"),
		RequestTimeoutSeconds: getEnvInt("REQUEST_TIMEOUT_SECONDS", 30),
		MaxUploadSizeMB:       getEnvInt("MAX_UPLOAD_SIZE_MB", 5),
		AcceptedExtensions:    splitExtensions(getEnv("ACCEPTED_EXTENSIONS", ".pdf,.docx")),
		SessionCookieName:     getEnv("SESSION_COOKIE_NAME", "kinovek_session"),
		SessionCookie:         getEnv("SESSION_COOKIE", ""),
	}
	return cfg, nil
}

// UploadConfiguration translates the env limits into the form the validator
// consumes.
func (c *Config) UploadConfiguration() domain.UploadConfiguration {
	return domain.UploadConfiguration{
		AcceptedExtensions: c.AcceptedExtensions,
		MaxSizeBytes:       int64(c.MaxUploadSizeMB) << 20,
	}
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func splitExtensions(raw string) []string {
	var exts []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		exts = append(exts, part)
	}
	if len(exts) == 0 {
		exts = append(exts, domain.DefaultAcceptedExtensions...)
	}
	return exts
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
