// Package config loads runtime settings from the environment (and a .env file
// when present).
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/contactform/backend/internal/mail"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var devOrigins = []string{"http://localhost:3000", "http://localhost:3001"}

// Config is the full runtime configuration of the server.
type Config struct {
	Env  string
	Port int

	StoreURL      string
	StoreDatabase string

	Mail       mail.Config
	AdminEmail string

	AdminToken string

	FrontendURL string
	APIBaseURL  string
	CORSOrigins []string

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a reverse proxy that sets those headers.
	TrustProxy bool

	ContactRateLimit int
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// envBindings maps config keys to the environment variables that may set them,
// in priority order.
var envBindings = map[string][]string{
	"env":                   {"APP_ENV", "NODE_ENV"},
	"port":                  {"PORT"},
	"store.url":             {"MDB_CONNECTION_STRING", "DATABASE_URL"},
	"store.database":        {"MDB_DATABASE"},
	"mail.host":             {"SMTP_HOST"},
	"mail.port":             {"SMTP_PORT"},
	"mail.user":             {"EMAIL_USER"},
	"mail.pass":             {"EMAIL_PASS"},
	"mail.from":             {"EMAIL_FROM"},
	"mail.admin":            {"ADMIN_EMAIL"},
	"mail.timeout":          {"MAIL_TIMEOUT"},
	"admin.token":           {"ADMIN_TOKEN"},
	"frontend.url":          {"FRONTEND_URL"},
	"frontend.api_base_url": {"API_BASE_URL", "REACT_APP_API_URL"},
	"cors.origins":          {"CORS_ORIGINS"},
	"proxy.trust":           {"TRUST_PROXY"},
	"ratelimit.per_minute":  {"CONTACT_RATE_LIMIT"},
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("port", 5000)
	v.SetDefault("store.url", "mongodb://localhost:27017")
	v.SetDefault("store.database", "contactdb")
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.timeout", "10s")
	v.SetDefault("frontend.url", "http://localhost:3000")
	v.SetDefault("ratelimit.per_minute", 5)
	v.SetDefault("proxy.trust", false)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Load reads .env (if any) into the process environment and builds a Config.
// Variables already set in the environment win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:              strings.ToLower(strings.TrimSpace(v.GetString("env"))),
		Port:             v.GetInt("port"),
		StoreURL:         v.GetString("store.url"),
		StoreDatabase:    v.GetString("store.database"),
		AdminEmail:       v.GetString("mail.admin"),
		AdminToken:       v.GetString("admin.token"),
		FrontendURL:      v.GetString("frontend.url"),
		APIBaseURL:       v.GetString("frontend.api_base_url"),
		TrustProxy:       v.GetBool("proxy.trust"),
		ContactRateLimit: v.GetInt("ratelimit.per_minute"),
		Mail: mail.Config{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Username: v.GetString("mail.user"),
			Password: v.GetString("mail.pass"),
			From:     v.GetString("mail.from"),
		},
	}

	if cfg.Mail.Timeout, err = parseTimeout(v.GetString("mail.timeout")); err != nil {
		return nil, fmt.Errorf("invalid MAIL_TIMEOUT: %w", err)
	}

	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = cfg.Mail.Username
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	cfg.CORSOrigins = splitList(v.GetString("cors.origins"))
	if len(cfg.CORSOrigins) == 0 {
		if cfg.IsProduction() {
			cfg.CORSOrigins = []string{cfg.FrontendURL}
		} else {
			cfg.CORSOrigins = append([]string(nil), devOrigins...)
		}
	}
	return cfg, nil
}

// parseTimeout accepts a Go duration ("10s", "1m30s") or a bare number of
// seconds ("10").
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("%q must be positive", s)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%q must be positive", s)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
