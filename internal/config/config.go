package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the relay server configuration.
type Config struct {
	ListenAddr string
	// APIURL is the external backend base URL.
	APIURL string
	// SessionSecret seals the session cookie.
	SessionSecret string
	// TokenSecret signs backend tokens. Falls back to SessionSecret.
	TokenSecret string
	// BasePath prefixes every route, e.g. "/tracker".
	BasePath  string
	StaticDir string

	CORSOrigins   []string
	CookieSecure  bool
	SessionMaxAge time.Duration

	LogLevel  string
	LogFormat string
	// TraceEndpoint is the OTLP/HTTP collector URL. Empty keeps spans local.
	TraceEndpoint string

	Timeouts Timeouts
}

// Timeouts bound each proxied backend call.
type Timeouts struct {
	JobStatus    time.Duration
	SettingsTest time.Duration
	JobSubmit    time.Duration
}

// Load reads an optional .env file and resolves configuration from the
// environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("listen_addr", ":3000")
	v.SetDefault("api_url", "http://localhost:8000")
	v.SetDefault("base_path", "")
	v.SetDefault("session_max_age", 30*24*time.Hour)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("timeout_status", 10*time.Second)
	v.SetDefault("timeout_settings_test", 15*time.Second)
	v.SetDefault("timeout_job_submit", 30*time.Second)

	bind := map[string][]string{
		"listen_addr":           {"LISTEN_ADDR"},
		"api_url":               {"API_URL", "NEXT_PUBLIC_API_URL"},
		"session_secret":        {"SESSION_SECRET", "NEXTAUTH_SECRET"},
		"token_secret":          {"JWT_SECRET"},
		"base_path":             {"BASE_PATH", "NEXT_PUBLIC_BASE_PATH"},
		"static_dir":            {"STATIC_DIR"},
		"cors_origins":          {"CORS_ALLOWED_ORIGINS"},
		"cookie_secure":         {"COOKIE_SECURE"},
		"session_max_age":       {"SESSION_MAX_AGE"},
		"log_level":             {"LOG_LEVEL"},
		"log_format":            {"LOG_FORMAT"},
		"trace_endpoint":        {"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"},
		"timeout_status":        {"PROXY_TIMEOUT_STATUS"},
		"timeout_settings_test": {"PROXY_TIMEOUT_SETTINGS_TEST"},
		"timeout_job_submit":    {"PROXY_TIMEOUT_JOB_SUBMIT"},
	}
	for key, envs := range bind {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ListenAddr:    v.GetString("listen_addr"),
		APIURL:        strings.TrimRight(strings.TrimSpace(v.GetString("api_url")), "/"),
		SessionSecret: v.GetString("session_secret"),
		TokenSecret:   v.GetString("token_secret"),
		BasePath:      strings.TrimRight(strings.TrimSpace(v.GetString("base_path")), "/"),
		StaticDir:     v.GetString("static_dir"),
		CORSOrigins:   splitList(v.GetString("cors_origins")),
		CookieSecure:  v.GetBool("cookie_secure"),
		SessionMaxAge: v.GetDuration("session_max_age"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
		TraceEndpoint: v.GetString("trace_endpoint"),
		Timeouts: Timeouts{
			JobStatus:    v.GetDuration("timeout_status"),
			SettingsTest: v.GetDuration("timeout_settings_test"),
			JobSubmit:    v.GetDuration("timeout_job_submit"),
		},
	}
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = cfg.SessionSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot start with.
// An empty signing secret is allowed here; it fails per request instead.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("config: api url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api url %q must be absolute", c.APIURL)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("config: base path %q must start with /", c.BasePath)
	}
	if c.Timeouts.JobStatus <= 0 || c.Timeouts.SettingsTest <= 0 || c.Timeouts.JobSubmit <= 0 {
		return errors.New("config: proxy timeouts must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
