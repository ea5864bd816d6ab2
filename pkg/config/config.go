// Package config loads the formflow service configuration from a JSON or
// YAML file, applies defaults and environment overrides, and validates it.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/site"
)

// Draft store backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Backends lists the accepted drafts.backend values.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendRedis}

// Config is the full service configuration.
type Config struct {
	Server        ServerConfig           `json:"server" yaml:"server"`
	Submission    SubmissionConfig       `json:"submission" yaml:"submission"`
	Notifications NotificationsConfig    `json:"notifications" yaml:"notifications"`
	Drafts        DraftsConfig           `json:"drafts" yaml:"drafts"`
	Theme         ThemeConfig            `json:"theme" yaml:"theme"`
	Forms         FormsConfig            `json:"forms" yaml:"forms"`
	Nav           []site.NavLink         `json:"nav" yaml:"nav"`
	Collections   map[string][]site.Item `json:"collections" yaml:"collections"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr            string `json:"addr" yaml:"addr"`
	ShutdownTimeout string `json:"shutdownTimeout" yaml:"shutdownTimeout"`
	SessionTTL      string `json:"sessionTTL" yaml:"sessionTTL"`
	BaseURL         string `json:"baseURL" yaml:"baseURL"`
}

// SubmissionConfig configures the simulated submitter.
type SubmissionConfig struct {
	Latency string `json:"latency" yaml:"latency"`
}

// NotificationsConfig configures notification expiry.
type NotificationsConfig struct {
	TTL string `json:"ttl" yaml:"ttl"`
}

// DraftsConfig selects and configures the draft store.
type DraftsConfig struct {
	Backend   string `json:"backend" yaml:"backend"`
	Path      string `json:"path" yaml:"path"`
	DSN       string `json:"dsn" yaml:"dsn"`
	RedisAddr string `json:"redisAddr" yaml:"redisAddr"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Debounce  string `json:"debounce" yaml:"debounce"`
	TTL       string `json:"ttl" yaml:"ttl"`
}

// ThemeConfig selects the palette.
type ThemeConfig struct {
	Name      string `json:"name" yaml:"name"`
	Variant   string `json:"variant" yaml:"variant"`
	Manifests string `json:"manifests" yaml:"manifests"`
}

// FormsConfig locates form definitions.
type FormsConfig struct {
	Dir              string `json:"dir" yaml:"dir"`
	OpenAPI          string `json:"openapi" yaml:"openapi"`
	MembershipFormID string `json:"membershipFormId" yaml:"membershipFormId"`
	GPAFieldID       string `json:"gpaFieldId" yaml:"gpaFieldId"`
	Watch            bool   `json:"watch" yaml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
			SessionTTL:      "24h",
		},
		Submission:    SubmissionConfig{Latency: "2s"},
		Notifications: NotificationsConfig{TTL: "5s"},
		Drafts: DraftsConfig{
			Backend:  BackendMemory,
			Path:     filepath.Join("data", "drafts"),
			Debounce: "1s",
			TTL:      "168h",
		},
		Theme: ThemeConfig{Name: "formflow", Variant: "light"},
		Forms: FormsConfig{
			MembershipFormID: "membership-application",
			GPAFieldID:       "gpa",
		},
		Nav: []site.NavLink{
			{Href: site.IndexPage, Label: "Home"},
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// JSON is tried first, then YAML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := Parse(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Parse decodes data onto cfg.
func Parse(data []byte, cfg *Config) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cfg); err == nil {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.New("invalid JSON or YAML")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("FORMFLOW_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if backend := os.Getenv("FORMFLOW_DRAFTS_BACKEND"); backend != "" {
		c.Drafts.Backend = backend
	}
	if dsn := os.Getenv("FORMFLOW_DRAFTS_DSN"); dsn != "" {
		c.Drafts.DSN = dsn
	}
	if addr := os.Getenv("FORMFLOW_REDIS_ADDR"); addr != "" {
		c.Drafts.RedisAddr = addr
	}
}

// Validate checks the backend selection and every duration.
func (c *Config) Validate() error {
	var errs []error

	valid := false
	for _, backend := range Backends {
		if c.Drafts.Backend == backend {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, fmt.Errorf("drafts.backend %q is not one of %v", c.Drafts.Backend, Backends))
	}
	switch c.Drafts.Backend {
	case BackendFile, BackendSQLite:
		if strings.TrimSpace(c.Drafts.Path) == "" {
			errs = append(errs, fmt.Errorf("drafts.path is required for the %s backend", c.Drafts.Backend))
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Drafts.DSN) == "" {
			errs = append(errs, errors.New("drafts.dsn is required for the postgres backend"))
		}
	case BackendRedis:
		if strings.TrimSpace(c.Drafts.RedisAddr) == "" {
			errs = append(errs, errors.New("drafts.redisAddr is required for the redis backend"))
		}
	}

	durations := []struct{ key, raw string }{
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"server.sessionTTL", c.Server.SessionTTL},
		{"submission.latency", c.Submission.Latency},
		{"notifications.ttl", c.Notifications.TTL},
		{"drafts.debounce", c.Drafts.Debounce},
		{"drafts.ttl", c.Drafts.TTL},
	}
	for _, entry := range durations {
		if entry.raw == "" {
			continue
		}
		if d, err := time.ParseDuration(entry.raw); err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", entry.key, entry.raw))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func duration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// SubmissionLatency returns the simulated submission delay.
func (c *Config) SubmissionLatency() time.Duration {
	return duration(c.Submission.Latency, 2*time.Second)
}

// NotificationTTL returns how long notifications stay visible.
func (c *Config) NotificationTTL() time.Duration {
	return duration(c.Notifications.TTL, 5*time.Second)
}

// DraftDebounce returns the autosave quiet period.
func (c *Config) DraftDebounce() time.Duration {
	return duration(c.Drafts.Debounce, time.Second)
}

// DraftTTL returns the expiry applied by stores that support it.
func (c *Config) DraftTTL() time.Duration {
	return duration(c.Drafts.TTL, 7*24*time.Hour)
}

// ShutdownTimeout returns the graceful shutdown budget of the server.
func (c *Config) ShutdownTimeout() time.Duration {
	return duration(c.Server.ShutdownTimeout, 10*time.Second)
}

// SessionTTL returns how long idle visitor sessions are kept.
func (c *Config) SessionTTL() time.Duration {
	return duration(c.Server.SessionTTL, 24*time.Hour)
}
