// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Mode determines whether the bridge renders the mock fixture or live SAP records.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

// Config holds all application configuration.
type Config struct {
	Mode Mode

	// SAP backend settings.
	SAPBaseURL      string
	SAPClientID     string
	SAPClientSecret string

	// Teams delivery settings.
	TeamsWebhookURL string
	InboxURL        string

	// AppURL is the externally reachable base URL the card's
	// approve/reject actions call back to.
	AppURL string

	// API server settings.
	Port        string
	CORSOrigins []string
	LogLevel    string
	OTelEnabled bool

	OIDCIssuer   string
	OIDCAudience string
}

// LoadFromEnv reads configuration from environment variables with sensible defaults.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Mode:            Mode(envOr("BRIDGE_MODE", "mock")),
		SAPBaseURL:      os.Getenv("SAP_API_URL"),
		SAPClientID:     os.Getenv("SAP_CLIENT_ID"),
		SAPClientSecret: os.Getenv("SAP_CLIENT_SECRET"),
		TeamsWebhookURL: os.Getenv("TEAMS_WEBHOOK_URL"),
		InboxURL:        os.Getenv("INBOX_URL"),
		AppURL:          os.Getenv("APP_URL"),
		Port:            envOr("PORT", "3000"),
		CORSOrigins:     parseCORSOrigins(os.Getenv("BRIDGE_CORS_ORIGINS")),
		LogLevel:        envOr("BRIDGE_LOG_LEVEL", "info"),
		OTelEnabled:     os.Getenv("BRIDGE_OTEL_ENABLED") == "true",
		OIDCIssuer:      os.Getenv("BRIDGE_OIDC_ISSUER"),
		OIDCAudience:    os.Getenv("BRIDGE_OIDC_AUDIENCE"),
	}

	if cfg.Mode != ModeMock && cfg.Mode != ModeLive {
		return Config{}, fmt.Errorf("config: invalid BRIDGE_MODE %q (must be mock or live)", cfg.Mode)
	}

	if cfg.Mode == ModeLive && cfg.SAPBaseURL == "" {
		return Config{}, fmt.Errorf("config: SAP_API_URL required in live mode")
	}

	return cfg, nil
}

// OIDCEnabled reports whether bearer-token verification should guard the API.
func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseCORSOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
