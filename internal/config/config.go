// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Upstream  UpstreamConfig  `koanf:"upstream"`
	Refresh   RefreshConfig   `koanf:"refresh"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Frontend  FrontendConfig  `koanf:"frontend"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	NATS      NATSConfig      `koanf:"nats"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// UpstreamConfig configures the threat-intelligence API client.
type UpstreamConfig struct {
	BaseURL string        `koanf:"base_url"`
	Path    string        `koanf:"path"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
	Limit   int           `koanf:"limit"`

	// Window is used when DateRange is empty: the client asks for the last
	// Window as explicit dateStart/dateEnd timestamps.
	Window    time.Duration `koanf:"window"`
	DateRange string        `koanf:"date_range"`

	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the upstream circuit breaker.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	FailureRatio float64       `koanf:"failure_ratio"`
	MinRequests  uint32        `koanf:"min_requests"`
}

// RefreshConfig configures the refresh orchestrator.
type RefreshConfig struct {
	Interval        time.Duration `koanf:"interval"`
	WindowCacheTTL  time.Duration `koanf:"window_cache_ttl"`
	WindowCacheSize int           `koanf:"window_cache_size"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string        `koanf:"host"`
	Port      int           `koanf:"port"`
	Timeout   time.Duration `koanf:"timeout"`
	StaticDir string        `koanf:"static_dir"`

	// ShutdownTimeout bounds how long the supervisor waits for services to
	// stop. It must exceed the upstream timeout so an in-flight refresh can
	// finish.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// FrontendConfig is passed through to the dashboard.
type FrontendConfig struct {
	MapboxToken string `koanf:"mapbox_token"`
}

// WebSocketConfig toggles the snapshot push channel.
type WebSocketConfig struct {
	Enabled bool `koanf:"enabled"`
}

// NATSConfig selects the snapshot event bus transport. With Enabled false the
// in-process bus is used.
type NATSConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	Subject        string        `koanf:"subject"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
	CloseTimeout   time.Duration `koanf:"close_timeout"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
