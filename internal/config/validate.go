// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package config

import (
	"fmt"
	"net/url"

	"github.com/tomtom215/attackmap/internal/radar"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks the loaded configuration. The first problem found is
// returned, named by its environment variable.
func (c *Config) Validate() error {
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateBreaker(); err != nil {
		return err
	}
	if err := c.validateRefresh(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateUpstream() error {
	if err := validateURL("RADAR_BASE_URL", c.Upstream.BaseURL, "http", "https"); err != nil {
		return err
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("RADAR_TIMEOUT must be positive")
	}
	if c.Upstream.Limit < 1 || c.Upstream.Limit > 100 {
		return fmt.Errorf("RADAR_LIMIT must be between 1 and 100")
	}
	if c.Upstream.RequestsPerSecond < 0 || c.Upstream.Burst < 0 {
		return fmt.Errorf("RADAR_RPS and RADAR_BURST must not be negative")
	}
	return c.validateWindow()
}

func (c *Config) validateWindow() error {
	if c.Upstream.DateRange != "" {
		if !radar.ValidDateRange(c.Upstream.DateRange) {
			return fmt.Errorf("RADAR_DATE_RANGE %q is not a valid range token (e.g. 1h, 7d, 12w)", c.Upstream.DateRange)
		}
		return nil
	}
	if c.Upstream.Window <= 0 {
		return fmt.Errorf("RADAR_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateBreaker() error {
	b := c.Upstream.Breaker
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("RADAR_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("RADAR_BREAKER_TIMEOUT must be positive")
	}
	if b.MaxRequests == 0 {
		return fmt.Errorf("RADAR_BREAKER_MAX_REQUESTS must be at least 1")
	}
	return nil
}

func (c *Config) validateRefresh() error {
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	if c.Refresh.WindowCacheTTL <= 0 {
		return fmt.Errorf("REFRESH_WINDOW_CACHE_TTL must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return c.validateShutdown()
}

func (c *Config) validateShutdown() error {
	if c.Server.ShutdownTimeout <= c.Upstream.Timeout {
		return fmt.Errorf("SHUTDOWN_TIMEOUT (%s) must exceed RADAR_TIMEOUT (%s) so an in-flight refresh can finish",
			c.Server.ShutdownTimeout, c.Upstream.Timeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must not be empty (use * to allow any origin)")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("NATS_SUBJECT is required when NATS is enabled")
	}
	if c.NATS.EmbeddedServer {
		if c.NATS.Port < 1 || c.NATS.Port > 65535 {
			return fmt.Errorf("NATS_PORT must be between 1 and 65535")
		}
		return nil
	}
	return validateURL("NATS_URL", c.NATS.URL, "nats", "tls")
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func validateURL(name, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%s must be a valid URL, got %q", name, raw)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("%s scheme must be one of %v", name, schemes)
}
