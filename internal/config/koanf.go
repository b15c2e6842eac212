// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched in order. The first one
// found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/attackmap/config.yaml",
	"/etc/attackmap/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:           "https://api.cloudflare.com/client/v4/radar",
			Path:              "/attacks/layer7/top/attacks",
			Token:             "",
			Timeout:           20 * time.Second,
			Limit:             50,
			Window:            time.Hour,
			DateRange:         "",
			RequestsPerSecond: 1,
			Burst:             3,
			Breaker: BreakerConfig{
				MaxRequests:  1,
				Interval:     5 * time.Minute,
				Timeout:      2 * time.Minute,
				FailureRatio: 0.6,
				MinRequests:  3,
			},
		},
		Refresh: RefreshConfig{
			Interval:        time.Minute,
			WindowCacheTTL:  time.Minute,
			WindowCacheSize: 64,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     120,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		WebSocket: WebSocketConfig{
			Enabled: true,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			Host:           "127.0.0.1",
			Port:           4222,
			Subject:        "attackmap.snapshots",
			ReconnectWait:  2 * time.Second,
			CloseTimeout:   10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with precedence ENV > file > defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma separated lists when they arrive as
// strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"cloudflare_api_token":        "upstream.token",
	"radar_base_url":              "upstream.base_url",
	"radar_path":                  "upstream.path",
	"radar_timeout":               "upstream.timeout",
	"radar_limit":                 "upstream.limit",
	"radar_window":                "upstream.window",
	"radar_date_range":            "upstream.date_range",
	"radar_rps":                   "upstream.requests_per_second",
	"radar_burst":                 "upstream.burst",
	"radar_breaker_max_requests":  "upstream.breaker.max_requests",
	"radar_breaker_interval":      "upstream.breaker.interval",
	"radar_breaker_timeout":       "upstream.breaker.timeout",
	"radar_breaker_failure_ratio": "upstream.breaker.failure_ratio",
	"radar_breaker_min_requests":  "upstream.breaker.min_requests",
	"refresh_interval":            "refresh.interval",
	"refresh_window_cache_ttl":    "refresh.window_cache_ttl",
	"refresh_window_cache_size":   "refresh.window_cache_size",
	"http_host":                   "server.host",
	"http_port":                   "server.port",
	"http_timeout":                "server.timeout",
	"static_dir":                  "server.static_dir",
	"shutdown_timeout":            "server.shutdown_timeout",
	"cors_origins":                "security.cors_origins",
	"rate_limit_requests":         "security.rate_limit_reqs",
	"rate_limit_window":           "security.rate_limit_window",
	"disable_rate_limit":          "security.rate_limit_disabled",
	"mapbox_token":                "frontend.mapbox_token",
	"websocket_enabled":           "websocket.enabled",
	"nats_enabled":                "nats.enabled",
	"nats_url":                    "nats.url",
	"nats_embedded_server":        "nats.embedded_server",
	"nats_host":                   "nats.host",
	"nats_port":                   "nats.port",
	"nats_subject":                "nats.subject",
	"nats_reconnect_wait":         "nats.reconnect_wait",
	"nats_close_timeout":          "nats.close_timeout",
	"log_level":                   "logging.level",
	"log_format":                  "logging.format",
	"log_caller":                  "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths, for
// example CLOUDFLARE_API_TOKEN -> upstream.token. Unmapped names return ""
// so unrelated variables never reach the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
