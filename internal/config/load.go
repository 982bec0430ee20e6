package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/asaskevich/govalidator"

	"github.com/dgellow/perfectemail/emailutil"
	"github.com/dgellow/perfectemail/internal/log"
)

const maxConcurrency = 256

// Load loads and processes the config with immediate env var resolution
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var rawConfig map[string]any
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		return Config{}, fmt.Errorf("parsing config JSON: %w", err)
	}

	version, ok := rawConfig["version"].(string)
	if !ok {
		return Config{}, fmt.Errorf("config version is required")
	}
	if !strings.HasPrefix(version, Version) {
		return Config{}, fmt.Errorf("unsupported config version: %s", version)
	}

	// Decode over the defaults; UnmarshalJSON resolves env refs as it goes.
	config := Default()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := ValidateConfig(&config); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the resolved configuration
func ValidateConfig(config *Config) error {
	if config.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch config.Transport {
	case TransportStdio:
	case TransportSSE, TransportStreamable:
		if config.Addr == "" {
			return fmt.Errorf("addr is required for %s transport", config.Transport)
		}
		if config.Transport == TransportSSE && config.BaseURL == "" {
			log.LogWarn("baseURL is empty; SSE clients will receive relative message endpoints")
		}
	default:
		return fmt.Errorf("unknown transport %q (stdio, sse, or streamable-http)", config.Transport)
	}

	if config.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1")
	}
	if config.Batch.Concurrency > maxConcurrency {
		return fmt.Errorf("batch.concurrency cannot exceed %d", maxConcurrency)
	}

	for i, domain := range config.Disposable.ExtraDomains {
		if emailutil.Clean(domain) == "" {
			return fmt.Errorf("disposable.extraDomains[%d] is empty", i)
		}
		if strings.Contains(domain, "@") {
			return fmt.Errorf("disposable.extraDomains[%d] must be a domain, not an address: %s", i, domain)
		}
		if !govalidator.IsDNSName(strings.TrimSpace(domain)) {
			return fmt.Errorf("disposable.extraDomains[%d] is not a valid domain name: %s", i, domain)
		}
	}

	for i, origin := range config.AllowedOrigins {
		if !govalidator.IsRequestURL(origin) {
			return fmt.Errorf("allowedOrigins[%d] is not an absolute URL: %s", i, origin)
		}
	}

	if config.LogLevel != "" {
		switch strings.ToLower(config.LogLevel) {
		case "error", "warn", "warning", "info", "debug", "trace":
		default:
			return fmt.Errorf("invalid logLevel: %s", config.LogLevel)
		}
	}

	return nil
}

// GenerateDefault writes a starter config file to path.
func GenerateDefault(path string) error {
	defaultConfig := map[string]any{
		"version":   Version,
		"name":      "perfectemail",
		"transport": "streamable-http",
		"addr":      ":8080",
		"baseURL":   "http://localhost:8080",
		"logLevel":  "info",
		"batch": map[string]any{
			"concurrency": 8,
		},
		"disposable": map[string]any{
			"extraDomains": []string{},
		},
	}

	data, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
