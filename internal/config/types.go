package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Version is the config schema version this build understands.
const Version = "v0.0.1"

// TransportType selects how the MCP tool server is exposed
type TransportType string

const (
	TransportStdio      TransportType = "stdio"
	TransportSSE        TransportType = "sse"
	TransportStreamable TransportType = "streamable-http"
)

// IsHTTP reports whether the transport listens on a network address.
func (t TransportType) IsHTTP() bool {
	return t == TransportSSE || t == TransportStreamable
}

// BatchConfig configures bulk processing
type BatchConfig struct {
	Concurrency int `json:"concurrency"`
}

// DisposableConfig configures the disposable-domain checker
type DisposableConfig struct {
	ExtraDomains []string `json:"extraDomains,omitempty"`
}

// Config represents the config structure with resolved values
type Config struct {
	Version    string           `json:"version"`
	Name       string           `json:"name"`
	Transport  TransportType    `json:"transport"`
	Addr       string           `json:"addr,omitempty"`
	BaseURL    string           `json:"baseURL,omitempty"`
	LogLevel   string           `json:"logLevel,omitempty"`
	Batch      BatchConfig      `json:"batch"`
	Disposable DisposableConfig `json:"disposable"`

	// AllowedOrigins restricts CORS on the HTTP transports; empty allows all.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Version:   Version,
		Name:      "perfectemail",
		Transport: TransportStdio,
		Addr:      ":8080",
		Batch: BatchConfig{
			Concurrency: 8,
		},
	}
}

// UnmarshalJSON resolves {"$env": "VAR"} references in string fields while
// decoding. Unset fields keep the values already in c, so decoding into
// Default() layers the file over the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	type rawConfig struct {
		Version    string            `json:"version"`
		Name       json.RawMessage   `json:"name,omitempty"`
		Transport  json.RawMessage   `json:"transport,omitempty"`
		Addr       json.RawMessage   `json:"addr,omitempty"`
		BaseURL    json.RawMessage   `json:"baseURL,omitempty"`
		LogLevel   json.RawMessage   `json:"logLevel,omitempty"`
		Batch      *BatchConfig      `json:"batch,omitempty"`
		Disposable *DisposableConfig `json:"disposable,omitempty"`

		AllowedOrigins []string `json:"allowedOrigins,omitempty"`
	}

	// json decodes into the existing pointees, keeping unset nested fields.
	batch, disposable := c.Batch, c.Disposable
	raw := rawConfig{Batch: &batch, Disposable: &disposable}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Version = raw.Version

	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"name", raw.Name, &c.Name},
		{"addr", raw.Addr, &c.Addr},
		{"baseURL", raw.BaseURL, &c.BaseURL},
		{"logLevel", raw.LogLevel, &c.LogLevel},
	}
	for _, f := range fields {
		if f.raw == nil {
			continue
		}
		value, err := ParseConfigValue(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", f.name, err)
		}
		*f.dst = value
	}

	if raw.Transport != nil {
		value, err := ParseConfigValue(raw.Transport)
		if err != nil {
			return fmt.Errorf("parsing transport: %w", err)
		}
		c.Transport = TransportType(value)
	}

	if raw.Batch != nil {
		c.Batch = *raw.Batch
	}
	if raw.Disposable != nil {
		c.Disposable = *raw.Disposable
	}
	if raw.AllowedOrigins != nil {
		c.AllowedOrigins = raw.AllowedOrigins
	}

	return nil
}

// ParseConfigValue parses a JSON value that is either a plain string or an
// {"$env": "VAR"} reference, resolving the reference immediately.
func ParseConfigValue(raw json.RawMessage) (string, error) {
	// Try plain string first
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, nil
	}

	var ref map[string]string
	if err := json.Unmarshal(raw, &ref); err != nil {
		return "", fmt.Errorf("config value must be string or reference object")
	}

	envVar, ok := ref["$env"]
	if !ok {
		return "", fmt.Errorf("unknown reference type in config value")
	}

	value := os.Getenv(envVar)
	if value == "" {
		return "", fmt.Errorf("environment variable %s not set", envVar)
	}
	// Strip surrounding quotes if present (only matching pairs)
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return value, nil
}
