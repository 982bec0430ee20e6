package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/asaskevich/govalidator"
)

// ValidationResult holds validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// ValidationError represents a validation issue
type ValidationError struct {
	Path    string
	Message string
}

// IsValid returns true if there are no errors
func (v *ValidationResult) IsValid() bool {
	return len(v.Errors) == 0
}

func (v *ValidationResult) addError(path, format string, args ...any) {
	v.Errors = append(v.Errors, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *ValidationResult) addWarning(path, format string, args ...any) {
	v.Warnings = append(v.Warnings, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
}

var knownKeys = []string{"version", "name", "transport", "addr", "baseURL", "logLevel", "batch", "disposable", "allowedOrigins"}

// ValidateFile validates a config file structure without requiring env vars
func ValidateFile(path string) (*ValidationResult, error) {
	result := &ValidationResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var rawConfig map[string]any
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		result.addError("", "invalid JSON: %v", err)
		return result, nil
	}

	checkBashStyleSyntax(rawConfig, "", result)

	version, ok := rawConfig["version"].(string)
	if !ok {
		result.addError("version", "version field is required. Hint: Add \"version\": %q", Version)
	} else if !strings.HasPrefix(version, Version) {
		result.addError("version", "unsupported version '%s' - use '%s'", version, Version)
	}

	for key := range rawConfig {
		if !slices.Contains(knownKeys, key) {
			result.addWarning(key, "unknown field %q is ignored", key)
		}
	}

	for _, key := range []string{"name", "addr", "baseURL", "logLevel"} {
		if value, exists := rawConfig[key]; exists {
			if msg := checkStringOrEnvRef(value); msg != "" {
				result.addError(key, "%s %s", key, msg)
			}
		}
	}

	validateTransportStructure(rawConfig, result)
	validateBatchStructure(rawConfig, result)
	validateDisposableStructure(rawConfig, result)
	validateOriginsStructure(rawConfig, result)

	return result, nil
}

// checkStringOrEnvRef returns a problem description, or "" when value is a
// string or an {"$env": "VAR"} reference.
func checkStringOrEnvRef(value any) string {
	switch v := value.(type) {
	case string:
		return ""
	case map[string]any:
		envVar, ok := v["$env"].(string)
		if !ok || len(v) != 1 {
			return fmt.Sprintf("must use {\"$env\": \"YOUR_ENV_VAR\"} format, not %v", v)
		}
		if envVar == "" {
			return "has an empty $env reference"
		}
		return ""
	default:
		return fmt.Sprintf("must be a string or {\"$env\": \"YOUR_ENV_VAR\"}, not %T", value)
	}
}

func validateTransportStructure(rawConfig map[string]any, result *ValidationResult) {
	transport := TransportStdio
	if value, exists := rawConfig["transport"]; exists {
		s, ok := value.(string)
		if !ok {
			// env refs are resolved at load time; nothing more to check here
			if msg := checkStringOrEnvRef(value); msg != "" {
				result.addError("transport", "transport %s", msg)
			}
			return
		}
		transport = TransportType(s)
	}

	switch transport {
	case TransportStdio:
		if _, exists := rawConfig["addr"]; exists {
			result.addWarning("addr", "addr is ignored with stdio transport")
		}
	case TransportSSE, TransportStreamable:
		if _, exists := rawConfig["addr"]; !exists {
			result.addError("addr", "addr is required for %s transport. Example: \":8080\"", transport)
		}
		if _, exists := rawConfig["baseURL"]; !exists && transport == TransportSSE {
			result.addWarning("baseURL", "baseURL is recommended for sse transport so clients get absolute message endpoints")
		}
	default:
		result.addError("transport", "unknown transport '%s' - use stdio, sse, or streamable-http", transport)
	}
}

func validateBatchStructure(rawConfig map[string]any, result *ValidationResult) {
	value, exists := rawConfig["batch"]
	if !exists {
		return
	}
	batch, ok := value.(map[string]any)
	if !ok {
		result.addError("batch", "batch must be an object")
		return
	}
	if c, exists := batch["concurrency"]; exists {
		n, ok := c.(float64)
		switch {
		case !ok || n != float64(int(n)):
			result.addError("batch.concurrency", "concurrency must be an integer")
		case n < 1:
			result.addError("batch.concurrency", "concurrency must be at least 1")
		case n > maxConcurrency:
			result.addError("batch.concurrency", "concurrency cannot exceed %d", maxConcurrency)
		}
	}
}

func validateDisposableStructure(rawConfig map[string]any, result *ValidationResult) {
	value, exists := rawConfig["disposable"]
	if !exists {
		return
	}
	disposable, ok := value.(map[string]any)
	if !ok {
		result.addError("disposable", "disposable must be an object")
		return
	}
	extra, exists := disposable["extraDomains"]
	if !exists {
		return
	}
	domains, ok := extra.([]any)
	if !ok {
		result.addError("disposable.extraDomains", "extraDomains must be an array of strings")
		return
	}
	seen := make(map[string]bool, len(domains))
	for i, d := range domains {
		path := fmt.Sprintf("disposable.extraDomains[%d]", i)
		s, ok := d.(string)
		if !ok {
			result.addError(path, "domain must be a string, not %T", d)
			continue
		}
		if strings.Contains(s, "@") {
			result.addError(path, "'%s' is an address; list only the domain", s)
			continue
		}
		key := strings.ToLower(strings.TrimSpace(s))
		if seen[key] {
			result.addWarning(path, "duplicate domain '%s'", s)
		}
		seen[key] = true
	}
}

func validateOriginsStructure(rawConfig map[string]any, result *ValidationResult) {
	value, exists := rawConfig["allowedOrigins"]
	if !exists {
		return
	}
	origins, ok := value.([]any)
	if !ok {
		result.addError("allowedOrigins", "allowedOrigins must be an array of strings")
		return
	}
	for i, o := range origins {
		path := fmt.Sprintf("allowedOrigins[%d]", i)
		s, ok := o.(string)
		if !ok {
			result.addError(path, "origin must be a string, not %T", o)
			continue
		}
		if !govalidator.IsRequestURL(s) {
			result.addError(path, "'%s' is not an absolute origin like https://claude.ai", s)
		}
	}
	if transport, _ := rawConfig["transport"].(string); transport == "" || transport == string(TransportStdio) {
		result.addWarning("allowedOrigins", "allowedOrigins has no effect with stdio transport")
	}
}

// checkBashStyleSyntax recursively checks for bash-style env var syntax
func checkBashStyleSyntax(value any, path string, result *ValidationResult) {
	bashStyleRegex := regexp.MustCompile(`\$\{?[A-Z_][A-Z0-9_]*\}?`)

	switch v := value.(type) {
	case string:
		for _, match := range bashStyleRegex.FindAllString(v, -1) {
			varName := strings.Trim(match, "${}")
			result.addWarning(path, "found bash-style syntax '%s' - use {\"$env\": \"%s\"} instead", match, varName)
		}
	case map[string]any:
		if _, hasEnv := v["$env"]; hasEnv {
			return
		}
		for key, val := range v {
			newPath := key
			if path != "" {
				newPath = path + "." + key
			}
			checkBashStyleSyntax(val, newPath, result)
		}
	case []any:
		for i, item := range v {
			checkBashStyleSyntax(item, fmt.Sprintf("%s[%d]", path, i), result)
		}
	}
}
