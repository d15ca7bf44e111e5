package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// durationFields lists the config keys that accept Go duration strings in
// JSON, by section.
var durationFields = map[string][]string{
	"client": {"heartbeat_interval", "request_timeout", "liveness_timeout", "reconnect_wait"},
}

// Loader handles configuration loading with layers and overrides.
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		layers:     []string{},
		validation: false,
		envPrefix:  "SWARMSYNC",
	}
}

// AddLayer adds a configuration file layer. Later layers override earlier
// ones.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables configuration validation.
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads configuration from a single file.
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load merges defaults, all configuration layers, and environment overrides,
// in that order.
func (l *Loader) Load() (*Config, error) {
	cfg := defaults()

	for _, path := range l.layers {
		rawConfig, err := l.loadRawJSON(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		cfg = l.mergeFromMap(cfg, rawConfig)
	}

	l.applyEnvOverrides(cfg)

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadRawJSON loads configuration from a JSON file as a map.
func (l *Loader) loadRawJSON(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := validateJSONDepth(data); err != nil {
		return nil, fmt.Errorf("invalid JSON structure: %w", err)
	}

	var rawConfig map[string]any
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		return nil, err
	}

	l.parseDurations(rawConfig)

	return rawConfig, nil
}

// parseDurations converts duration strings to nanoseconds so they unmarshal
// into time.Duration fields.
func (l *Loader) parseDurations(data map[string]any) {
	for section, fields := range durationFields {
		m, ok := data[section].(map[string]any)
		if !ok {
			continue
		}
		for _, field := range fields {
			if s, ok := m[field].(string); ok {
				if d, err := time.ParseDuration(s); err == nil {
					m[field] = d.Nanoseconds()
				}
			}
		}
	}
}

// mergeFromMap merges configuration from a raw map, only overriding fields
// present in the map.
func (l *Loader) mergeFromMap(base *Config, override map[string]any) *Config {
	if override == nil {
		return base
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return base
	}

	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return base
	}

	mergedMap := l.deepMergeMaps(baseMap, override)

	mergedJSON, err := json.Marshal(mergedMap)
	if err != nil {
		return base
	}

	var merged Config
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return base
	}

	return &merged
}

// deepMergeMaps recursively merges two maps, with override taking precedence.
func (l *Loader) deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any)

	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}

		// If both base and override have maps at this key, merge them
		if baseMap, baseOk := base[k].(map[string]any); baseOk {
			if overrideMap, overrideOk := v.(map[string]any); overrideOk {
				result[k] = l.deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}

		result[k] = v
	}

	return result
}

// applyEnvOverrides applies environment variable overrides. Values that fail
// basic validation are ignored rather than poisoning the config.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	l.override("ENDPOINT", func(val string) { cfg.Server.Endpoint = val })
	l.override("CREDENTIAL_ENV", func(val string) { cfg.Server.CredentialEnv = val })
	l.override("METRICS_ADDR", func(val string) { cfg.Metrics.Addr = val })
	l.override("BRIDGE_URL", func(val string) { cfg.Bridge.URL = val })
	l.override("LOG_LEVEL", func(val string) { cfg.Log.Level = val })
	l.override("LOG_FORMAT", func(val string) { cfg.Log.Format = val })
}

func (l *Loader) override(suffix string, apply func(string)) {
	key := l.envPrefix + "_" + suffix
	val := os.Getenv(key)
	if val == "" {
		return
	}
	if err := validateEnvVar(key, val); err != nil {
		return
	}
	apply(val)
}
