package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
	"unicode"

	"github.com/c360/swarmsync/pkg/retry"
	"github.com/c360/swarmsync/pkg/tlsutil"
	"github.com/c360/swarmsync/syncclient"
)

// Config is the complete daemon configuration. Durations accept Go duration
// strings in JSON ("30s", "2m"); zero values fall back to defaults at load
// time, so a config file only needs the fields it overrides.
type Config struct {
	Server  ServerConfig  `json:"server"`
	Client  ClientConfig  `json:"client,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty"`
	Bridge  BridgeConfig  `json:"bridge,omitempty"`
	Log     LogConfig     `json:"log,omitempty"`
}

// ServerConfig identifies the orchestration backend.
type ServerConfig struct {
	Endpoint      string               `json:"endpoint"`                 // WebSocket URL (ws, wss, http or https scheme)
	CredentialEnv string               `json:"credential_env,omitempty"` // Name of the env var holding the bearer token
	TLS           tlsutil.ClientConfig `json:"tls,omitempty"`
}

// ClientConfig tunes the sync client's connection behavior.
type ClientConfig struct {
	HeartbeatInterval time.Duration `json:"heartbeat_interval,omitempty"`
	RequestTimeout    time.Duration `json:"request_timeout,omitempty"`
	LivenessTimeout   time.Duration `json:"liveness_timeout,omitempty"` // 0 disables the watchdog
	ReconnectWait     time.Duration `json:"reconnect_wait,omitempty"`   // Base delay, doubles per attempt
	MaxReconnects     int           `json:"max_reconnects,omitempty"`   // Attempts before terminal failure
	QueueCapacity     int           `json:"queue_capacity,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"`
	Path    string `json:"path,omitempty"`
}

// BridgeConfig controls the optional NATS republisher.
type BridgeConfig struct {
	Enabled       bool    `json:"enabled"`
	URL           string  `json:"url,omitempty"`
	SubjectPrefix string  `json:"subject_prefix,omitempty"`
	TokenEnv      string  `json:"token_env,omitempty"`   // Name of the env var holding the NATS token
	RateLimit     float64 `json:"rate_limit,omitempty"`  // Publishes per second, 0 = unlimited
	RateBurst     int     `json:"rate_burst,omitempty"`  // Burst allowance when rate limited
	ClientName    string  `json:"client_name,omitempty"` // NATS client name reported to the server
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `json:"level,omitempty"`  // debug, info, warn, error
	Format string `json:"format,omitempty"` // json or text
}

// Validate checks the config and returns the first problem found, naming the
// offending field by its JSON path.
func (c *Config) Validate() error {
	if c.Server.Endpoint == "" {
		return errors.New("server.endpoint is required")
	}
	u, err := url.Parse(c.Server.Endpoint)
	if err != nil {
		return fmt.Errorf("server.endpoint: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return fmt.Errorf("server.endpoint scheme %q not supported (use ws, wss, http or https)", u.Scheme)
	}

	if err := c.validateTLS(); err != nil {
		return err
	}

	if c.Client.HeartbeatInterval <= 0 {
		return errors.New("client.heartbeat_interval must be positive")
	}
	if c.Client.RequestTimeout <= 0 {
		return errors.New("client.request_timeout must be positive")
	}
	if c.Client.LivenessTimeout < 0 {
		return errors.New("client.liveness_timeout must not be negative")
	}
	if c.Client.LivenessTimeout > 0 && c.Client.LivenessTimeout <= c.Client.HeartbeatInterval {
		return errors.New("client.liveness_timeout must exceed client.heartbeat_interval")
	}
	if c.Client.ReconnectWait <= 0 {
		return errors.New("client.reconnect_wait must be positive")
	}
	if c.Client.MaxReconnects < 1 {
		return errors.New("client.max_reconnects must be at least 1")
	}
	if c.Client.QueueCapacity < 1 {
		return errors.New("client.queue_capacity must be at least 1")
	}

	if c.Metrics.Enabled {
		if c.Metrics.Addr == "" {
			return errors.New("metrics.addr is required when metrics are enabled")
		}
		if c.Metrics.Path == "" || c.Metrics.Path[0] != '/' {
			return fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path)
		}
	}

	if c.Bridge.Enabled {
		if c.Bridge.URL == "" {
			return errors.New("bridge.url is required when the bridge is enabled")
		}
		if !isValidSubjectPart(c.Bridge.SubjectPrefix) {
			return fmt.Errorf(
				"bridge.subject_prefix %q is not valid for NATS subjects (must be alphanumeric with dots, dashes, underscores)",
				c.Bridge.SubjectPrefix,
			)
		}
		if c.Bridge.RateLimit < 0 {
			return errors.New("bridge.rate_limit must not be negative")
		}
		if c.Bridge.RateLimit > 0 && c.Bridge.RateBurst < 1 {
			return errors.New("bridge.rate_burst must be at least 1 when bridge.rate_limit is set")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q not supported (use debug, info, warn or error)", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q not supported (use json or text)", c.Log.Format)
	}

	return nil
}

// validateTLS validates the client TLS configuration. File contents are not
// parsed here; tlsutil reports PEM problems when the dialer is built.
func (c *Config) validateTLS() error {
	tlsCfg := c.Server.TLS
	if !tlsCfg.Enabled {
		return nil
	}

	// Client certificate comes as a pair or not at all
	if (tlsCfg.CertFile == "") != (tlsCfg.KeyFile == "") {
		return errors.New("server.tls.cert_file and server.tls.key_file must be set together")
	}

	if tlsCfg.CertFile != "" {
		if _, err := os.Stat(tlsCfg.CertFile); err != nil {
			return fmt.Errorf("server.tls.cert_file: %w", err)
		}
		if _, err := os.Stat(tlsCfg.KeyFile); err != nil {
			return fmt.Errorf("server.tls.key_file: %w", err)
		}
	}

	// Check all CA files exist
	for i, caFile := range tlsCfg.CAFiles {
		if _, err := os.Stat(caFile); err != nil {
			return fmt.Errorf("server.tls.ca_files[%d]: %w", i, err)
		}
	}

	// Warn if InsecureSkipVerify is enabled
	if tlsCfg.InsecureSkipVerify {
		_, _ = fmt.Fprintf(
			os.Stderr,
			"WARNING: TLS certificate verification is disabled (insecure_skip_verify=true). This should only be used in development/testing!\n",
		)
	}

	// Validate MinVersion if specified
	if tlsCfg.MinVersion != "" {
		if err := validateTLSVersion(tlsCfg.MinVersion); err != nil {
			return fmt.Errorf("server.tls.min_version: %w", err)
		}
	}

	return nil
}

// validateTLSVersion checks if a TLS version string is valid
func validateTLSVersion(version string) error {
	switch version {
	case "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS version %q (must be \"1.2\" or \"1.3\")", version)
	}
}

// isValidSubjectPart checks if a string is valid for use in NATS subjects.
// Valid characters are alphanumeric, dots, dashes, and underscores.
func isValidSubjectPart(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
			r != '-' && r != '_' && r != '.' {
			return false
		}
	}
	return true
}

// Credential resolves the bearer token from the configured environment
// variable. Empty when no variable is configured or it is unset.
func (c *Config) Credential() (string, error) {
	return resolveEnv(c.Server.CredentialEnv)
}

// BridgeToken resolves the NATS token from the configured environment
// variable.
func (c *Config) BridgeToken() (string, error) {
	return resolveEnv(c.Bridge.TokenEnv)
}

func resolveEnv(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	val := os.Getenv(name)
	if err := validateEnvVar(name, val); err != nil {
		return "", err
	}
	return val, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}

	data, err := json.Marshal(c)
	if err != nil {
		copied := *c
		return &copied
	}

	var clone Config
	if err := json.Unmarshal(data, &clone); err != nil {
		copied := *c
		return &copied
	}

	return &clone
}

// String returns a JSON representation of the config. Credentials never
// appear here; the config carries env var names, not values.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// SaveToFile writes the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return safeWriteFile(path, data)
}

// defaults returns the configuration the daemon runs with when no file or
// override says otherwise. Connection constants mirror the sync client's
// own defaults; the liveness watchdog is enabled at three heartbeat
// intervals.
func defaults() *Config {
	backoff := retry.DefaultBackoff()
	return &Config{
		Client: ClientConfig{
			HeartbeatInterval: syncclient.DefaultHeartbeatInterval,
			RequestTimeout:    syncclient.DefaultRequestTimeout,
			LivenessTimeout:   3 * syncclient.DefaultHeartbeatInterval,
			ReconnectWait:     backoff.Base,
			MaxReconnects:     backoff.MaxAttempts,
			QueueCapacity:     syncclient.DefaultQueueCapacity,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
			Path:    "/metrics",
		},
		Bridge: BridgeConfig{
			URL:           "nats://localhost:4222",
			SubjectPrefix: "swarm.sync",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
