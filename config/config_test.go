package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/swarmsync/pkg/tlsutil"
)

// Helper to write a config file into a temp dir
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.json")
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)
	return configFile
}

// Test basic config structure
func TestConfig_Structure(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Endpoint:      "wss://orchestrator.internal/ws",
			CredentialEnv: "SWARM_TOKEN",
		},
		Client: ClientConfig{
			HeartbeatInterval: 30 * time.Second,
			MaxReconnects:     10,
		},
	}

	assert.Equal(t, "wss://orchestrator.internal/ws", cfg.Server.Endpoint)
	assert.Equal(t, "SWARM_TOKEN", cfg.Server.CredentialEnv)
	assert.Equal(t, 30*time.Second, cfg.Client.HeartbeatInterval)
}

// Test loading config from JSON file
func TestLoader_LoadJSON(t *testing.T) {
	configFile := writeConfig(t, `{
		"server": {
			"endpoint": "wss://orchestrator.internal/ws",
			"credential_env": "SWARM_TOKEN"
		},
		"client": {
			"heartbeat_interval": "45s",
			"request_timeout": "15s",
			"reconnect_wait": "1s",
			"max_reconnects": 5,
			"queue_capacity": 20
		},
		"metrics": {
			"enabled": true,
			"addr": ":7070"
		},
		"bridge": {
			"enabled": true,
			"url": "nats://nats.internal:4222",
			"subject_prefix": "orch.updates",
			"rate_limit": 100,
			"rate_burst": 10
		},
		"log": {
			"level": "debug",
			"format": "text"
		}
	}`)

	loader := NewLoader()
	cfg, err := loader.LoadFile(configFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "wss://orchestrator.internal/ws", cfg.Server.Endpoint)
	assert.Equal(t, "SWARM_TOKEN", cfg.Server.CredentialEnv)
	assert.Equal(t, 45*time.Second, cfg.Client.HeartbeatInterval)
	assert.Equal(t, 15*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, time.Second, cfg.Client.ReconnectWait)
	assert.Equal(t, 5, cfg.Client.MaxReconnects)
	assert.Equal(t, 20, cfg.Client.QueueCapacity)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":7070", cfg.Metrics.Addr)
	assert.True(t, cfg.Bridge.Enabled)
	assert.Equal(t, "nats://nats.internal:4222", cfg.Bridge.URL)
	assert.Equal(t, "orch.updates", cfg.Bridge.SubjectPrefix)
	assert.Equal(t, float64(100), cfg.Bridge.RateLimit)
	assert.Equal(t, 10, cfg.Bridge.RateBurst)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

// Test default values
func TestLoader_Defaults(t *testing.T) {
	// Minimal config with only the endpoint
	configFile := writeConfig(t, `{
		"server": {
			"endpoint": "wss://orchestrator.internal/ws"
		}
	}`)

	loader := NewLoader()
	cfg, err := loader.LoadFile(configFile)
	require.NoError(t, err)

	// Check defaults were applied
	assert.Equal(t, 30*time.Second, cfg.Client.HeartbeatInterval)
	assert.Equal(t, 10*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, 90*time.Second, cfg.Client.LivenessTimeout) // three heartbeats
	assert.Equal(t, 2*time.Second, cfg.Client.ReconnectWait)
	assert.Equal(t, 10, cfg.Client.MaxReconnects)
	assert.Equal(t, 50, cfg.Client.QueueCapacity)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Bridge.Enabled) // bridge dormant by default
	assert.Equal(t, "nats://localhost:4222", cfg.Bridge.URL)
	assert.Equal(t, "swarm.sync", cfg.Bridge.SubjectPrefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

// Test merging configuration layers
func TestLoader_LayerMerging(t *testing.T) {
	tmpDir := t.TempDir()

	baseFile := filepath.Join(tmpDir, "base.json")
	err := os.WriteFile(baseFile, []byte(`{
		"server": {"endpoint": "ws://dev.local/ws"},
		"log": {"level": "debug", "format": "text"}
	}`), 0644)
	require.NoError(t, err)

	prodFile := filepath.Join(tmpDir, "production.json")
	err = os.WriteFile(prodFile, []byte(`{
		"server": {"endpoint": "wss://orchestrator.internal/ws"},
		"log": {"level": "info"}
	}`), 0644)
	require.NoError(t, err)

	loader := NewLoader()
	loader.AddLayer(baseFile)
	loader.AddLayer(prodFile)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "wss://orchestrator.internal/ws", cfg.Server.Endpoint) // from production
	assert.Equal(t, "info", cfg.Log.Level)                                 // from production
	assert.Equal(t, "text", cfg.Log.Format)                                // from base
	assert.Equal(t, 50, cfg.Client.QueueCapacity)                          // from defaults
}

// Test environment variable overrides
func TestLoader_EnvOverrides(t *testing.T) {
	_ = os.Setenv("SWARMSYNC_ENDPOINT", "wss://env.internal/ws")
	_ = os.Setenv("SWARMSYNC_LOG_LEVEL", "warn")
	defer func() {
		_ = os.Unsetenv("SWARMSYNC_ENDPOINT")
		_ = os.Unsetenv("SWARMSYNC_LOG_LEVEL")
	}()

	configFile := writeConfig(t, `{
		"server": {"endpoint": "wss://file.internal/ws"},
		"log": {"level": "debug", "format": "text"}
	}`)

	loader := NewLoader()
	cfg, err := loader.LoadFile(configFile)
	require.NoError(t, err)

	// Env vars should override JSON
	assert.Equal(t, "wss://env.internal/ws", cfg.Server.Endpoint)
	assert.Equal(t, "warn", cfg.Log.Level)

	// JSON value should remain when no env override
	assert.Equal(t, "text", cfg.Log.Format)
}

// Test validation
func TestLoader_Validation(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		wantError string
	}{
		{
			name:      "missing endpoint",
			config:    `{}`,
			wantError: "server.endpoint is required",
		},
		{
			name: "unsupported endpoint scheme",
			config: `{
				"server": {"endpoint": "ftp://orchestrator.internal/ws"}
			}`,
			wantError: "server.endpoint scheme",
		},
		{
			name: "tls cert without key",
			config: `{
				"server": {
					"endpoint": "wss://orchestrator.internal/ws",
					"tls": {"enabled": true, "cert_file": "/tmp/client.pem"}
				}
			}`,
			wantError: "server.tls.cert_file and server.tls.key_file must be set together",
		},
		{
			name: "tls missing ca file",
			config: `{
				"server": {
					"endpoint": "wss://orchestrator.internal/ws",
					"tls": {"enabled": true, "ca_files": ["/nonexistent/ca.pem"]}
				}
			}`,
			wantError: "server.tls.ca_files[0]",
		},
		{
			name: "tls unknown min version",
			config: `{
				"server": {
					"endpoint": "wss://orchestrator.internal/ws",
					"tls": {"enabled": true, "min_version": "1.1"}
				}
			}`,
			wantError: "server.tls.min_version",
		},
		{
			name: "liveness below heartbeat",
			config: `{
				"server": {"endpoint": "wss://orchestrator.internal/ws"},
				"client": {"heartbeat_interval": "30s", "liveness_timeout": "10s"}
			}`,
			wantError: "client.liveness_timeout must exceed client.heartbeat_interval",
		},
		{
			name: "negative queue capacity",
			config: `{
				"server": {"endpoint": "wss://orchestrator.internal/ws"},
				"client": {"queue_capacity": -1}
			}`,
			wantError: "client.queue_capacity must be at least 1",
		},
		{
			name: "bridge without url",
			config: `{
				"server": {"endpoint": "wss://orchestrator.internal/ws"},
				"bridge": {"enabled": true, "url": ""}
			}`,
			wantError: "bridge.url is required",
		},
		{
			name: "bridge subject prefix with spaces",
			config: `{
				"server": {"endpoint": "wss://orchestrator.internal/ws"},
				"bridge": {"enabled": true, "subject_prefix": "swarm sync"}
			}`,
			wantError: "bridge.subject_prefix",
		},
		{
			name: "rate limit without burst",
			config: `{
				"server": {"endpoint": "wss://orchestrator.internal/ws"},
				"bridge": {"enabled": true, "rate_limit": 50}
			}`,
			wantError: "bridge.rate_burst must be at least 1",
		},
		{
			name: "metrics path without slash",
			config: `{
				"server": {"endpoint": "wss://orchestrator.internal/ws"},
				"metrics": {"enabled": true, "addr": ":9090", "path": "metrics"}
			}`,
			wantError: "metrics.path",
		},
		{
			name: "unknown log level",
			config: `{
				"server": {"endpoint": "wss://orchestrator.internal/ws"},
				"log": {"level": "verbose"}
			}`,
			wantError: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := writeConfig(t, tt.config)

			loader := NewLoader()
			loader.EnableValidation(true)

			_, err := loader.LoadFile(configFile)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

// Test TLS settings pass validation when the referenced files exist
func TestConfig_TLSFilesExist(t *testing.T) {
	tmpDir := t.TempDir()
	caFile := filepath.Join(tmpDir, "ca.pem")
	certFile := filepath.Join(tmpDir, "cert.pem")
	keyFile := filepath.Join(tmpDir, "key.pem")
	for _, f := range []string{caFile, certFile, keyFile} {
		require.NoError(t, os.WriteFile(f, []byte("pem"), 0600))
	}

	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)

	cfg.Server.Endpoint = "wss://orchestrator.internal/ws"
	cfg.Server.TLS = tlsutil.ClientConfig{
		Enabled:    true,
		CAFiles:    []string{caFile},
		CertFile:   certFile,
		KeyFile:    keyFile,
		MinVersion: "1.3",
	}

	require.NoError(t, cfg.Validate())
}

// Test credential resolution from environment
func TestConfig_CredentialResolution(t *testing.T) {
	_ = os.Setenv("SWARM_TEST_TOKEN", "tok-abc")
	defer func() { _ = os.Unsetenv("SWARM_TEST_TOKEN") }()

	cfg := &Config{
		Server: ServerConfig{CredentialEnv: "SWARM_TEST_TOKEN"},
	}

	cred, err := cfg.Credential()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", cred)

	// No variable configured resolves to empty without error
	cfg.Server.CredentialEnv = ""
	cred, err = cfg.Credential()
	require.NoError(t, err)
	assert.Empty(t, cred)

	// Unset variable also resolves to empty
	cfg.Server.CredentialEnv = "SWARM_TEST_TOKEN_MISSING"
	cred, err = cfg.Credential()
	require.NoError(t, err)
	assert.Empty(t, cred)
}

// Test saving configuration back to file
func TestConfig_Save(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)

	cfg.Server.Endpoint = "wss://orchestrator.internal/ws"
	cfg.Bridge.Enabled = true

	tmpDir := t.TempDir()
	saveFile := filepath.Join(tmpDir, "saved.json")
	require.NoError(t, cfg.SaveToFile(saveFile))

	// Load it back
	loaded, err := NewLoader().LoadFile(saveFile)
	require.NoError(t, err)

	assert.Equal(t, cfg.Server.Endpoint, loaded.Server.Endpoint)
	assert.Equal(t, cfg.Client.HeartbeatInterval, loaded.Client.HeartbeatInterval)
	assert.Equal(t, cfg.Client.MaxReconnects, loaded.Client.MaxReconnects)
	assert.True(t, loaded.Bridge.Enabled)
	assert.Equal(t, cfg.Log.Format, loaded.Log.Format)
}

// Test clone independence
func TestConfig_Clone(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)
	cfg.Server.Endpoint = "wss://orchestrator.internal/ws"

	clone := cfg.Clone()
	clone.Server.Endpoint = "wss://other.internal/ws"
	clone.Client.MaxReconnects = 99

	assert.Equal(t, "wss://orchestrator.internal/ws", cfg.Server.Endpoint)
	assert.Equal(t, 10, cfg.Client.MaxReconnects)
}

// Test file loading safety checks
func TestLoader_FileSafety(t *testing.T) {
	loader := NewLoader()

	t.Run("rejects non-JSON extension", func(t *testing.T) {
		tmpDir := t.TempDir()
		yamlFile := filepath.Join(tmpDir, "config.yaml")
		require.NoError(t, os.WriteFile(yamlFile, []byte("server: {}"), 0644))

		_, err := loader.LoadFile(yamlFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only JSON config files allowed")
	})

	t.Run("rejects missing file", func(t *testing.T) {
		_, err := loader.LoadFile(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		configFile := writeConfig(t, `{"server": {`)
		_, err := loader.LoadFile(configFile)
		assert.Error(t, err)
	})
}
