// Package config provides configuration for the swarmsync daemon.
//
// This package handles loading and validation of daemon configuration from
// JSON files and environment variables.
//
// # Core Components
//
// Config: Main configuration structure containing the backend endpoint,
// client tuning knobs, metrics server settings, NATS bridge settings, and
// logging options. Credentials are referenced by environment variable name,
// never stored in the file.
//
// Loader: Loads configuration with layer merging (base + overrides) and
// environment variable substitution for flexible deployment scenarios.
//
// # Basic Usage
//
// Loading configuration from files with layer merging:
//
//	loader := config.NewLoader()
//	loader.AddLayer("config/base.json")
//	loader.AddLayer("config/production.json") // Overrides base
//	loader.EnableValidation(true)
//
//	cfg, err := loader.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// With no layers, Load returns the built-in defaults: the sync client's
// connection constants, metrics on :9090, bridge disabled, JSON logging at
// info level.
//
// # Environment Variable Overrides
//
// Configuration values can be overridden using environment variables:
//
//	# Override the backend endpoint
//	export SWARMSYNC_ENDPOINT="wss://orchestrator.internal/ws"
//
//	# Override the NATS URL for the bridge
//	export SWARMSYNC_BRIDGE_URL="nats://nats.internal:4222"
//
// # Layer Merging
//
// Configuration layers are merged with last-wins semantics:
//
//	base.json:
//	  {"log": {"level": "debug", "format": "text"}}
//
//	production.json:
//	  {"log": {"level": "info"}}
//
//	Result:
//	  {"log": {"level": "info", "format": "text"}}
//
// # Security
//
// The package includes security validation:
//   - File size limits (1MB max) to prevent memory exhaustion
//   - JSON depth validation (100 levels max) to prevent DoS attacks
//   - Path validation to prevent directory traversal
//   - Regular file checks (no symlinks or device files)
package config
