// Package main implements the entry point for the swarmsync daemon.
// swarmsync maintains a resilient WebSocket session to an agent
// orchestration backend, mirrors its state locally, and exposes it over
// Prometheus metrics, a health endpoint, and an optional NATS bridge.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/swarmsync/bridge"
	"github.com/c360/swarmsync/config"
	"github.com/c360/swarmsync/health"
	"github.com/c360/swarmsync/metric"
	"github.com/c360/swarmsync/orchestration"
	"github.com/c360/swarmsync/pkg/tlsutil"
	"github.com/c360/swarmsync/protocol"
	"github.com/c360/swarmsync/syncclient"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "swarmsync"
)

// clientComponent names the sync client in the health monitor.
const clientComponent = "syncclient"

// republishTags are the update envelopes forwarded onto NATS when the
// bridge is enabled. Session plumbing (heartbeats, acks, server errors)
// stays local.
var republishTags = []string{
	protocol.TypeAgentStatusUpdate,
	protocol.TypeNetworkTopologyUpdate,
	protocol.TypePerformanceMetricsUpdate,
	protocol.TypeTreeUpdate,
	protocol.TypeWorkflowUpdate,
	protocol.TypeSwarmCoordinationUpdate,
}

// daemon bundles the wired components for the run loop. bridge and metrics
// are nil when disabled in config.
type daemon struct {
	client  *syncclient.Client
	bridge  *bridge.Bridge
	metrics *metric.Server
}

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	// Run application with proper error handling
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	// Parse and validate CLI flags
	cliCfg, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	// Load and validate configuration
	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	// Wire the composition root
	d, err := buildDaemon(cfg)
	if err != nil {
		return err
	}

	// Run application with signal handling
	return runWithSignalHandling(context.Background(), d, cliCfg.ShutdownTimeout)
}

// initializeCLI parses flags, handles special modes, and sets up logging
func initializeCLI() (*CLIConfig, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, true, nil
	}

	if cliCfg.InitConfigPath != "" {
		return nil, true, writeDefaultConfig(cliCfg.InitConfigPath)
	}

	// Early logger so config loading failures are visible; rebuilt from the
	// merged config once it loads.
	logger := setupLogger(orDefault(cliCfg.LogLevel, "info"), orDefault(cliCfg.LogFormat, "json"))
	slog.SetDefault(logger)

	slog.Info("Starting swarmsync (orchestration state sync)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, false, nil
}

// initializeConfiguration loads and validates configuration
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	cfg, err := loader.LoadFile(cliCfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// CLI flags take precedence over the config file for logging
	if cliCfg.LogLevel != "" {
		cfg.Log.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.Log.Format = cliCfg.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	slog.SetDefault(setupLogger(cfg.Log.Level, cfg.Log.Format))

	return cfg, nil
}

// writeDefaultConfig writes the built-in defaults to the given path
func writeDefaultConfig(path string) error {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		return fmt.Errorf("build default config: %w", err)
	}

	if err := cfg.SaveToFile(path); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}

// buildDaemon wires store, metrics, health and clients from config
func buildDaemon(cfg *config.Config) (*daemon, error) {
	logger := slog.Default()
	registry := metric.NewMetricsRegistry()
	store := orchestration.NewStore()

	monitor := health.NewMonitor()
	monitor.UpdateConnectionState(clientComponent, syncclient.StateDisconnected.String())

	var b *bridge.Bridge
	if cfg.Bridge.Enabled {
		var err error
		b, err = buildBridge(cfg, logger, registry)
		if err != nil {
			return nil, err
		}
	}

	client, err := buildClient(cfg, logger, registry, store, monitor, b)
	if err != nil {
		return nil, fmt.Errorf("create sync client: %w", err)
	}

	var metricsServer *metric.Server
	if cfg.Metrics.Enabled {
		metricsServer = metric.NewServer(
			cfg.Metrics.Addr,
			cfg.Metrics.Path,
			registry,
			health.Handler(monitor, appName),
		)
	}

	return &daemon{
		client:  client,
		bridge:  b,
		metrics: metricsServer,
	}, nil
}

// buildBridge creates the NATS republisher from config
func buildBridge(
	cfg *config.Config,
	logger *slog.Logger,
	registry *metric.MetricsRegistry,
) (*bridge.Bridge, error) {
	token, err := cfg.BridgeToken()
	if err != nil {
		return nil, fmt.Errorf("resolve bridge token: %w", err)
	}

	opts := []bridge.Option{
		bridge.WithLogger(logger),
		bridge.WithMetrics(registry),
		bridge.WithSubjectPrefix(cfg.Bridge.SubjectPrefix),
		bridge.WithName(orDefault(cfg.Bridge.ClientName, appName)),
	}
	if token != "" {
		opts = append(opts, bridge.WithToken(token))
	}
	if cfg.Bridge.RateLimit > 0 {
		opts = append(opts, bridge.WithRateLimit(cfg.Bridge.RateLimit, cfg.Bridge.RateBurst))
	}

	b, err := bridge.New(cfg.Bridge.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bridge: %w", err)
	}

	return b, nil
}

// buildClient creates the sync client from config, wiring the health
// monitor and, when enabled, the bridge's per-tag republish handlers
func buildClient(
	cfg *config.Config,
	logger *slog.Logger,
	registry *metric.MetricsRegistry,
	store *orchestration.Store,
	monitor *health.Monitor,
	b *bridge.Bridge,
) (*syncclient.Client, error) {
	credential, err := cfg.Credential()
	if err != nil {
		return nil, fmt.Errorf("resolve credential: %w", err)
	}

	tlsConfig, err := tlsutil.LoadClientTLSConfig(cfg.Server.TLS)
	if err != nil {
		return nil, fmt.Errorf("load TLS config: %w", err)
	}

	opts := []syncclient.Option{
		syncclient.WithStore(store),
		syncclient.WithLogger(logger),
		syncclient.WithMetrics(registry),
		syncclient.WithHeartbeatInterval(cfg.Client.HeartbeatInterval),
		syncclient.WithRequestTimeout(cfg.Client.RequestTimeout),
		syncclient.WithReconnectPolicy(cfg.Client.ReconnectWait, cfg.Client.MaxReconnects),
		syncclient.WithQueueCapacity(cfg.Client.QueueCapacity),
		syncclient.WithLivenessTimeout(cfg.Client.LivenessTimeout),
		syncclient.WithStateChangeCallback(func(_, to syncclient.ConnectionState) {
			monitor.UpdateConnectionState(clientComponent, to.String())
		}),
	}
	if credential != "" {
		opts = append(opts, syncclient.WithCredential(credential))
	}
	if tlsConfig != nil {
		opts = append(opts, syncclient.WithTLSConfig(tlsConfig))
	}
	if b != nil {
		for _, tag := range republishTags {
			opts = append(opts, syncclient.WithHandler(tag, b.Republish))
		}
	}

	return syncclient.New(cfg.Server.Endpoint, opts...)
}

// runWithSignalHandling starts all components and handles shutdown signals
func runWithSignalHandling(ctx context.Context, d *daemon, shutdownTimeout time.Duration) error {
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	g, gctx := errgroup.WithContext(signalCtx)

	if d.bridge != nil {
		slog.Info("Connecting bridge to NATS")
		if err := d.bridge.Connect(gctx); err != nil {
			return fmt.Errorf("connect bridge: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			if err := d.bridge.Stop(shutdownTimeout); err != nil {
				return fmt.Errorf("stop bridge: %w", err)
			}
			return nil
		})
	}

	if d.metrics != nil {
		g.Go(func() error {
			slog.Info("Starting metrics server", "address", d.metrics.Address())
			if err := d.metrics.Start(); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			if err := d.metrics.Stop(shutdownTimeout); err != nil {
				return fmt.Errorf("stop metrics server: %w", err)
			}
			return nil
		})
	}

	if err := d.client.Start(gctx); err != nil {
		return fmt.Errorf("start sync client: %w", err)
	}
	d.client.Connect()

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		if err := d.client.Stop(shutdownTimeout); err != nil {
			return fmt.Errorf("stop sync client: %w", err)
		}
		return nil
	})

	slog.Info("swarmsync started",
		"bridge_enabled", d.bridge != nil,
		"metrics_enabled", d.metrics != nil)

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("swarmsync shutdown complete")
	return nil
}

// orDefault returns val when non-empty, otherwise fallback
func orDefault(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}
