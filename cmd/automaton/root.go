package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/wolever/automaton/internal/config"
	"github.com/wolever/automaton/internal/logging"
	"github.com/wolever/automaton/internal/metrics"
	"github.com/wolever/automaton/registry"
	"github.com/wolever/automaton/registry/file"
	"github.com/wolever/automaton/registry/memory"
	"github.com/wolever/automaton/registry/redis"
)

var rootCmd = &cobra.Command{
	Use:   "automaton",
	Short: "Build, combine and run finite automata",
	Long: `automaton compiles regular expressions into minimal DFAs, combines automata
(union, concatenation, star, complement, intersection, reverse) and runs words
through them. Automata are kept in a registry backed by memory, a directory
of .fa files or redis.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("store", "", "Registry backend: memory, file or redis (overrides the config)")
	rootCmd.PersistentFlags().String("dir", "", "Directory of the file store (overrides the config)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// app holds what the registry-backed commands share.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	registry *registry.Registry
	close    func() error
}

// loadConfig reads --config and applies the flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("store") {
		cfg.Store, _ = cmd.Flags().GetString("store")
	}
	if cmd.Flags().Changed("dir") {
		cfg.Dir, _ = cmd.Flags().GetString("dir")
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// newStore opens the configured registry backend.
func newStore(ctx context.Context, cfg *config.Config) (registry.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreFile:
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		return file.New(cfg.Dir), noop, nil
	case config.StoreRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return store, store.Close, nil
	default:
		return memory.NewStore(), noop, nil
	}
}

// setup builds the logger and the registry for a command.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(level)

	store, closeStore, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("Registry opened", "store", cfg.Store)

	m := metrics.New(prometheus.DefaultRegisterer)
	reg := registry.New(store,
		registry.WithLogger(logger),
		registry.WithMetrics(m),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		registry: reg,
		close:    closeStore,
	}, nil
}
