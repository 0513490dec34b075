// Package config loads the settings shared by the automaton commands.
//
// Values come from three layers, later ones winning: built-in defaults, an
// optional YAML file and AUTOMATON_* environment variables. The merged map is
// decoded into Config with mapstructure.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// RedisConfig holds the connection settings of the redis store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

// Config is the decoded configuration.
type Config struct {
	Store    string      `mapstructure:"store" yaml:"store"`
	Dir      string      `mapstructure:"dir" yaml:"dir"`
	Redis    RedisConfig `mapstructure:"redis" yaml:"redis"`
	Listen   string      `mapstructure:"listen" yaml:"listen"`
	LogLevel string      `mapstructure:"log_level" yaml:"log_level"`
}

func defaults() map[string]any {
	return map[string]any{
		"store": StoreMemory,
		"dir":   ".automata",
		"redis": map[string]any{
			"addr":   "localhost:6379",
			"db":     0,
			"prefix": "automaton:",
		},
		"listen":    ":8080",
		"log_level": "info",
	}
}

// envKeys maps environment variables to their dotted configuration key.
var envKeys = map[string]string{
	"AUTOMATON_STORE":          "store",
	"AUTOMATON_DIR":            "dir",
	"AUTOMATON_REDIS_ADDR":     "redis.addr",
	"AUTOMATON_REDIS_PASSWORD": "redis.password",
	"AUTOMATON_REDIS_DB":       "redis.db",
	"AUTOMATON_REDIS_PREFIX":   "redis.prefix",
	"AUTOMATON_LISTEN":         "listen",
	"AUTOMATON_LOG_LEVEL":      "log_level",
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg, err := decode(defaults())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the YAML file at ``path`` (skipped when empty), applies the
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	values := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		merge(values, file)
	}

	for env, key := range envKeys {
		if v, ok := os.LookupEnv(env); ok {
			set(values, key, v)
		}
	}

	cfg, err := decode(values)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func decode(values map[string]any) (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// merge copies ``src`` into ``dst``, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		sub, isMap := v.(map[string]any)
		existing, hasMap := dst[k].(map[string]any)
		if isMap && hasMap {
			merge(existing, sub)
			continue
		}
		dst[k] = v
	}
}

// set assigns a dotted ``key`` like "redis.addr".
func set(values map[string]any, key string, v any) {
	parts := strings.Split(key, ".")
	m := values
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = v
}

// Validate checks the store selection and its required settings.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreFile:
		if c.Dir == "" {
			return fmt.Errorf("%w: the file store needs a directory", ErrInvalidConfig)
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: the redis store needs an address", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	return nil
}
