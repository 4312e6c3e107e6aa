// Package config loads the YAML configuration for the cache binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/cache"
	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy"
	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy/approx"
	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy/lru"
	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/policy/twoq"
	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/ttl"
)

// ErrUnknownPolicy is returned for a policy name other than approx, lru or 2q.
var ErrUnknownPolicy = errors.New("config: unknown eviction policy")

// CacheConfig holds the settings of one named cache instance.
// Durations are in seconds; zero values take the cache defaults.
type CacheConfig struct {
	Name              string `yaml:"name"`
	MaxEntries        int    `yaml:"max_entries"`
	DefaultTTL        int    `yaml:"default_ttl"`
	CleanupInterval   int    `yaml:"cleanup_interval"`
	Policy            string `yaml:"policy"`
	DisableCoalescing bool   `yaml:"disable_coalescing"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds the metrics endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Config holds the complete configuration.
type Config struct {
	Caches       []CacheConfig  `yaml:"caches"`
	TTLOverrides map[string]int `yaml:"ttl_overrides"`
	Log          LogConfig      `yaml:"log"`
	Metrics      MetricsConfig  `yaml:"metrics"`
}

// Default returns the configuration used when no file is given: the shared
// API cache and the general-purpose cache.
func Default() *Config {
	return &Config{
		Caches: []CacheConfig{
			{Name: "api", MaxEntries: 2000},
			{Name: "general", MaxEntries: cache.DefaultMaxEntries},
		},
		Log:     LogConfig{Level: "info", Format: "console"},
		Metrics: MetricsConfig{Addr: ":2112"},
	}
}

// Load reads the YAML file at path. Sections absent from the file keep the
// values of Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var fileCfg Config
	if err := yaml.NewDecoder(file).Decode(&fileCfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if len(fileCfg.Caches) > 0 {
		cfg.Caches = fileCfg.Caches
	}
	if fileCfg.TTLOverrides != nil {
		cfg.TTLOverrides = fileCfg.TTLOverrides
	}
	if fileCfg.Log.Level != "" {
		cfg.Log.Level = fileCfg.Log.Level
	}
	if fileCfg.Log.Format != "" {
		cfg.Log.Format = fileCfg.Log.Format
	}
	if fileCfg.Metrics.Addr != "" {
		cfg.Metrics.Addr = fileCfg.Metrics.Addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cache names and policies and the TTL overrides.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Caches))
	for _, cc := range c.Caches {
		if cc.Name == "" {
			return errors.New("config: cache without a name")
		}
		if seen[cc.Name] {
			return fmt.Errorf("config: duplicate cache %q", cc.Name)
		}
		seen[cc.Name] = true
		if _, err := NewPolicy(cc.Policy, cc.MaxEntries); err != nil {
			return fmt.Errorf("cache %q: %w", cc.Name, err)
		}
	}
	_, err := c.TTLTable()
	return err
}

// Cache returns the section named name.
func (c *Config) Cache(name string) (CacheConfig, bool) {
	for _, cc := range c.Caches {
		if cc.Name == name {
			return cc, true
		}
	}
	return CacheConfig{}, false
}

// TTLTable returns the default TTL table with the configured overrides.
func (c *Config) TTLTable() (ttl.Table, error) {
	return ttl.Defaults().WithOverrides(c.TTLOverrides)
}

// NewPolicy maps a policy name to an implementation. maxEntries sizes the
// 2Q queues; zero means cache.DefaultMaxEntries.
func NewPolicy(name string, maxEntries int) (policy.Policy, error) {
	if maxEntries <= 0 {
		maxEntries = cache.DefaultMaxEntries
	}
	switch name {
	case "", "approx":
		return approx.New(), nil
	case "lru":
		return lru.New(), nil
	case "2q":
		return twoq.New(maxEntries/4, maxEntries/2), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// CacheOptions converts cc into cache options. log and m may be nil.
func CacheOptions[V any](cc CacheConfig, log *zap.Logger, m cache.Metrics) (cache.Options[V], error) {
	pol, err := NewPolicy(cc.Policy, cc.MaxEntries)
	if err != nil {
		return cache.Options[V]{}, err
	}
	if log != nil {
		log = log.With(zap.String("cache", cc.Name))
	}
	return cache.Options[V]{
		MaxEntries:        cc.MaxEntries,
		DefaultTTL:        time.Duration(cc.DefaultTTL) * time.Second,
		CleanupInterval:   time.Duration(cc.CleanupInterval) * time.Second,
		Policy:            pol,
		DisableCoalescing: cc.DisableCoalescing,
		Metrics:           m,
		Logger:            log,
	}, nil
}
