// Package config loads settings from YAML files and the environment. Every
// file is optional; a missing config means built-in defaults. The weather
// API key is the one secret and is resolved separately from WEATHER_API_KEY
// or a secrets.yaml next to the config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings for all deskmate tools loaded from YAML and env.
type Config struct {
	WeatherAPIKey     string
	WeatherAPIURL     string
	WeatherAPITimeout time.Duration
	DefaultCity       string

	CacheBackend string // "memory", "bolt", or "memcached"
	CacheTTL     time.Duration
	StaleMaxAge  time.Duration
	BoltPath     string

	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	RateLimitRPS   int
	RateLimitBurst int

	FavoritesPath string
	ExpensesPath  string

	InventoryBackend string
	InventoryConnStr string

	WarmOnStart  bool
	WarmInterval time.Duration
}

type fileConfig struct {
	Weather struct {
		URL         string `yaml:"api_url"`
		Timeout     string `yaml:"timeout"`
		DefaultCity string `yaml:"default_city"`
	} `yaml:"weather"`

	Cache struct {
		Backend     string `yaml:"backend"`
		TTL         string `yaml:"ttl"`
		StaleMaxAge string `yaml:"stale_max_age"`
		BoltPath    string `yaml:"bolt_path"`
		Memcached   struct {
			Addrs        string `yaml:"addrs"`
			Timeout      string `yaml:"timeout"`
			MaxIdleConns int    `yaml:"max_idle_conns"`
		} `yaml:"memcached"`
	} `yaml:"cache"`

	Reliability struct {
		RetryMaxAttempts int    `yaml:"retry_max_attempts"`
		RetryBaseDelay   string `yaml:"retry_base_delay"`
		RetryMaxDelay    string `yaml:"retry_max_delay"`
		RateLimitRPS     int    `yaml:"rate_limit_rps"`
		RateLimitBurst   int    `yaml:"rate_limit_burst"`
	} `yaml:"reliability"`

	Favorites struct {
		Path string `yaml:"path"`
	} `yaml:"favorites"`

	Expenses struct {
		Path string `yaml:"path"`
	} `yaml:"expenses"`

	Inventory struct {
		Backend string `yaml:"backend"`
		ConnStr string `yaml:"conn_str"`
	} `yaml:"inventory"`

	Dashboard struct {
		WarmOnStart  *bool  `yaml:"warm_on_start"`
		WarmInterval string `yaml:"warm_interval"`
	} `yaml:"dashboard"`
}

type secretsFile struct {
	WeatherAPIKey string `yaml:"weather_api_key"`
}

// Load resolves the config file and builds the full configuration. The file
// is searched in order: $DESKMATE_CONFIG, ./config/{ENV_NAME}.yaml (default
// dev), then ~/.deskmate/{ENV_NAME}.yaml. No file at all is fine; defaults
// apply. A missing API key is not an error here, it fails later when a
// weather client is built, so the expense and inventory tools never need it.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	path, data, err := readFirstConfig(env)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	if data != nil {
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg := &Config{}

	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	if cfg.WeatherAPIKey == "" {
		key, err := readSecrets(path)
		if err != nil {
			return nil, err
		}
		cfg.WeatherAPIKey = key
	}

	cfg.WeatherAPIURL = fc.Weather.URL
	if cfg.WeatherAPIURL == "" {
		cfg.WeatherAPIURL = "https://api.openweathermap.org/data/2.5"
	}
	cfg.WeatherAPITimeout = parseDuration(fc.Weather.Timeout, 5*time.Second)
	cfg.DefaultCity = strings.TrimSpace(fc.Weather.DefaultCity)

	cfg.CacheBackend = strings.TrimSpace(strings.ToLower(os.Getenv("CACHE_BACKEND")))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = strings.TrimSpace(strings.ToLower(fc.Cache.Backend))
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "memory"
	}
	cfg.CacheTTL = parseDuration(fc.Cache.TTL, 10*time.Minute)
	cfg.StaleMaxAge = parseDurationOrZero(fc.Cache.StaleMaxAge, 0)
	if cfg.StaleMaxAge < 0 {
		cfg.StaleMaxAge = 0
	}
	cfg.BoltPath = fc.Cache.BoltPath
	if cfg.BoltPath == "" {
		cfg.BoltPath = filepath.Join(dataDir(), "cache.db")
	}

	cfg.MemcachedAddrs = strings.TrimSpace(os.Getenv("MEMCACHED_ADDRS"))
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = strings.TrimSpace(fc.Cache.Memcached.Addrs)
	}
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = "localhost:11211"
	}
	cfg.MemcachedTimeout = parseDuration(fc.Cache.Memcached.Timeout, 500*time.Millisecond)
	cfg.MemcachedMaxIdleConns = fc.Cache.Memcached.MaxIdleConns
	if cfg.MemcachedMaxIdleConns <= 0 {
		cfg.MemcachedMaxIdleConns = 2
	}

	cfg.RetryAttempts = fc.Reliability.RetryMaxAttempts
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	cfg.RetryBaseDelay = parseDuration(fc.Reliability.RetryBaseDelay, 100*time.Millisecond)
	cfg.RetryMaxDelay = parseDuration(fc.Reliability.RetryMaxDelay, 2*time.Second)
	cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 2
	}
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 4
	}

	cfg.FavoritesPath = fc.Favorites.Path
	if cfg.FavoritesPath == "" {
		cfg.FavoritesPath = filepath.Join(dataDir(), "favorite_locations.txt")
	}
	cfg.ExpensesPath = fc.Expenses.Path
	if cfg.ExpensesPath == "" {
		cfg.ExpensesPath = filepath.Join(dataDir(), "expenses.csv")
	}

	cfg.InventoryBackend = strings.TrimSpace(strings.ToLower(os.Getenv("INVENTORY_BACKEND")))
	if cfg.InventoryBackend == "" {
		cfg.InventoryBackend = strings.TrimSpace(strings.ToLower(fc.Inventory.Backend))
	}
	if cfg.InventoryBackend == "" {
		cfg.InventoryBackend = "sqlite"
	}
	cfg.InventoryConnStr = os.Getenv("INVENTORY_DSN")
	if cfg.InventoryConnStr == "" {
		cfg.InventoryConnStr = fc.Inventory.ConnStr
	}

	cfg.WarmOnStart = true
	if fc.Dashboard.WarmOnStart != nil {
		cfg.WarmOnStart = *fc.Dashboard.WarmOnStart
	}
	cfg.WarmInterval = parseDurationOrZero(fc.Dashboard.WarmInterval, 0)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFirstConfig returns the first config file that exists, or nil data
// when none does. A path set via DESKMATE_CONFIG must exist.
func readFirstConfig(env string) (string, []byte, error) {
	if p := os.Getenv("DESKMATE_CONFIG"); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", nil, fmt.Errorf("read config file %s: %w", p, err)
		}
		return p, data, nil
	}

	candidates := []string{filepath.Join("config", env+".yaml")}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".deskmate", env+".yaml"))
	}
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !os.IsNotExist(err) {
			return "", nil, fmt.Errorf("read config file %s: %w", p, err)
		}
	}
	return "", nil, nil
}

// readSecrets looks for secrets.yaml next to the loaded config file, then in
// the data directory. Absence is not an error.
func readSecrets(configPath string) (string, error) {
	var candidates []string
	if configPath != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(configPath), "secrets.yaml"))
	}
	candidates = append(candidates, filepath.Join("config", "secrets.yaml"), filepath.Join(dataDir(), "secrets.yaml"))

	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("read secrets file %s: %w", p, err)
		}
		var sec secretsFile
		if err := yaml.Unmarshal(data, &sec); err != nil {
			return "", fmt.Errorf("parse secrets file %s: %w", p, err)
		}
		if sec.WeatherAPIKey != "" {
			return sec.WeatherAPIKey, nil
		}
	}
	return "", nil
}

// dataDir is where deskmate keeps its files by default.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".deskmate")
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
// Used for parsing duration fields from YAML config with safe fallback to defaults.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d := parseDurationOrZero(s, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseDurationOrZero parses a duration string, returning defaultVal on empty string or parse error.
// Returns zero or negative durations as-is (caller should handle fallback).
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	if cfg.WeatherAPITimeout <= 0 {
		return fmt.Errorf("weather.timeout must be positive")
	}
	switch cfg.CacheBackend {
	case "memory", "bolt", "memcached":
		// valid
	default:
		return fmt.Errorf("cache.backend must be memory, bolt, or memcached, got %q", cfg.CacheBackend)
	}
	switch cfg.InventoryBackend {
	case "sqlite", "mysql", "postgres", "postgresql":
		// valid
	default:
		return fmt.Errorf("inventory.backend must be sqlite, mysql, or postgres, got %q", cfg.InventoryBackend)
	}
	return nil
}
