package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "CITYROUTE_"

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MetricsEnabled  bool          `yaml:"metrics_enabled"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// StorageConfig location of the pebble node/edge store.
type StorageConfig struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
}

// SearchConfig tunes the shortest path engine.
type SearchConfig struct {
	IndexedFrontier bool          `yaml:"indexed_frontier"`
	MaxDepth        int           `yaml:"max_depth"` // -1 = unbounded
	GeoTimeout      time.Duration `yaml:"geo_timeout"`
	SnapRadiusKm    float64       `yaml:"snap_radius_km"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"` // text|json
	IncludeCaller bool   `yaml:"include_caller"`
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 5000
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultStorageDir      = "cityrouteDB"
	defaultGeoTimeout      = 5 * time.Second
	defaultSnapRadiusKm    = 10
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
)

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:            defaultHost,
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
			MetricsEnabled:  true,
			AllowedOrigins:  []string{"https://*", "http://*"},
		},
		Storage: StorageConfig{
			Dir: defaultStorageDir,
		},
		Search: SearchConfig{
			MaxDepth:     -1,
			GeoTimeout:   defaultGeoTimeout,
			SnapRadiusKm: defaultSnapRadiusKm,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
	}
}

// Load applies defaults, then the YAML file at path (skipped when path is empty),
// then CITYROUTE_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTP.Host = valueOrDefault("HTTP_HOST", cfg.HTTP.Host)
	port, err := parseIntWithDefault("HTTP_PORT", cfg.HTTP.Port)
	if err != nil {
		return err
	}
	cfg.HTTP.Port = port

	durations := map[string]*time.Duration{
		"HTTP_READ_TIMEOUT":     &cfg.HTTP.ReadTimeout,
		"HTTP_WRITE_TIMEOUT":    &cfg.HTTP.WriteTimeout,
		"HTTP_IDLE_TIMEOUT":     &cfg.HTTP.IdleTimeout,
		"HTTP_SHUTDOWN_TIMEOUT": &cfg.HTTP.ShutdownTimeout,
		"SEARCH_GEO_TIMEOUT":    &cfg.Search.GeoTimeout,
	}
	for key, dst := range durations {
		v := os.Getenv(envPrefix + key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*dst = d
	}

	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("HTTP_METRICS_ENABLED", cfg.HTTP.MetricsEnabled)
	if v := os.Getenv(envPrefix + "HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitCSV(v)
	}

	cfg.Storage.Dir = valueOrDefault("STORAGE_DIR", cfg.Storage.Dir)
	cfg.Storage.InMemory = parseBoolWithDefault("STORAGE_IN_MEMORY", cfg.Storage.InMemory)

	cfg.Search.IndexedFrontier = parseBoolWithDefault("SEARCH_INDEXED_FRONTIER", cfg.Search.IndexedFrontier)
	depth, err := parseIntWithDefault("SEARCH_MAX_DEPTH", cfg.Search.MaxDepth)
	if err != nil {
		return err
	}
	cfg.Search.MaxDepth = depth
	if v := os.Getenv(envPrefix + "SEARCH_SNAP_RADIUS_KM"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEARCH_SNAP_RADIUS_KM: %w", envPrefix, err)
		}
		cfg.Search.SnapRadiusKm = r
	}

	cfg.Logging.Level = valueOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.IncludeCaller = parseBoolWithDefault("LOG_INCLUDE_CALLER", cfg.Logging.IncludeCaller)
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", c.HTTP.Port))
	}
	if !c.Storage.InMemory && strings.TrimSpace(c.Storage.Dir) == "" {
		errs = append(errs, errors.New("storage dir is required unless storage is in memory"))
	}
	if c.Search.MaxDepth < -1 {
		errs = append(errs, fmt.Errorf("search max depth %d must be -1 (unbounded) or non-negative", c.Search.MaxDepth))
	}
	if c.Search.GeoTimeout < 0 {
		errs = append(errs, fmt.Errorf("search geo timeout %s must not be negative", c.Search.GeoTimeout))
	}
	if c.Search.SnapRadiusKm <= 0 {
		errs = append(errs, fmt.Errorf("search snap radius %v must be positive", c.Search.SnapRadiusKm))
	}
	return errors.Join(errs...)
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(envPrefix + key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) (int, error) {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s value %q: %w", envPrefix, key, v, err)
	}
	return val, nil
}

func splitCSV(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
