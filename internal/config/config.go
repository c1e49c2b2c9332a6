// Package config loads jobfinder settings from the environment and an
// optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/db"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Listing source
	PageSize        int
	MaxPages        int
	TotalCount      int
	DefaultLocation string
	LatencyMin      time.Duration
	LatencyMax      time.Duration
	Seed            uint64 // 0 means time based

	// Favorites storage
	StoreBackend string
	DataDir      string
	FavoritesKey string
	RedisURL     string
	RedisPrefix  string

	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Export
	ExportDir string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables. When JOBFINDER_CONFIG
// names a YAML file its values override the environment.
func Load() (Config, error) {
	cfg := FromEnv()
	if path := os.Getenv("JOBFINDER_CONFIG"); path != "" {
		return LoadFile(cfg, path)
	}
	return cfg, nil
}

// FromEnv reads configuration from environment variables only.
func FromEnv() Config {
	return Config{
		PageSize:        getEnvInt("JOBFINDER_PAGE_SIZE", 20),
		MaxPages:        getEnvInt("JOBFINDER_MAX_PAGES", 25),
		TotalCount:      getEnvInt("JOBFINDER_TOTAL_COUNT", 500),
		DefaultLocation: getEnv("JOBFINDER_DEFAULT_LOCATION", "Brasil"),
		LatencyMin:      getEnvDuration("JOBFINDER_LATENCY_MIN", 600*time.Millisecond),
		LatencyMax:      getEnvDuration("JOBFINDER_LATENCY_MAX", time.Second),
		Seed:            uint64(getEnvInt("JOBFINDER_SEED", 0)),

		StoreBackend: getEnv("JOBFINDER_STORE", "file"),
		DataDir:      getEnv("JOBFINDER_DATA_DIR", defaultDataDir()),
		FavoritesKey: getEnv("JOBFINDER_FAVORITES_KEY", "job-favorites"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix:  getEnv("JOBFINDER_REDIS_PREFIX", "jobfinder:"),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "jobfinder"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "favorites"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		ExportDir: getEnv("JOBFINDER_EXPORT_DIR", "."),

		LogFile:  getEnv("JOBFINDER_LOG_FILE", "/tmp/jobfinder.log"),
		LogLevel: parseLogLevel(getEnv("JOBFINDER_LOG_LEVEL", "INFO")),
	}
}

// Store returns the storage backend configuration.
func (c Config) Store() db.Config {
	return db.Config{
		Backend:     c.StoreBackend,
		DataDir:     c.DataDir,
		RedisURL:    c.RedisURL,
		RedisPrefix: c.RedisPrefix,
		Surreal: db.SurrealConfig{
			URL:       c.SurrealDBURL,
			Namespace: c.SurrealDBNamespace,
			Database:  c.SurrealDBDatabase,
			Username:  c.SurrealDBUser,
			Password:  c.SurrealDBPass,
			AuthLevel: c.SurrealDBAuthLevel,
		},
	}
}

// fileConfig is the YAML layout. Empty values leave the base config alone.
type fileConfig struct {
	Source struct {
		PageSize        int    `yaml:"page_size"`
		MaxPages        int    `yaml:"max_pages"`
		TotalCount      int    `yaml:"total_count"`
		DefaultLocation string `yaml:"default_location"`
		LatencyMin      string `yaml:"latency_min"`
		LatencyMax      string `yaml:"latency_max"`
		Seed            uint64 `yaml:"seed"`
	} `yaml:"source"`
	Store struct {
		Backend      string `yaml:"backend"`
		DataDir      string `yaml:"data_dir"`
		FavoritesKey string `yaml:"favorites_key"`
		RedisURL     string `yaml:"redis_url"`
		RedisPrefix  string `yaml:"redis_prefix"`
		Surreal      struct {
			URL       string `yaml:"url"`
			Namespace string `yaml:"namespace"`
			Database  string `yaml:"database"`
			User      string `yaml:"user"`
			Pass      string `yaml:"pass"`
			AuthLevel string `yaml:"auth_level"`
		} `yaml:"surrealdb"`
	} `yaml:"store"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// LoadFile overlays the YAML file at path onto base.
func LoadFile(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := base
	setInt(&cfg.PageSize, fc.Source.PageSize)
	setInt(&cfg.MaxPages, fc.Source.MaxPages)
	setInt(&cfg.TotalCount, fc.Source.TotalCount)
	setString(&cfg.DefaultLocation, fc.Source.DefaultLocation)
	setDuration(&cfg.LatencyMin, fc.Source.LatencyMin)
	setDuration(&cfg.LatencyMax, fc.Source.LatencyMax)
	if fc.Source.Seed != 0 {
		cfg.Seed = fc.Source.Seed
	}

	setString(&cfg.StoreBackend, fc.Store.Backend)
	setString(&cfg.DataDir, fc.Store.DataDir)
	setString(&cfg.FavoritesKey, fc.Store.FavoritesKey)
	setString(&cfg.RedisURL, fc.Store.RedisURL)
	setString(&cfg.RedisPrefix, fc.Store.RedisPrefix)
	setString(&cfg.SurrealDBURL, fc.Store.Surreal.URL)
	setString(&cfg.SurrealDBNamespace, fc.Store.Surreal.Namespace)
	setString(&cfg.SurrealDBDatabase, fc.Store.Surreal.Database)
	setString(&cfg.SurrealDBUser, fc.Store.Surreal.User)
	setString(&cfg.SurrealDBPass, fc.Store.Surreal.Pass)
	setString(&cfg.SurrealDBAuthLevel, fc.Store.Surreal.AuthLevel)

	setString(&cfg.ExportDir, fc.Export.Dir)
	setString(&cfg.LogFile, fc.Log.File)
	if fc.Log.Level != "" {
		cfg.LogLevel = parseLogLevel(fc.Log.Level)
	}

	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) {
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		*dst = d
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jobfinder"
	}
	return filepath.Join(home, ".jobfinder")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
