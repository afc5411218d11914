package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageMemory        = "memory"
	StorageSQLite        = "sqlite"
	StorageRedis         = "redis"
	StorageElasticsearch = "elasticsearch"
)

// Config holds all configuration for the application
type Config struct {
	Discord    DiscordConfig    `yaml:"discord"`
	Storage    StorageConfig    `yaml:"storage"`
	Simulation SimulationConfig `yaml:"simulation"`

	LogLevel    string `yaml:"log_level"`
	Environment string `yaml:"environment"` // "development" or "production"
}

// DiscordConfig holds the bot credentials
type DiscordConfig struct {
	Token   string `yaml:"token"`
	AppID   string `yaml:"app_id"`
	GuildID string `yaml:"guild_id"`
}

// StorageConfig selects and configures the run repository
type StorageConfig struct {
	Type          string              `yaml:"type"`
	DataDir       string              `yaml:"data_dir"`
	SQLitePath    string              `yaml:"sqlite_path"`
	HandsFile     string              `yaml:"hands_file"`
	Redis         RedisConfig         `yaml:"redis"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ElasticsearchConfig holds Elasticsearch connection settings
type ElasticsearchConfig struct {
	URL          string        `yaml:"url"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	IndexPrefix  string        `yaml:"index_prefix"`
	SyncInterval time.Duration `yaml:"sync_interval"`
}

// SimulationConfig holds run defaults
type SimulationConfig struct {
	Iterations int `yaml:"iterations"`
	Workers    int `yaml:"workers"`
	// MaxIterations caps runs requested through the bot
	MaxIterations int `yaml:"max_iterations"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Type:       StorageMemory,
			DataDir:    "data",
			SQLitePath: filepath.Join("data", "aceshigh.db"),
			HandsFile:  filepath.Join("data", "cribbage_hands.txt"),
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
			Elasticsearch: ElasticsearchConfig{
				URL:          "http://localhost:9200",
				IndexPrefix:  "aceshigh",
				SyncInterval: time.Hour,
			},
		},
		Simulation: SimulationConfig{
			Iterations:    10000,
			Workers:       runtime.NumCPU(),
			MaxIterations: 100000,
		},
		LogLevel:    "info",
		Environment: "development",
	}
}

// Load reads the configuration. Values come from the defaults, then the YAML file at
// path (or CONFIG_FILE when path is empty), then environment variables, which may be
// provided through a .env file.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Discord.Token = getEnvWithDefault("DISCORD_TOKEN", c.Discord.Token)
	c.Discord.AppID = getEnvWithDefault("APP_ID", c.Discord.AppID)
	c.Discord.GuildID = getEnvWithDefault("GUILD_ID", c.Discord.GuildID)

	c.Storage.Type = strings.ToLower(getEnvWithDefault("STORAGE_TYPE", c.Storage.Type))
	c.Storage.DataDir = getEnvWithDefault("DATA_DIR", c.Storage.DataDir)
	c.Storage.SQLitePath = getEnvWithDefault("SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.HandsFile = getEnvWithDefault("HANDS_FILE", c.Storage.HandsFile)
	c.Storage.Redis.Addr = getEnvWithDefault("REDIS_ADDR", c.Storage.Redis.Addr)
	c.Storage.Redis.Password = getEnvWithDefault("REDIS_PASSWORD", c.Storage.Redis.Password)
	c.Storage.Elasticsearch.URL = getEnvWithDefault("ELASTICSEARCH_URL", c.Storage.Elasticsearch.URL)
	c.Storage.Elasticsearch.Username = getEnvWithDefault("ELASTICSEARCH_USERNAME", c.Storage.Elasticsearch.Username)
	c.Storage.Elasticsearch.Password = getEnvWithDefault("ELASTICSEARCH_PASSWORD", c.Storage.Elasticsearch.Password)
	c.Storage.Elasticsearch.IndexPrefix = getEnvWithDefault("ELASTICSEARCH_INDEX_PREFIX", c.Storage.Elasticsearch.IndexPrefix)

	c.LogLevel = getEnvWithDefault("LOG_LEVEL", c.LogLevel)
	c.Environment = getEnvWithDefault("ENVIRONMENT", c.Environment)

	var err error
	if c.Storage.Redis.DB, err = getEnvIntWithDefault("REDIS_DB", c.Storage.Redis.DB); err != nil {
		return err
	}
	if c.Simulation.Iterations, err = getEnvIntWithDefault("SIM_ITERATIONS", c.Simulation.Iterations); err != nil {
		return err
	}
	if c.Simulation.Workers, err = getEnvIntWithDefault("SIM_WORKERS", c.Simulation.Workers); err != nil {
		return err
	}
	if c.Simulation.MaxIterations, err = getEnvIntWithDefault("SIM_MAX_ITERATIONS", c.Simulation.MaxIterations); err != nil {
		return err
	}
	if value := os.Getenv("ELASTICSEARCH_SYNC_INTERVAL"); value != "" {
		interval, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("ELASTICSEARCH_SYNC_INTERVAL must be a duration: %w", err)
		}
		c.Storage.Elasticsearch.SyncInterval = interval
	}
	return nil
}

// validate checks settings every entry point needs
func (c *Config) validate() error {
	switch c.Storage.Type {
	case StorageMemory, StorageSQLite, StorageRedis, StorageElasticsearch:
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.Storage.Type)
	}
	if c.Simulation.Iterations <= 0 {
		return fmt.Errorf("simulation iterations must be positive")
	}
	if c.Simulation.Workers <= 0 {
		return fmt.Errorf("simulation workers must be positive")
	}
	if c.Simulation.MaxIterations <= 0 {
		return fmt.Errorf("simulation max iterations must be positive")
	}
	return nil
}

// ValidateDiscord checks that the bot credentials are present
func (c *Config) ValidateDiscord() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.Discord.AppID == "" {
		return fmt.Errorf("APP_ID is required")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
