package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends for the key/value layer
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Application variants
const (
	VariantSingle = "single"
	VariantMulti  = "multi"
)

// Config holds every setting the app reads at startup
type Config struct {
	DataDir      string        `mapstructure:"data_dir"`
	Storage      string        `mapstructure:"storage"`
	RedisAddr    string        `mapstructure:"redis_addr"`
	RedisPrefix  string        `mapstructure:"redis_prefix"`
	Variant      string        `mapstructure:"variant"`
	Latency      time.Duration `mapstructure:"latency"`
	FilterPolicy string        `mapstructure:"filter_policy"`
	LogLevel     string        `mapstructure:"log_level"`
	LogConsole   bool          `mapstructure:"log_console"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("storage", StorageSQLite)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_prefix", "taskman:")
	v.SetDefault("variant", VariantSingle)
	v.SetDefault("latency", "-1ms") // negative means "use the mock service defaults"
	v.SetDefault("filter_policy", "first-match")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_console", false)
	v.SetDefault("jwt_secret", "taskman-dev-secret")
}

// Load reads config.yaml from the data dir (if present), TASKMAN_* environment
// variables and any flags already bound to v.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("TASKMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("data_dir"))

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, everything has a default
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown enum values
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("invalid storage %q. Use: sqlite, memory, redis", c.Storage)
	}
	switch c.Variant {
	case VariantSingle, VariantMulti:
	default:
		return fmt.Errorf("invalid variant %q. Use: single, multi", c.Variant)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}

// DatabasePath returns the path to the SQLite database file
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "taskman.db")
}

// LogDir returns the directory for rotated log files
func (c Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".taskman"
	}
	return filepath.Join(homeDir, ".taskman")
}
