// Package config loads service configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	JWT        JWTConfig        `yaml:"jwt" mapstructure:"jwt"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host          string  `yaml:"host" mapstructure:"host"`
	Port          int     `yaml:"port" mapstructure:"port"`
	ClassifyRate  float64 `yaml:"classify_rate" mapstructure:"classify_rate"` // requests/second per client
	ClassifyBurst int     `yaml:"classify_burst" mapstructure:"classify_burst"`
}

// DatabaseConfig contains storage settings. Driver is "postgres" or
// "sqlite"; Path is only used by the sqlite driver.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" mapstructure:"driver"`
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	Path            string        `yaml:"path" mapstructure:"path"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// RedisConfig contains leaderboard cache settings. An empty Addr disables
// the cache and the service falls back to direct reads.
type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ClassifierConfig points at the upstream classification collaborator.
// Mode "stub" uses the built-in keyword classifier for local development.
type ClassifierConfig struct {
	Mode    string        `yaml:"mode" mapstructure:"mode"` // http or stub
	URL     string        `yaml:"url" mapstructure:"url"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// JWTConfig contains token settings
type JWTConfig struct {
	Secret     string        `yaml:"secret" mapstructure:"secret"`
	Issuer     string        `yaml:"issuer" mapstructure:"issuer"`
	Expiration time.Duration `yaml:"expiration" mapstructure:"expiration"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// Load reads configuration from the given file, applying defaults and
// CLEANCITY_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("development")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CLEANCITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine; defaults plus env cover local runs.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.classify_rate", 5.0)
	v.SetDefault("server.classify_burst", 10)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "cleancity")
	v.SetDefault("database.database", "cleancity_dev")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "./cleancity.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 2*time.Minute)
	v.SetDefault("database.timeout", 5*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Second)

	v.SetDefault("classifier.mode", "stub")
	v.SetDefault("classifier.timeout", 10*time.Second)

	v.SetDefault("jwt.secret", "dev-secret-change-me")
	v.SetDefault("jwt.issuer", "cleancity")
	v.SetDefault("jwt.expiration", 24*time.Hour)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
}
