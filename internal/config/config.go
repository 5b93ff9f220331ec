package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mikey/inbox-account-scanner/internal/detector"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/inbox-account-scanner/")
	v.AddConfigPath("$HOME/.inbox-account-scanner")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("ACCOUNT_SCANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromFile creates a configuration instance from an explicit config file
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:5000")
	v.SetDefault("server.max_upload_bytes", 32<<20)
	v.SetDefault("server.sample_path", "data/sample_emails.csv")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.frontend", "web")

	// CLI defaults
	v.SetDefault("cli.json", false)

	// Detector defaults
	lists := detector.DefaultLists()
	v.SetDefault("detector.providers", lists.Providers)
	v.SetDefault("detector.subscription_keywords", lists.SubscriptionKeywords)
	v.SetDefault("detector.financial_keywords", lists.FinancialKeywords)
	v.SetDefault("detector.sender_patterns", lists.SenderPatterns)
	v.SetDefault("detector.ignored_domains", []string{})
	v.SetDefault("detector.signals_enabled", false)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_frequency", "10m")
	v.SetDefault("cache.sqlite_path", "/data/account_scanner_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/account_scanner")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetInt64 gets an int64 value from the configuration
func (c *Config) GetInt64(key string) int64 {
	return c.v.GetInt64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
