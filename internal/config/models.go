package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/inbox-account-scanner/internal/detector"
)

// ServerConfig represents the configuration for the web frontend
type ServerConfig struct {
	ListenAddress   string
	MaxUploadBytes  int64
	SamplePath      string
	ShutdownTimeout time.Duration
}

// CacheConfig represents the configuration for the result cache
type CacheConfig struct {
	Enabled          bool
	Type             string
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// DetectorConfig represents the lookup lists and ignore list for detection
type DetectorConfig struct {
	Lists          detector.Lists
	IgnoredDomains []string
	SignalsEnabled bool
}

// GetServer returns the server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	timeout, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server shutdown timeout: %w", err)
	}
	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		MaxUploadBytes:  c.GetInt64("server.max_upload_bytes"),
		SamplePath:      c.GetString("server.sample_path"),
		ShutdownTimeout: timeout,
	}, nil
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache ttl: %w", err)
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}
	return CacheConfig{
		Enabled:          c.GetBool("cache.enabled"),
		Type:             c.GetString("cache.type"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
	}, nil
}

// GetDetector returns the detector configuration with list entries lower-cased
func (c *Config) GetDetector() DetectorConfig {
	return DetectorConfig{
		Lists: detector.Lists{
			Providers:            c.lowerSlice("detector.providers"),
			SubscriptionKeywords: c.lowerSlice("detector.subscription_keywords"),
			FinancialKeywords:    c.lowerSlice("detector.financial_keywords"),
			SenderPatterns:       c.lowerSlice("detector.sender_patterns"),
		},
		IgnoredDomains: c.GetStringSlice("detector.ignored_domains"),
		SignalsEnabled: c.GetBool("detector.signals_enabled"),
	}
}

func (c *Config) lowerSlice(key string) []string {
	values := c.GetStringSlice(key)
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
