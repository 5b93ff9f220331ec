package factory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/inbox-account-scanner/internal/adapters/cache"
	"github.com/mikey/inbox-account-scanner/internal/config"
	"github.com/mikey/inbox-account-scanner/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates result caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCacheRepository creates a cache repository based on the configuration.
// A nil repository is returned when caching is disabled.
func (f *CacheFactory) CreateCacheRepository() (core.CacheRepository, error) {
	cc, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}
	if !cc.Enabled {
		return nil, nil
	}

	switch cc.Type {
	case "memory":
		return cache.NewMemoryCache(f.logger, cc.CleanupFrequency), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cc.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return cache.NewSQLiteCache(cc.SQLitePath, f.logger, cc.CleanupFrequency)
	case "mysql":
		return cache.NewMySQLCache(cc.MySQLDSN, f.logger, cc.CleanupFrequency)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cc.Type)
	}
}

// GetCacheTTL returns the configured cache TTL
func (f *CacheFactory) GetCacheTTL() (time.Duration, error) {
	return f.cfg.GetDuration("cache.ttl")
}

// IsCacheEnabled returns whether caching is enabled
func (f *CacheFactory) IsCacheEnabled() bool {
	return f.cfg.GetBool("cache.enabled")
}
