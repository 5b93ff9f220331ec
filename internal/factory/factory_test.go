package factory

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/inbox-account-scanner/internal/adapters/cache"
	"github.com/mikey/inbox-account-scanner/internal/adapters/cli"
	"github.com/mikey/inbox-account-scanner/internal/adapters/input"
	"github.com/mikey/inbox-account-scanner/internal/adapters/web"
	"github.com/mikey/inbox-account-scanner/internal/config"
	"github.com/mikey/inbox-account-scanner/internal/detector"
)

func newConfig(values map[string]any) *config.Config {
	v := config.NewEmptyViper()
	for k, val := range values {
		v.Set(k, val)
	}
	return config.NewFromViper(v)
}

func TestCreateCacheRepository_Disabled(t *testing.T) {
	f := NewCacheFactory(newConfig(nil), zap.NewNop())

	repo, err := f.CreateCacheRepository()
	require.NoError(t, err)
	assert.Nil(t, repo)
	assert.False(t, f.IsCacheEnabled())
}

func TestCreateCacheRepository_Memory(t *testing.T) {
	f := NewCacheFactory(newConfig(map[string]any{"cache.enabled": true}), zap.NewNop())

	repo, err := f.CreateCacheRepository()
	require.NoError(t, err)
	mc, ok := repo.(*cache.MemoryCache)
	require.True(t, ok)
	mc.Stop()
}

func TestCreateCacheRepository_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	f := NewCacheFactory(newConfig(map[string]any{
		"cache.enabled":     true,
		"cache.type":        "sqlite",
		"cache.sqlite_path": path,
	}), zap.NewNop())

	repo, err := f.CreateCacheRepository()
	require.NoError(t, err)
	sc, ok := repo.(*cache.SQLiteCache)
	require.True(t, ok)
	sc.Stop()
	assert.FileExists(t, path)
}

func TestCreateCacheRepository_Errors(t *testing.T) {
	f := NewCacheFactory(newConfig(map[string]any{"cache.enabled": true, "cache.type": "redis"}), zap.NewNop())
	_, err := f.CreateCacheRepository()
	assert.ErrorContains(t, err, "unsupported cache type")

	f = NewCacheFactory(newConfig(map[string]any{"cache.ttl": "soon"}), zap.NewNop())
	_, err = f.CreateCacheRepository()
	assert.Error(t, err)
	_, err = f.GetCacheTTL()
	assert.Error(t, err)
}

func TestGetCacheTTL(t *testing.T) {
	f := NewCacheFactory(newConfig(map[string]any{"cache.ttl": "90s"}), zap.NewNop())
	ttl, err := f.GetCacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 90.0, ttl.Seconds())
}

func TestCreateExtractorRegistry(t *testing.T) {
	f := NewTextProcessorFactory(zap.NewNop())
	registry := f.CreateExtractorRegistry(f.CreateTextProcessor())

	assert.ElementsMatch(t, []string{input.FormatCSV, input.FormatMbox}, registry.Formats())
}

func TestDetectorFactory(t *testing.T) {
	f := NewDetectorFactory(newConfig(map[string]any{
		"detector.providers":       []string{"Acme"},
		"detector.ignored_domains": []string{"corp.example"},
	}), zap.NewNop())

	d := f.CreateAccountDetector()
	assert.Equal(t, []string{"acme"}, d.Lists().Providers)

	ignore := f.CreateIgnoreList()
	assert.True(t, ignore.IsIgnored("me@corp.example"))
	assert.False(t, ignore.IsIgnored("me@acme.com"))
}

func TestCreateSupplementalDetectors(t *testing.T) {
	f := NewDetectorFactory(newConfig(nil), zap.NewNop())
	assert.Empty(t, f.CreateSupplementalDetectors())

	f = NewDetectorFactory(newConfig(map[string]any{"detector.signals_enabled": true}), zap.NewNop())
	detectors := f.CreateSupplementalDetectors()
	require.Len(t, detectors, 1)
	assert.Equal(t, detector.SignalsSection, detectors[0].Name())
}

func TestCreateFrontend(t *testing.T) {
	f := NewFrontendFactory(newConfig(nil), zap.NewNop(), nil, &bytes.Buffer{})
	fe, err := f.CreateFrontend()
	require.NoError(t, err)
	assert.IsType(t, &web.Server{}, fe)

	f = NewFrontendFactory(newConfig(map[string]any{"server.frontend": "cli"}), zap.NewNop(), nil, &bytes.Buffer{})
	fe, err = f.CreateFrontend()
	require.NoError(t, err)
	assert.IsType(t, &cli.Scanner{}, fe)

	f = NewFrontendFactory(newConfig(map[string]any{"server.frontend": "milter"}), zap.NewNop(), nil, &bytes.Buffer{})
	_, err = f.CreateFrontend()
	assert.ErrorContains(t, err, "unsupported frontend type")
}
