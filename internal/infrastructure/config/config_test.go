package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "jaccard", cfg.Recommendation.DefaultAlgorithm)
	assert.InDelta(t, 0.3, cfg.Recommendation.MinMatchRate, 1e-9)
	assert.Equal(t, 20, cfg.Recommendation.DefaultLimit)
	assert.True(t, cfg.Recommendation.ExcludeSeasoningsDefault)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 85, cfg.Catalog.DuplicateThreshold)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Empty(t, cfg.Database.Path)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_RECOMMENDATION_DEFAULT_ALGORITHM", "cosine")
	t.Setenv("APP_RECOMMENDATION_DEFAULT_LIMIT", "5")
	t.Setenv("ADMIN_TOKEN", "secret-token")
	t.Setenv("MATCHER_WORKERS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "cosine", cfg.Recommendation.DefaultAlgorithm)
	assert.Equal(t, 5, cfg.Recommendation.DefaultLimit)
	assert.Equal(t, "secret-token", cfg.Admin.Token)
	assert.Equal(t, 3, cfg.Matcher.Workers)
}

func TestLoadConfigRejectsUnknownAlgorithm(t *testing.T) {
	t.Setenv("APP_RECOMMENDATION_DEFAULT_ALGORITHM", "euclid")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown default algorithm")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:         ServerConfig{Port: 8080},
			Recommendation: RecommendationConfig{DefaultAlgorithm: "jaccard"},
			Catalog:        CatalogConfig{MaxEntries: 10, DuplicateThreshold: 85},
			Matcher:        MatcherConfig{Workers: 1},
			Cache: CacheConfig{
				Enabled:         true,
				Backend:         "memory",
				MaxSize:         10,
				TTL:             time.Minute,
				CleanupInterval: time.Minute,
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"no workers", func(c *Config) { c.Matcher.Workers = 0 }, "invalid matcher workers"},
		{"bad backend", func(c *Config) { c.Cache.Backend = "memcached" }, "unknown cache backend"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }, "redis address is required"},
		{"cache disabled skips checks", func(c *Config) { c.Cache = CacheConfig{} }, ""},
		{"threshold above 100", func(c *Config) { c.Catalog.DuplicateThreshold = 101 }, "invalid duplicate threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", MaskToken(""))
	assert.Equal(t, "****", MaskToken("abc"))
	assert.Equal(t, "se...en", MaskToken("secret-token"))
}
