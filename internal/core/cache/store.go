package cache

import (
	"context"
	"fmt"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

// Store 推薦結果的快取後端
type Store interface {
	// Get 取得快取值，不存在或已過期時回傳 common.ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Flush 清除所有快取
	Flush(ctx context.Context) error
	Stats() map[string]interface{}
	Close() error
}

// New 依設定建立快取後端，停用時回傳 nil
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}
	switch cfg.Backend {
	case "", "memory":
		return NewManager(cfg), nil
	case "redis":
		return NewRedisStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}
