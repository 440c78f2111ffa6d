package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App            AppConfig            `mapstructure:"app"`
	Server         ServerConfig         `mapstructure:"server"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Catalog        CatalogConfig        `mapstructure:"catalog"`
	Matcher        MatcherConfig        `mapstructure:"matcher"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Database       DatabaseConfig       `mapstructure:"database"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Admin          AdminConfig          `mapstructure:"admin"`
	DedupWindow    time.Duration        `mapstructure:"dedup_window"`
	LogLevel       string               `mapstructure:"log_level"`
	LogFile        string               `mapstructure:"log_file"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// RecommendationConfig 推薦參數的初始值，啟動後可由管理端點修改
type RecommendationConfig struct {
	MinMatchRate             float64 `mapstructure:"min_match_rate"`
	DefaultAlgorithm         string  `mapstructure:"default_algorithm"`
	DefaultLimit             int     `mapstructure:"default_limit"`
	ExcludeSeasoningsDefault bool    `mapstructure:"exclude_seasonings_default"`
}

// CatalogConfig 正規化食材目錄設定
type CatalogConfig struct {
	MaxEntries         int `mapstructure:"max_entries"`
	DuplicateThreshold int `mapstructure:"duplicate_threshold"`
}

// MatcherConfig 相似度計算設定
type MatcherConfig struct {
	Workers int `mapstructure:"workers"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// DatabaseConfig 資料庫設定，Path 為空時不做持久化
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Burst    int           `mapstructure:"burst"`
}

// AdminConfig 管理端點設定，Token 為空時不檢查
type AdminConfig struct {
	Token string `mapstructure:"token"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（可選）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("cache.backend", "CACHE_BACKEND")
	_ = v.BindEnv("cache.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("cache.redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("database.path", "DATABASE_PATH")
	_ = v.BindEnv("admin.token", "ADMIN_TOKEN")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("matcher.workers", "MATCHER_WORKERS")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_file", "LOG_FILE")

	// 設定設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskToken 遮罩 token，只顯示前後各 2 個字符
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 6 {
		return "****"
	}
	return token[:2] + "..." + token[len(token)-2:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-matcher")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 1<<20) // 1MB

	// 推薦設定
	v.SetDefault("recommendation.min_match_rate", 0.3)
	v.SetDefault("recommendation.default_algorithm", "jaccard")
	v.SetDefault("recommendation.default_limit", 20)
	v.SetDefault("recommendation.exclude_seasonings_default", true)

	// 目錄設定
	v.SetDefault("catalog.max_entries", 50000)
	v.SetDefault("catalog.duplicate_threshold", 85)

	// 計算設定
	v.SetDefault("matcher.workers", 8)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.cleanup_interval", "1m")

	// 資料庫設定
	v.SetDefault("database.path", "")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// 驗證推薦設定，超出範圍的值在執行期夾限，這裡只拒絕無法辨識的演算法
	switch config.Recommendation.DefaultAlgorithm {
	case "jaccard", "cosine":
	default:
		return fmt.Errorf("unknown default algorithm: %q", config.Recommendation.DefaultAlgorithm)
	}

	if config.Catalog.MaxEntries <= 0 {
		return fmt.Errorf("invalid catalog max entries")
	}
	if config.Catalog.DuplicateThreshold < 0 || config.Catalog.DuplicateThreshold > 100 {
		return fmt.Errorf("invalid duplicate threshold")
	}

	if config.Matcher.Workers <= 0 {
		return fmt.Errorf("invalid matcher workers")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case "memory":
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case "redis":
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("redis address is required")
			}
		default:
			return fmt.Errorf("unknown cache backend: %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit")
		}
	}

	return nil
}
