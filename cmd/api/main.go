package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-matcher/internal/api"
	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/infrastructure/store"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("database", cfg.Database.Path),
		zap.Int("workers", cfg.Matcher.Workers),
	)

	startCtx, startCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer startCancel()

	// 初始化快取；停用時為 nil
	cacheStore, err := cache.New(startCtx, cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	// 持久層；未設定路徑時只保存在記憶體
	var (
		repo recipe.Repository
		deps api.Dependencies
	)
	if cfg.Database.Path != "" {
		db, err := store.Open(startCtx, cfg.Database.Path)
		if err != nil {
			common.LogFatal("Failed to open database", zap.Error(err))
		}
		defer db.Close()
		repo = db
		deps.DB = db
	}

	settings, err := recommend.NewSettingsStore(recommend.Settings{
		MinMatchRate:             cfg.Recommendation.MinMatchRate,
		DefaultAlgorithm:         recommend.Algorithm(cfg.Recommendation.DefaultAlgorithm),
		DefaultLimit:             cfg.Recommendation.DefaultLimit,
		ExcludeSeasoningsDefault: cfg.Recommendation.ExcludeSeasoningsDefault,
	})
	if err != nil {
		common.LogFatal("Invalid recommendation settings", zap.Error(err))
	}

	svc, err := recipe.NewService(recipe.Options{
		Catalog: catalog.New(catalog.Options{
			MaxEntries:         cfg.Catalog.MaxEntries,
			DuplicateThreshold: cfg.Catalog.DuplicateThreshold,
		}),
		Settings:   settings,
		Workers:    cfg.Matcher.Workers,
		Cache:      cacheStore,
		Repository: repo,
	})
	if err != nil {
		common.LogFatal("Failed to create recipe service", zap.Error(err))
	}
	if err := svc.Load(startCtx); err != nil {
		common.LogFatal("Failed to load persisted state", zap.Error(err))
	}
	deps.Service = svc

	// 設置路由
	router, err := api.SetupRouter(cfg, deps)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
