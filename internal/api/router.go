package api

import (
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-matcher/internal/api/handlers/health"
	recipeHandler "recipe-matcher/internal/api/handlers/recipe"
	"recipe-matcher/internal/api/middleware"
	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Service *recipeService.Service
	DB      health.Pinger // 可為 nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if cfg == nil || deps.Service == nil {
		return nil, errors.New("router requires config and recipe service")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID))) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.AdminTokenHeader},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, deps.Service, deps.DB)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst))
	}

	h := recipeHandler.NewHandler(deps.Service, cfg.App.Debug)
	// 寫入端點：管理權杖 + 去重
	admin := []gin.HandlerFunc{
		middleware.AdminOnly(cfg.Admin.Token),
		middleware.Deduplication(cfg.DedupWindow),
	}
	withAdmin := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), handler)
	}

	ingredients := api.Group("/ingredients")
	{
		ingredients.POST("/parse", h.HandleParse)
		ingredients.POST("/normalize", h.HandleNormalize)
		ingredients.GET("/autocomplete", h.HandleAutocomplete)
	}

	catalogGroup := api.Group("/catalog")
	{
		catalogGroup.GET("", h.HandleCatalog)
		catalogGroup.POST("/merge", withAdmin(h.HandleMerge)...)
	}

	recipes := api.Group("/recipes")
	{
		recipes.GET("", h.HandleListRecipes)
		recipes.PUT("/:id", withAdmin(h.HandleUpsertRecipe)...)
		recipes.GET("/:id", h.HandleGetRecipe)
		recipes.DELETE("/:id", withAdmin(h.HandleDeleteRecipe)...)
	}

	api.POST("/recommend", h.HandleRecommend)

	settings := api.Group("/settings")
	{
		settings.GET("", h.HandleGetSettings)
		settings.PUT("", withAdmin(h.HandleUpdateSettings)...)
		settings.GET("/algorithms", h.HandleAlgorithms)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("admin_token", cfg.Admin.Token != ""),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
