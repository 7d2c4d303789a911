package api

import (
	"errors"
	"time"

	"recipe-manager/internal/api/handlers"
	"recipe-manager/internal/api/handlers/health"
	libraryHandler "recipe-manager/internal/api/handlers/library"
	recipeHandler "recipe-manager/internal/api/handlers/recipe"
	"recipe-manager/internal/api/middleware"
	"recipe-manager/internal/core/knowledge"
	"recipe-manager/internal/core/library"
	"recipe-manager/internal/core/nutrition"
	"recipe-manager/internal/core/pipeline"
	recipeService "recipe-manager/internal/core/recipe"
	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由依賴的服務
type Services struct {
	Recipes   *recipeService.Service
	Pipeline  *pipeline.Service
	Nutrition *nutrition.Service
	Library   *library.Library
	Gallery   *library.Gallery
	Knowledge *knowledge.Accumulator
	// Checks 就緒檢查，例如 kv、blob、search
	Checks []health.Check
}

func (s Services) validate() error {
	switch {
	case s.Recipes == nil:
		return errors.New("recipe service is required")
	case s.Pipeline == nil:
		return errors.New("import pipeline is required")
	case s.Nutrition == nil:
		return errors.New("nutrition service is required")
	case s.Library == nil || s.Gallery == nil:
		return errors.New("library and gallery are required")
	case s.Knowledge == nil:
		return errors.New("knowledge accumulator is required")
	}
	return nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if err := svc.validate(); err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		return nil, err
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 注入設定，供錯誤響應判斷 debug
	router.Use(func(c *gin.Context) {
		c.Set(handlers.ConfigKey, cfg)
		c.Next()
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, svc.Pipeline.QueueStatus, svc.Checks...)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	api := router.Group("/api/v1")
	if cfg.DedupWindow > 0 {
		api.Use(middleware.Deduplication(cfg))
	}
	{
		// 匯入
		importHandler := recipeHandler.NewImportHandler(svc.Pipeline)
		importGroup := api.Group("/import")
		{
			importGroup.POST("", importHandler.ImportFiles)
			importGroup.POST("/url", importHandler.ImportURL)
			importGroup.GET("/status", importHandler.Status)
		}

		// 食譜
		recipes := recipeHandler.NewHandler(svc.Recipes)
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", recipes.List)
			recipeGroup.POST("", recipes.Create)
			recipeGroup.GET("/search", recipes.Search)
			recipeGroup.GET("/:id", recipes.Get)
			recipeGroup.PUT("/:id", recipes.Update)
			recipeGroup.DELETE("/:id", recipes.Delete)
			recipeGroup.POST("/:id/restore", recipes.Restore)
			recipeGroup.PUT("/:id/favorite", recipes.Favorite)
			recipeGroup.PUT("/:id/rating", recipes.Rating)
			recipeGroup.GET("/:id/export", recipes.Export)
		}

		// 營養估算
		nutritionHandler := recipeHandler.NewNutritionHandler(svc.Nutrition)
		api.POST("/nutrition/estimate", nutritionHandler.Estimate)

		// 知識詞彙
		api.GET("/knowledge", recipeHandler.NewKnowledgeHandler(svc.Knowledge).Get)

		// 圖庫
		images := libraryHandler.NewImageHandler(svc.Gallery)
		imageGroup := api.Group("/images")
		{
			imageGroup.POST("", images.Upload)
			imageGroup.GET("", images.List)
			imageGroup.GET("/:id", images.Get)
			imageGroup.GET("/:id/raw", images.Raw)
			imageGroup.DELETE("/:id", images.Delete)
		}

		// 其他實體
		for _, name := range svc.Library.Names() {
			resource, _ := svc.Library.Resource(name)
			libraryHandler.NewEntityHandler(resource).Register(api.Group("/" + name))
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Strings("entities", svc.Library.Names()),
	)

	return router, nil
}
