package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"recipe-manager/internal/api"
	"recipe-manager/internal/api/handlers/health"
	"recipe-manager/internal/core/cache"
	"recipe-manager/internal/core/image"
	"recipe-manager/internal/core/ingest"
	"recipe-manager/internal/core/ingest/pdf"
	"recipe-manager/internal/core/knowledge"
	"recipe-manager/internal/core/library"
	"recipe-manager/internal/core/nutrition"
	"recipe-manager/internal/core/pipeline"
	"recipe-manager/internal/core/queue"
	"recipe-manager/internal/core/recipe"
	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/infrastructure/search"
	"recipe-manager/internal/infrastructure/storage"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// app 持有需要在關閉時釋放的資源
type app struct {
	kv        storage.KV
	blobs     *storage.BlobStore
	queue     *queue.Manager
	cache     *cache.Manager
	knowledge *knowledge.Accumulator
	services  api.Services
}

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("blob_path", cfg.Storage.BlobPath),
		zap.Bool("search_enabled", cfg.Search.Enabled),
		zap.String("meili_api_key", config.MaskSecret(cfg.Search.APIKey)),
		zap.Bool("ocr_enabled", cfg.OCR.Enabled),
	)

	ctx := context.Background()
	a, err := setup(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize services", zap.Error(err))
	}
	defer a.close()

	// 設置路由
	router, err := api.SetupRouter(cfg, a.services)
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

// setup 依設定建立儲存、索引與各項服務
func setup(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	kv, err := storage.NewKV(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open kv: %w", err)
	}
	a.kv = kv

	if dir := filepath.Dir(cfg.Storage.BlobPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			a.close()
			return nil, fmt.Errorf("create blob dir: %w", err)
		}
	}
	blobs, err := storage.OpenBlobStore(ctx, cfg.Storage.BlobPath)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	a.blobs = blobs

	index := search.New(cfg.Search)

	a.knowledge = knowledge.NewAccumulator(cfg.PDF.KnowledgeTopN)
	if err := a.knowledge.Load(ctx, kv); err != nil {
		common.LogWarn("知識詞彙載入失敗，從空白開始", zap.Error(err))
	}

	recipes, err := recipe.NewService(ctx, kv, index)
	if err != nil {
		a.close()
		return nil, err
	}
	lib, err := library.Open(ctx, kv)
	if err != nil {
		a.close()
		return nil, err
	}
	gallery, err := library.NewGallery(ctx, kv, blobs, image.NewService(cfg.Image, cfg.Fetch))
	if err != nil {
		a.close()
		return nil, err
	}

	ocr := ingest.NewOCR(cfg.OCR)
	if cfg.OCR.Enabled && !ocr.Available() {
		common.LogWarn("OCR 已啟用但找不到 tesseract/pdftoppm，圖片與掃描頁將略過辨識",
			zap.String("tesseract", cfg.OCR.Tesseract),
			zap.String("pdftoppm", cfg.OCR.Pdftoppm),
		)
	}
	importer := ingest.NewImporter(cfg.Import, ocr, a.knowledge)
	importer.Register(pdf.NewExtractor(cfg.PDF, ocr, a.knowledge), ".pdf")

	a.queue = queue.NewManager(cfg.Queue)
	a.cache = cache.NewManager("nutrition", cfg.Cache)

	a.services = api.Services{
		Recipes: recipes,
		Pipeline: pipeline.NewService(pipeline.Deps{
			Queue:     a.queue,
			Importer:  importer,
			Fetcher:   ingest.NewURLFetcher(cfg.Fetch, a.knowledge),
			Recipes:   recipes,
			Gallery:   gallery,
			Knowledge: a.knowledge,
			KV:        kv,
		}),
		Nutrition: nutrition.NewService(a.cache),
		Library:   lib,
		Gallery:   gallery,
		Knowledge: a.knowledge,
		Checks: []health.Check{
			{Name: "kv", Pinger: kv},
			{Name: "blobs", Pinger: blobs},
			{Name: "search", Pinger: index},
		},
	}

	common.LogInfo("服務初始化完成",
		zap.Int("recipes", recipes.Count()),
		zap.Int("images", len(gallery.List(ctx))),
		zap.Int("knowledge_pages", a.knowledge.Pages()),
	)
	return a, nil
}

// close 依序停止佇列、保存詞彙並關閉儲存
func (a *app) close() {
	if a.queue != nil {
		a.queue.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			common.LogWarn("快取關閉失敗", zap.Error(err))
		}
	}
	if a.knowledge != nil && a.kv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.knowledge.Save(ctx, a.kv); err != nil {
			common.LogWarn("知識詞彙保存失敗", zap.Error(err))
		}
		cancel()
	}
	if a.blobs != nil {
		if err := a.blobs.Close(); err != nil {
			common.LogWarn("圖片儲存關閉失敗", zap.Error(err))
		}
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			common.LogWarn("KV 關閉失敗", zap.Error(err))
		}
	}
}
