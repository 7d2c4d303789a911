package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Search      SearchConfig    `mapstructure:"search"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Queue       QueueConfig     `mapstructure:"queue"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Import      ImportConfig    `mapstructure:"import"`
	OCR         OCRConfig       `mapstructure:"ocr"`
	PDF         PDFConfig       `mapstructure:"pdf"`
	Fetch       FetchConfig     `mapstructure:"fetch"`
	Image       ImageConfig     `mapstructure:"image"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
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

// StorageConfig 持久化設定
type StorageConfig struct {
	// Driver 為 "memory" 或 "redis"
	Driver        string `mapstructure:"driver"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	BlobPath      string `mapstructure:"blob_path"`
}

// SearchConfig Meilisearch 設定
type SearchConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
	Index   string `mapstructure:"index"`
}

// CacheConfig 營養估算快取設定
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// QueueConfig 匯入佇列設定
type QueueConfig struct {
	MaxSize int           `mapstructure:"max_size"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ImportConfig 匯入設定
type ImportConfig struct {
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
	MaxZipDepth  int   `mapstructure:"max_zip_depth"`
	MaxZipFiles  int   `mapstructure:"max_zip_files"`
}

// OCRConfig tesseract / pdftoppm 設定
type OCRConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Tesseract      string        `mapstructure:"tesseract"`
	Pdftoppm       string        `mapstructure:"pdftoppm"`
	Lang           string        `mapstructure:"lang"`
	DPI            int           `mapstructure:"dpi"`
	MaxPagesPerDoc int           `mapstructure:"max_pages_per_doc"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// PDFConfig PDF 分段設定
type PDFConfig struct {
	TOCMinEntries int `mapstructure:"toc_min_entries"`
	KnowledgeTopN int `mapstructure:"knowledge_top_n"`
	MaxPages      int `mapstructure:"max_pages"`
}

// FetchConfig 遠端抓取設定
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時仍使用環境變數與預設值
	_ = godotenv.Load()

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.redis_addr", "REDIS_ADDR")
	v.BindEnv("storage.redis_password", "REDIS_PASSWORD")
	v.BindEnv("storage.blob_path", "BLOB_PATH")
	v.BindEnv("search.enabled", "MEILI_ENABLED")
	v.BindEnv("search.url", "MEILI_URL")
	v.BindEnv("search.api_key", "MEILI_API_KEY")
	v.BindEnv("ocr.enabled", "OCR_ENABLED")
	v.BindEnv("cache.enabled", "CACHE_ENABLED")
	v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("dedup_window", "DEDUP_WINDOW")
	v.BindEnv("log_level", "LOG_LEVEL")

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

// MaskSecret 遮罩密鑰，只顯示前後各 4 個字符
func MaskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-manager")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "300s")
	v.SetDefault("server.max_body_bytes", 64<<20) // 64MB

	// 儲存設定
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.blob_path", "data/blobs.db")

	// 搜尋設定
	v.SetDefault("search.enabled", false)
	v.SetDefault("search.url", "http://localhost:7700")
	v.SetDefault("search.index", "recipes")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 隊列設定
	v.SetDefault("queue.max_size", 32)
	v.SetDefault("queue.timeout", "10m")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// 匯入設定
	v.SetDefault("import.max_file_bytes", 32<<20) // 32MB
	v.SetDefault("import.max_zip_depth", 2)
	v.SetDefault("import.max_zip_files", 500)

	// OCR 設定
	v.SetDefault("ocr.enabled", false)
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.lang", "eng")
	v.SetDefault("ocr.dpi", 200)
	v.SetDefault("ocr.max_pages_per_doc", 40)
	v.SetDefault("ocr.timeout", "60s")

	// PDF 設定
	v.SetDefault("pdf.toc_min_entries", 20)
	v.SetDefault("pdf.knowledge_top_n", 500)
	v.SetDefault("pdf.max_pages", 1500)

	// 抓取設定
	v.SetDefault("fetch.timeout", "20s")
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; RecipeManager/1.0)")
	v.SetDefault("fetch.max_bytes", 5<<20)

	// 圖片設定
	v.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Storage.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}
	if config.Storage.Driver == "redis" && config.Storage.RedisAddr == "" {
		return fmt.Errorf("redis address is required for redis storage")
	}

	if config.Search.Enabled && config.Search.URL == "" {
		return fmt.Errorf("meilisearch url is required when search is enabled")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證隊列設定
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	if config.Import.MaxFileBytes <= 0 {
		return fmt.Errorf("invalid import max file bytes")
	}
	if config.OCR.MaxPagesPerDoc < 0 {
		return fmt.Errorf("invalid ocr max pages")
	}

	return nil
}
