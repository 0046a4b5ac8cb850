package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 存储后端
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendRemote   = "remote"
	BackendPostgres = "postgres"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env       string
	AppSecret string
	Port      string

	// 存储
	Backend       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RemoteModels  string
	RemoteFilters string
	RemoteTimeout time.Duration

	// 后台账号
	AdminUsername string
	AdminPassword string
	SessionMaxAge int
	TokenTTL      time.Duration

	// 目录加载
	SeedDemo          bool
	DetailConcurrency int
	DetailCacheSize   int
	DetailCacheTTL    time.Duration
	RefreshInterval   time.Duration

	TemplatesDir string
}

// Load 从环境变量加载配置（.env 由 main 预先载入）
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:       v.GetString("APP_ENV"),
		AppSecret: v.GetString("APP_SECRET"),
		Port:      v.GetString("PORT"),

		Backend:       strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		DatabaseURL:   databaseURL(v),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RemoteModels:  v.GetString("REMOTE_MODELS_URL"),
		RemoteFilters: v.GetString("REMOTE_FILTERS_URL"),
		RemoteTimeout: v.GetDuration("REMOTE_TIMEOUT"),

		AdminUsername: v.GetString("ADMIN_USERNAME"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		SessionMaxAge: v.GetInt("SESSION_MAX_AGE"),
		TokenTTL:      v.GetDuration("TOKEN_TTL"),

		SeedDemo:          v.GetBool("CATALOG_SEED_DEMO"),
		DetailConcurrency: v.GetInt("CATALOG_DETAIL_CONCURRENCY"),
		DetailCacheSize:   v.GetInt("DETAIL_CACHE_SIZE"),
		DetailCacheTTL:    v.GetDuration("DETAIL_CACHE_TTL"),
		RefreshInterval:   v.GetDuration("CATALOG_REFRESH_INTERVAL"),

		TemplatesDir: v.GetString("TEMPLATES_DIR"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_SECRET", defaultSecret)
	v.SetDefault("PORT", "5005")

	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "modelcatalog")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REMOTE_TIMEOUT", "30s")

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin1357")
	v.SetDefault("SESSION_MAX_AGE", 86400*7)
	v.SetDefault("TOKEN_TTL", "72h")

	v.SetDefault("CATALOG_SEED_DEMO", false)
	v.SetDefault("CATALOG_DETAIL_CONCURRENCY", 8)
	v.SetDefault("DETAIL_CACHE_SIZE", 512)
	v.SetDefault("DETAIL_CACHE_TTL", "10m")
	v.SetDefault("CATALOG_REFRESH_INTERVAL", "0s")

	v.SetDefault("TEMPLATES_DIR", "./web/templates")
}

// databaseURL DATABASE_URL 优先，否则由 DB_* 拼接
func databaseURL(v *viper.Viper) string {
	if url := v.GetString("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		v.GetString("DB_USER"), v.GetString("DB_PASSWORD"), v.GetString("DB_HOST"),
		v.GetString("DB_PORT"), v.GetString("DB_NAME"), v.GetString("DB_SSLMODE"))
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	case BackendRemote:
		if c.RemoteModels == "" || c.RemoteFilters == "" {
			return fmt.Errorf("STORE_BACKEND=remote 需要 REMOTE_MODELS_URL 和 REMOTE_FILTERS_URL")
		}
	default:
		return fmt.Errorf("未知的 STORE_BACKEND: %q", c.Backend)
	}
	if c.AdminUsername == "" || c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME 和 ADMIN_PASSWORD 不能为空")
	}
	if c.RemoteTimeout < 0 {
		return fmt.Errorf("REMOTE_TIMEOUT 不能为负数")
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DefaultSecret 是否仍在使用默认密钥
func (c *Config) DefaultSecret() bool {
	return c.AppSecret == defaultSecret
}
