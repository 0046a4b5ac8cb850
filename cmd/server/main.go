package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/user/modelcatalog/internal/auth"
	"github.com/user/modelcatalog/internal/config"
	"github.com/user/modelcatalog/internal/handler"
	"github.com/user/modelcatalog/internal/logger"
	"github.com/user/modelcatalog/internal/middleware"
	"github.com/user/modelcatalog/internal/repository"
	"github.com/user/modelcatalog/internal/router"
	"github.com/user/modelcatalog/internal/service"
	"github.com/user/modelcatalog/internal/utils"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logger.New("development").Fatal().Err(err).Msg("配置错误")
	}

	log := logger.New(cfg.Env)
	if envErr != nil {
		log.Info().Msg("未找到 .env 文件，使用系统环境变量")
	}
	if cfg.IsProduction() && cfg.DefaultSecret() {
		log.Warn().Msg("生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量")
	}

	gate, err := auth.NewGate(cfg.AdminUsername, cfg.AdminPassword, cfg.AppSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化后台登录失败")
	}

	// 初始化存储
	store, closeStore, err := openStore(cfg, gate, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("存储初始化失败")
	}
	defer closeStore()

	// 初始化目录
	loader := service.NewLoader(store, logger.Component(log, "loader"), service.LoaderOptions{
		Concurrency: cfg.DetailConcurrency,
		CacheSize:   cfg.DetailCacheSize,
		CacheTTL:    cfg.DetailCacheTTL,
	})
	catalog := service.NewCatalog(loader, log, cfg.SeedDemo)
	admin := service.NewAdmin(store, catalog, loader, log, cfg.Backend == config.BackendRemote)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if _, _, err := catalog.Load(loadCtx); err != nil {
		log.Warn().Err(err).Msg("首次加载目录失败，以空目录启动")
	}
	cancelLoad()

	// 定时刷新，关闭服务器时停止
	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	service.NewRefresher(catalog, cfg.RefreshInterval, log).Start(refreshCtx)

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// 中间件
	httpLog := logger.Component(log, "http")
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(httpLog))
	r.Use(middleware.Recovery(httpLog))

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 设置 Session 中间件
	sessionStore := cookie.NewStore([]byte(cfg.AppSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("catalog_session", sessionStore))

	// 加载模板（使用 multitemplate 解决继承问题）
	r.HTMLRender = router.LoadTemplates(cfg.TemplatesDir)

	h := handler.NewHandler(cfg, catalog, admin, gate, store, log)
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend).Msg("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("正在关闭服务器...")
	stopRefresh()

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("服务器强制关闭")
	}

	log.Info().Msg("服务器已退出")
}

// openStore 按 STORE_BACKEND 选择持久化实现
func openStore(cfg *config.Config, gate *auth.Gate, log zerolog.Logger) (repository.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("Redis 已连接")
		return repository.NewKVStore(repository.NewRedisKV(client, "catalog:")), func() { _ = client.Close() }, nil

	case config.BackendRemote:
		client := utils.NewHTTPClient(cfg.RemoteTimeout)
		log.Info().Str("models", cfg.RemoteModels).Str("filters", cfg.RemoteFilters).Msg("使用远程后端")
		// 远端写接口需要同一账号的令牌，两端须使用相同的 APP_SECRET 与 ADMIN_USERNAME
		remote := repository.NewRemoteStore(client, cfg.RemoteModels, cfg.RemoteFilters).WithToken(gate.Token)
		return remote, func() {}, nil

	case config.BackendPostgres:
		db, err := repository.InitDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.Migrate(db); err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("数据库已连接")
		return repository.NewRepositories(db), func() { _ = sqlDB.Close() }, nil
	}

	return repository.NewKVStore(repository.NewMemoryKV()), func() {}, nil
}
