package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/api"
	"github.com/SlpAus/portfolio-backend/internal/platform/config"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/platform/health"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
	"github.com/SlpAus/portfolio-backend/internal/platform/shutdown"
	"github.com/SlpAus/portfolio-backend/internal/platform/startup"
	"github.com/SlpAus/portfolio-backend/internal/project"
	"github.com/SlpAus/portfolio-backend/internal/review"
	"github.com/SlpAus/portfolio-backend/internal/skill"
	"github.com/SlpAus/portfolio-backend/internal/stats"
	"github.com/SlpAus/portfolio-backend/internal/upload"
	"github.com/SlpAus/portfolio-backend/internal/user"
	"github.com/SlpAus/portfolio-backend/pkg/lifecycle"
	"github.com/SlpAus/portfolio-backend/pkg/token"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径，默认在 ./config 与 . 中查找 config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	logger, err := logging.InitLogger(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("初始化日志失败: %v", err))
	}
	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()

	// 1. 存储
	store, err := startup.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("存储初始化失败，无法启动")
	}
	closers := []shutdown.Closer{{Name: cfg.Database.Driver, Close: store.Close}}

	// 2. 缓存。Redis 暂时不可用时以降级模式启动，由健康检查负责恢复
	status := database.NewStatus(logger)
	rdb, err := database.InitRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.WithError(err).Warn("Redis不可用，分类缓存以降级模式启动")
	}
	if rdb != nil {
		closers = append(closers, shutdown.Closer{Name: "redis", Close: func(context.Context) error { return rdb.Close() }})
	}

	// 3. 服务
	projectSvc := project.NewService(store.Projects, project.NewCategoryCache(rdb, status, cfg.Redis.CategoriesTTL, logger), logger)

	httpClient := stats.NewHTTPClient(cfg.Stats)
	refresher := skill.NewRefresher(
		stats.NewNpmClient(cfg.Stats, httpClient, logger),
		stats.NewGitHubClient(cfg.Stats, httpClient, logger),
		store.Skills,
		cfg.Stats.StaleAfter,
		cfg.Stats.Concurrency,
		logger,
	)

	signer, err := newSigner(cfg.Upload, logger)
	if err != nil {
		logger.WithError(err).Fatal("无法初始化上传签名")
	}

	// 4. 后台健康检查
	manager := lifecycle.NewManager(logger)
	checker := startHealthCheck(ctx, rdb, status, cfg.Redis, projectSvc, manager, logger)

	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.Server.Cors)))

	api.SetupRoutes(router, api.Handlers{
		Health:   health.NewHandler(store.Ping, checker, logger),
		Projects: project.NewHandler(projectSvc, logger),
		Users:    user.NewHandler(user.NewService(store.Users, logger), logger),
		Skills:   skill.NewHandler(skill.NewService(store.Skills, refresher, logger), logger),
		Reviews:  review.NewHandler(review.NewService(store.Reviews, logger), logger),
		Upload:   upload.NewHandler(signer, cfg.Upload.ImageKit, logger),
	})

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("address", cfg.Server.Address).Info("服务器已准备就绪，开始监听")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("服务器启动失败")
		}
	}()

	shutdown.NewCoordinator(manager, logger, closers...).ListenForSignalsAndShutdown(server)
}

// newSigner 使用配置的签名密钥；未配置时生成进程内随机密钥
func newSigner(cfg config.UploadConfig, logger logrus.FieldLogger) (*token.Signer, error) {
	if cfg.SigningSecret != "" {
		return token.NewSigner([]byte(cfg.SigningSecret), cfg.TokenTTL), nil
	}
	secret, err := token.GenerateSecretKey()
	if err != nil {
		return nil, err
	}
	logger.Warn("未配置签名密钥，已生成临时密钥，重启后旧签名失效")
	return token.NewSigner(secret, cfg.TokenTTL), nil
}

// startHealthCheck 先阻塞执行一次检查，再在后台持续运行。未配置 Redis 时返回 nil。
func startHealthCheck(ctx context.Context, rdb *redis.Client, status *database.Status, cfg config.RedisConfig,
	projects *project.Service, manager *lifecycle.Manager, logger logrus.FieldLogger) *health.Checker {
	if rdb == nil {
		return nil
	}

	checker := health.NewChecker(rdb, status, cfg.CheckInterval, projects.InvalidateCategories, logger)
	logger.Info("正在执行启动后健康检查...")
	checker.PerformCheck(ctx)

	handle, err := manager.NewServiceHandle("redis-health")
	if err != nil {
		logger.WithError(err).Fatal("无法注册健康检查服务")
	}
	go checker.Run(handle)
	return checker
}

// corsConfig 中 "*" 表示允许任意来源，此时不能携带凭据
func corsConfig(cfg config.CorsConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", logging.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.AllowedOrigins
	c.AllowCredentials = true
	return c
}
