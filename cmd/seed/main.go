package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
	"github.com/SlpAus/portfolio-backend/internal/platform/startup"
	"github.com/SlpAus/portfolio-backend/internal/project"
	"github.com/SlpAus/portfolio-backend/internal/review"
	"github.com/SlpAus/portfolio-backend/internal/seed"
	"github.com/SlpAus/portfolio-backend/internal/skill"
)

// 用法: go run ./cmd/seed -data ./assets/seed.json [-config ./config/config.yaml]
func main() {
	configPath := flag.String("config", "", "配置文件路径")
	dataPath := flag.String("data", "./assets/seed.json", "种子数据 JSON 文件")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.InitLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(*dataPath)
	if err != nil {
		logger.WithError(err).Fatal("无法打开种子文件")
	}
	data, err := seed.Load(f)
	f.Close()
	if err != nil {
		logger.WithError(err).Fatal("种子文件格式错误")
	}

	ctx := context.Background()
	store, err := startup.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("存储初始化失败")
	}
	defer store.Close(ctx)

	// 导入工具不连接 Redis；服务端的分类缓存会在 TTL 到期后刷新
	sum, err := seed.Apply(ctx, seed.Services{
		Projects: project.NewService(store.Projects, nil, logger),
		Skills:   skill.NewService(store.Skills, nil, logger),
		Reviews:  review.NewService(store.Reviews, logger),
	}, data, logger)
	if err != nil {
		_ = store.Close(ctx)
		logger.WithError(err).Fatal("导入中断")
	}
	logger.WithFields(map[string]any{
		"projects": sum.Projects,
		"skills":   sum.Skills,
		"reviews":  sum.Reviews,
	}).Info("种子数据导入完成")
}
