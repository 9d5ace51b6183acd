package startup

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/project"
	"github.com/SlpAus/portfolio-backend/internal/review"
	"github.com/SlpAus/portfolio-backend/internal/skill"
	"github.com/SlpAus/portfolio-backend/internal/user"
)

// Store 汇总所选后端上的全部仓库
type Store struct {
	Projects project.Repository
	Users    user.Repository
	Skills   skill.Repository
	Reviews  review.Repository

	// Ping 供 /healthz 探测存储
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}

// OpenStore 是应用启动时执行的存储初始化入口：
// 按配置连接 MongoDB 或 SQL，并准备好索引或表结构。
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger *logrus.Logger) (*Store, error) {
	logger.WithField("driver", cfg.Driver).Info("开始初始化存储...")

	switch cfg.Driver {
	case config.DriverMongo:
		m, err := database.ConnectMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		if err := prepareMongo(ctx, m.DB); err != nil {
			_ = m.Close(context.Background())
			return nil, err
		}
		store := &Store{
			Projects: project.NewMongoRepository(m.DB),
			Users:    user.NewMongoRepository(m.DB),
			Skills:   skill.NewMongoRepository(m.DB),
			Reviews:  review.NewMongoRepository(m.DB),
			Ping:     m.Ping,
			Close:    m.Close,
		}
		logger.Info("存储初始化完成！")
		return store, nil

	case config.DriverSqlite, config.DriverPostgres:
		db, err := database.OpenSQL(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := migrateSQL(db); err != nil {
			_ = database.CloseSQL(db)
			return nil, err
		}
		store := &Store{
			Projects: project.NewSQLRepository(db),
			Users:    user.NewSQLRepository(db),
			Skills:   skill.NewSQLRepository(db),
			Reviews:  review.NewSQLRepository(db),
			Ping:     func(ctx context.Context) error { return database.PingSQL(ctx, db) },
			Close:    func(context.Context) error { return database.CloseSQL(db) },
		}
		logger.Info("存储初始化完成！")
		return store, nil
	}
	return nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Driver)
}

func prepareMongo(ctx context.Context, db *mongo.Database) error {
	steps := []func(context.Context, *mongo.Database) error{
		project.EnsureIndexes,
		user.EnsureIndexes,
		skill.EnsureIndexes,
		review.EnsureIndexes,
	}
	for _, step := range steps {
		if err := step(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

func migrateSQL(db *gorm.DB) error {
	steps := []func(*gorm.DB) error{
		project.Migrate,
		user.Migrate,
		skill.Migrate,
		review.Migrate,
	}
	for _, step := range steps {
		if err := step(db); err != nil {
			return err
		}
	}
	return nil
}
