package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
)

// OpenSQL 根据驱动打开 sqlite 或 postgres 连接
func OpenSQL(cfg config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSqlite:
		dialector = sqlite.Open(cfg.SQL.DSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.SQL.DSN)
	default:
		return nil, fmt.Errorf("不支持的SQL驱动: %s", cfg.Driver)
	}

	// GORM日志桥接到logrus，只记录慢查询与错误
	gormLogger := logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	if cfg.Driver == config.DriverSqlite {
		// sqlite 只允许单写者；内存库在连接关闭后会丢失，因此固定为一个连接
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.WithField("driver", cfg.Driver).Info("数据库连接成功")
	return db, nil
}

// PingSQL 检查底层连接池
func PingSQL(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CloseSQL 关闭底层连接池
func CloseSQL(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
