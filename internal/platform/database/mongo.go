package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
)

// Mongo 持有进程级共享的 MongoDB 连接，可被多个goroutine并发使用
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectMongo 建立与MongoDB的连接，并使用Ping命令确认连接可用
func ConnectMongo(ctx context.Context, cfg config.MongoConfig, logger logrus.FieldLogger) (*Mongo, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.User != "" {
		opts.SetAuth(options.Credential{Username: cfg.User, Password: cfg.Password})
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("无法创建MongoDB客户端: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("无法连接到MongoDB: %w", err)
	}

	logger.WithField("database", cfg.Database).Info("MongoDB 连接成功")
	return &Mongo{Client: client, DB: client.Database(cfg.Database)}, nil
}

// Ping 检查连接是否仍然可用
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close 断开连接
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
