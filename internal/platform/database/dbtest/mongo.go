// Package dbtest 为仓库测试提供真实的 MongoDB 连接。
// 未设置 PORTFOLIO_TEST_MONGO_URI 时相关测试直接跳过。
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
)

// MongoURIEnv 指向可供测试随意建库删库的 MongoDB 实例
const MongoURIEnv = "PORTFOLIO_TEST_MONGO_URI"

// Mongo 为每个测试创建独立的数据库，测试结束后删除
func Mongo(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		t.Skipf("未设置 %s，跳过 MongoDB 集成测试", MongoURIEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	m, err := database.ConnectMongo(ctx, config.MongoConfig{
		URI:            uri,
		Database:       "portfolio_test_" + database.NewID(),
		ConnectTimeout: 5 * time.Second,
	}, logging.Discard())
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = m.DB.Drop(ctx)
		_ = m.Close(ctx)
	})
	return m.DB
}
