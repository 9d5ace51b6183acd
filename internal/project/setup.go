package project

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

// EnsureIndexes 为分类查询建立索引
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("无法创建projects索引: %w", err)
	}
	return nil
}

// Migrate 负责自动迁移数据库表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Project{}); err != nil {
		return fmt.Errorf("无法迁移projects表: %w", err)
	}
	return nil
}
