package skill

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/gorm"
)

// EnsureIndexes 创建 packageName 唯一索引
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "packageName", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("无法创建skills索引: %w", err)
	}
	return nil
}

// Migrate 负责自动迁移数据库表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Skill{}); err != nil {
		return fmt.Errorf("无法迁移skills表: %w", err)
	}
	return nil
}
