package review

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
)

const collectionName = "reviews"

// Repository 是评价集合的存储接口
type Repository interface {
	Create(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id string) (database.DeleteResult, error)
	// List 按 posted_on 倒序分页
	List(ctx context.Context, q pager.Query) (pager.Page[Review], error)
}

type reviewDoc struct {
	OID    bson.ObjectID `bson:"_id,omitempty"`
	Review `bson:",inline"`
}

func (d reviewDoc) toReview() Review {
	r := d.Review
	r.ID = d.OID.Hex()
	return r
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(collectionName)}
}

func (m *MongoRepository) Create(ctx context.Context, r *Review) error {
	oid, err := database.ParseID(r.ID)
	if err != nil {
		return err
	}
	if _, err := m.coll.InsertOne(ctx, reviewDoc{OID: oid, Review: *r}); err != nil {
		return fmt.Errorf("插入评价失败: %w", err)
	}
	return nil
}

func (m *MongoRepository) Delete(ctx context.Context, id string) (database.DeleteResult, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return database.DeleteResult{}, err
	}
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return database.DeleteResult{}, fmt.Errorf("删除评价失败: %w", err)
	}
	if res.DeletedCount == 0 {
		return database.DeleteResult{}, fmt.Errorf("review %s: %w", id, database.ErrNotFound)
	}
	return database.Deleted(res.DeletedCount), nil
}

func (m *MongoRepository) List(ctx context.Context, q pager.Query) (pager.Page[Review], error) {
	src := pager.MongoSource[reviewDoc]{
		Collection: m.coll,
		Sort:       bson.D{{Key: "posted_on", Value: -1}, {Key: "_id", Value: -1}},
	}
	page, err := pager.Paginate[reviewDoc, bson.M](ctx, src, nil, q)
	if err != nil {
		return pager.Page[Review]{}, fmt.Errorf("查询评价列表失败: %w", err)
	}
	return pager.Map(page, reviewDoc.toReview), nil
}

type SQLRepository struct {
	db *gorm.DB
}

func NewSQLRepository(db *gorm.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (s *SQLRepository) Create(ctx context.Context, r *Review) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("插入评价失败: %w", err)
	}
	return nil
}

func (s *SQLRepository) Delete(ctx context.Context, id string) (database.DeleteResult, error) {
	if !database.IsValidID(id) {
		return database.DeleteResult{}, database.ErrInvalidID
	}
	res := s.db.WithContext(ctx).Delete(&Review{}, "id = ?", id)
	if res.Error != nil {
		return database.DeleteResult{}, fmt.Errorf("删除评价失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return database.DeleteResult{}, fmt.Errorf("review %s: %w", id, database.ErrNotFound)
	}
	return database.Deleted(res.RowsAffected), nil
}

func (s *SQLRepository) List(ctx context.Context, q pager.Query) (pager.Page[Review], error) {
	src := pager.GormSource[Review]{DB: s.db, Order: "posted_on desc, id desc"}
	page, err := pager.Paginate[Review, pager.Scope](ctx, src, nil, q)
	if err != nil {
		return pager.Page[Review]{}, fmt.Errorf("查询评价列表失败: %w", err)
	}
	return page, nil
}

// EnsureIndexes 为倒序读取建立索引
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "posted_on", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("无法创建reviews索引: %w", err)
	}
	return nil
}

// Migrate 负责自动迁移数据库表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Review{}); err != nil {
		return fmt.Errorf("无法迁移reviews表: %w", err)
	}
	return nil
}
