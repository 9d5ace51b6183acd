package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
)

const collectionName = "users"

type userDoc struct {
	OID  bson.ObjectID `bson:"_id,omitempty"`
	User `bson:",inline"`
}

func (d userDoc) toUser() User {
	u := d.User
	u.ID = d.OID.Hex()
	return u
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(collectionName)}
}

// upsertDoc 对已存在的用户只刷新 last_log_in，其余字段只在插入时写入
func upsertDoc(oid bson.ObjectID, u User) (filter, update bson.M) {
	filter = bson.M{"email": u.Email}
	update = bson.M{
		"$set": bson.M{"last_log_in": u.LastLogIn},
		"$setOnInsert": bson.M{
			"_id":        oid,
			"name":       u.Name,
			"photo":      u.Photo,
			"role":       u.Role,
			"created_at": u.CreatedAt,
		},
	}
	return filter, update
}

func listFilter(f Filter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Name), "$options": "i"}
	}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	return filter
}

// Upsert 依赖 email 上的唯一索引。两个并发请求同时插入时，
// 失败的一方会收到重复键错误，重试一次即可命中已插入的记录。
func (r *MongoRepository) Upsert(ctx context.Context, u User) (*User, bool, error) {
	oid, err := database.ParseID(u.ID)
	if err != nil {
		return nil, false, err
	}

	filter, update := upsertDoc(oid, u)

	var res *mongo.UpdateResult
	for attempt := 0; ; attempt++ {
		res, err = r.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
		if err == nil {
			break
		}
		if attempt == 0 && mongo.IsDuplicateKeyError(err) {
			continue
		}
		return nil, false, fmt.Errorf("写入用户失败: %w", err)
	}

	saved, err := r.FindByEmail(ctx, u.Email)
	if err != nil {
		return nil, false, err
	}
	return saved, res.UpsertedCount > 0, nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", email, database.ErrNotFound)
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	u := doc.toUser()
	return &u, nil
}

func (r *MongoRepository) List(ctx context.Context, f Filter, q pager.Query) (pager.Page[User], error) {
	filter := listFilter(f)

	src := pager.MongoSource[userDoc]{Collection: r.coll, Sort: bson.D{{Key: "_id", Value: 1}}}
	page, err := pager.Paginate[userDoc, bson.M](ctx, src, filter, q)
	if err != nil {
		return pager.Page[User]{}, fmt.Errorf("查询用户列表失败: %w", err)
	}
	return pager.Map(page, userDoc.toUser), nil
}
