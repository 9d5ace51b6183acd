package skill

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/stats"
)

const collectionName = "skills"

type skillDoc struct {
	OID   bson.ObjectID `bson:"_id,omitempty"`
	Skill `bson:",inline"`
}

func (d skillDoc) toSkill() Skill {
	s := d.Skill
	s.ID = d.OID.Hex()
	return s
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(collectionName)}
}

// Create 先检查 packageName 是否存在；唯一索引兜住并发插入
func (r *MongoRepository) Create(ctx context.Context, s *Skill) error {
	oid, err := database.ParseID(s.ID)
	if err != nil {
		return err
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"packageName": s.PackageName})
	if err != nil {
		return fmt.Errorf("查询技能失败: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("skill %s: %w", s.PackageName, database.ErrDuplicate)
	}

	if _, err := r.coll.InsertOne(ctx, skillDoc{OID: oid, Skill: *s}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("skill %s: %w", s.PackageName, database.ErrDuplicate)
		}
		return fmt.Errorf("插入技能失败: %w", err)
	}
	return nil
}

func (r *MongoRepository) FindByPackage(ctx context.Context, packageName string) (*Skill, error) {
	var doc skillDoc
	if err := r.coll.FindOne(ctx, bson.M{"packageName": packageName}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("skill %s: %w", packageName, database.ErrNotFound)
		}
		return nil, fmt.Errorf("查询技能失败: %w", err)
	}
	s := doc.toSkill()
	return &s, nil
}

func (r *MongoRepository) List(ctx context.Context, q pager.Query) (pager.Page[Skill], error) {
	src := pager.MongoSource[skillDoc]{Collection: r.coll, Sort: bson.D{{Key: "_id", Value: 1}}}
	page, err := pager.Paginate[skillDoc, bson.M](ctx, src, nil, q)
	if err != nil {
		return pager.Page[Skill]{}, fmt.Errorf("查询技能列表失败: %w", err)
	}
	return pager.Map(page, skillDoc.toSkill), nil
}

func (r *MongoRepository) All(ctx context.Context) ([]Skill, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("查询技能失败: %w", err)
	}
	var docs []skillDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("读取技能失败: %w", err)
	}

	out := make([]Skill, len(docs))
	for i, d := range docs {
		out[i] = d.toSkill()
	}
	return out, nil
}

func (r *MongoRepository) setField(ctx context.Context, packageName, field string, value any) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"packageName": packageName}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("写回 %s 失败: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("skill %s: %w", packageName, database.ErrNotFound)
	}
	return nil
}

func (r *MongoRepository) SetDownloads(ctx context.Context, packageName string, d stats.Downloads) error {
	return r.setField(ctx, packageName, "downloads", d)
}

func (r *MongoRepository) SetGitHub(ctx context.Context, packageName string, repo stats.Repo) error {
	return r.setField(ctx, packageName, "github", repo)
}
