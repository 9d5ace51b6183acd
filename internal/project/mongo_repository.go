package project

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
)

const collectionName = "projects"

// projectDoc 是项目在 MongoDB 中的存储形式，_id 为原生 ObjectID
type projectDoc struct {
	OID     bson.ObjectID `bson:"_id,omitempty"`
	Project `bson:",inline"`
}

func (d projectDoc) toProject() Project {
	p := d.Project
	p.ID = d.OID.Hex()
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	return p
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(collectionName)}
}

// listFilter 中分类按子串匹配且忽略大小写，正则元字符按字面匹配
func listFilter(f Filter) bson.M {
	filter := bson.M{}
	if !matchAll(f.Category) {
		filter["category"] = bson.M{"$regex": regexp.QuoteMeta(f.Category), "$options": "i"}
	}
	return filter
}

// replaceUpdate 覆盖全部可编辑字段；details 缺省时从文档中移除
func replaceUpdate(in Input) bson.M {
	var p Project
	in.apply(&p)
	set := bson.M{
		"title":        p.Title,
		"category":     p.Category,
		"description":  p.Description,
		"image":        p.Image,
		"liveLink":     p.LiveLink,
		"clientLink":   p.ClientLink,
		"serverLink":   p.ServerLink,
		"technologies": p.Technologies,
		"features":     p.Features,
	}
	update := bson.M{"$set": set}
	if p.Details != nil {
		set["details"] = p.Details
	} else {
		update["$unset"] = bson.M{"details": ""}
	}
	return update
}

// pullComment 只匹配确实含有该评论的项目
func pullComment(oid bson.ObjectID, commentID string) (filter, update bson.M) {
	filter = bson.M{"_id": oid, "comments._id": commentID}
	update = bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}}
	return filter, update
}

func (r *MongoRepository) List(ctx context.Context, f Filter, q pager.Query) (pager.Page[Project], error) {
	filter := listFilter(f)

	src := pager.MongoSource[projectDoc]{Collection: r.coll, Sort: bson.D{{Key: "_id", Value: 1}}}
	page, err := pager.Paginate[projectDoc, bson.M](ctx, src, filter, q)
	if err != nil {
		return pager.Page[Project]{}, fmt.Errorf("查询项目列表失败: %w", err)
	}
	return pager.Map(page, projectDoc.toProject), nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, err
	}

	var doc projectDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("project %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("查询项目失败: %w", err)
	}
	p := doc.toProject()
	return &p, nil
}

func (r *MongoRepository) Create(ctx context.Context, p *Project) error {
	oid, err := database.ParseID(p.ID)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, projectDoc{OID: oid, Project: *p}); err != nil {
		return fmt.Errorf("插入项目失败: %w", err)
	}
	return nil
}

func (r *MongoRepository) Replace(ctx context.Context, id string, in Input) (database.UpdateResult, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return database.UpdateResult{}, err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, replaceUpdate(in))
	if err != nil {
		return database.UpdateResult{}, fmt.Errorf("更新项目失败: %w", err)
	}
	if res.MatchedCount == 0 {
		return database.UpdateResult{}, fmt.Errorf("project %s: %w", id, database.ErrNotFound)
	}
	return database.Updated(res.MatchedCount, res.ModifiedCount), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (database.DeleteResult, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return database.DeleteResult{}, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return database.DeleteResult{}, fmt.Errorf("删除项目失败: %w", err)
	}
	if res.DeletedCount == 0 {
		return database.DeleteResult{}, fmt.Errorf("project %s: %w", id, database.ErrNotFound)
	}
	return database.Deleted(res.DeletedCount), nil
}

func (r *MongoRepository) PushComment(ctx context.Context, id string, c Comment) (database.UpdateResult, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return database.UpdateResult{}, err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return database.UpdateResult{}, fmt.Errorf("追加评论失败: %w", err)
	}
	if res.MatchedCount == 0 {
		return database.UpdateResult{}, fmt.Errorf("project %s: %w", id, database.ErrNotFound)
	}
	return database.Updated(res.MatchedCount, res.ModifiedCount), nil
}

// PullComment 只在评论存在时匹配，未匹配时再区分项目缺失与评论缺失
func (r *MongoRepository) PullComment(ctx context.Context, projectID, commentID string) (database.UpdateResult, error) {
	oid, err := database.ParseID(projectID)
	if err != nil {
		return database.UpdateResult{}, err
	}

	filter, update := pullComment(oid, commentID)
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return database.UpdateResult{}, fmt.Errorf("删除评论失败: %w", err)
	}
	if res.MatchedCount > 0 {
		return database.Updated(res.MatchedCount, res.ModifiedCount), nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return database.UpdateResult{}, fmt.Errorf("查询项目失败: %w", err)
	}
	if n == 0 {
		return database.UpdateResult{}, fmt.Errorf("project %s: %w", projectID, database.ErrNotFound)
	}
	return database.UpdateResult{}, ErrCommentNotFound
}

func (r *MongoRepository) Categories(ctx context.Context) ([]string, error) {
	var values []string
	if err := r.coll.Distinct(ctx, "category", bson.M{"category": bson.M{"$type": "string", "$ne": ""}}).Decode(&values); err != nil {
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	sort.Strings(values)
	return values, nil
}
