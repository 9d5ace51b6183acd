package pager

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoSource 把一个集合适配为 Source，Sort 为空时按自然顺序返回
type MongoSource[T any] struct {
	Collection *mongo.Collection
	Sort       bson.D
}

func (s MongoSource[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return s.Collection.CountDocuments(ctx, filter)
}

func (s MongoSource[T]) Find(ctx context.Context, filter bson.M, skip, limit int64) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	if len(s.Sort) > 0 {
		opts.SetSort(s.Sort)
	}

	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
