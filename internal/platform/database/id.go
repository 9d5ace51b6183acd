package database

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// 仓库层统一返回的哨兵错误，由 handler 映射为状态码
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	ErrInvalidID = errors.New("invalid object id")
)

// NewID 生成一个24位十六进制的ObjectID字符串，两种存储后端共用同一种ID格式
func NewID() string {
	return bson.NewObjectID().Hex()
}

// IsValidID 检查一个字符串是否是合法的ObjectID
func IsValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}

// ParseID 把十六进制ID转换为ObjectID，格式错误时返回 ErrInvalidID
func ParseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
