package database

// 写操作的响应格式沿用 MongoDB 驱动返回的字段名，两种后端返回相同的结构

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Inserted 构造一个已确认的插入结果
func Inserted(id string) InsertResult {
	return InsertResult{Acknowledged: true, InsertedID: id}
}

// Updated 构造一个已确认的更新结果
func Updated(matched, modified int64) UpdateResult {
	return UpdateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified}
}

// Deleted 构造一个已确认的删除结果
func Deleted(n int64) DeleteResult {
	return DeleteResult{Acknowledged: true, DeletedCount: n}
}
