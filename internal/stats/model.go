package stats

import "time"

// Downloads 是 npm 下载量的缓存子文档
type Downloads struct {
	Monthly     int64     `json:"monthly" bson:"monthly"`
	Daily       int64     `json:"daily" bson:"daily"`
	LastUpdated time.Time `json:"lastUpdated" bson:"lastUpdated"`
}

// Repo 是 GitHub 仓库统计的缓存子文档
type Repo struct {
	Stars       int64     `json:"stars" bson:"stars"`
	Forks       int64     `json:"forks" bson:"forks"`
	LastUpdated time.Time `json:"lastUpdated" bson:"lastUpdated"`
}
