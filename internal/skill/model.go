package skill

import (
	"time"

	"github.com/SlpAus/portfolio-backend/internal/stats"
)

// Skill 以 packageName 为唯一键，downloads 与 github 是按需刷新的缓存子文档
type Skill struct {
	ID          string           `json:"_id" bson:"-" gorm:"primaryKey;size:24"`
	Name        string           `json:"name" bson:"name"`
	PackageName string           `json:"packageName" bson:"packageName" gorm:"uniqueIndex;not null"`
	Owner       string           `json:"owner,omitempty" bson:"owner,omitempty"`
	Repo        string           `json:"repo,omitempty" bson:"repo,omitempty"`
	Category    string           `json:"category" bson:"category"`
	Icon        string           `json:"icon" bson:"icon"`
	CreatedAt   time.Time        `json:"createdAt" bson:"createdAt"`
	Downloads   *stats.Downloads `json:"downloads,omitempty" bson:"downloads,omitempty" gorm:"serializer:json;type:text"`
	GitHub      *stats.Repo      `json:"github,omitempty" bson:"github,omitempty" gorm:"column:github;serializer:json;type:text"`
}

// Input 是 POST /skills 的请求体，统计数据只由 /skills-stats 填充
type Input struct {
	Name        string `json:"name"`
	PackageName string `json:"packageName"`
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
}

// hasRepo 判断是否具备调用 GitHub 接口所需的字段
func (s *Skill) hasRepo() bool {
	return s.Owner != "" && s.Repo != ""
}
