package project

import "time"

// Project 是作品集中的一个项目。ID 在两种后端中都是24位十六进制字符串。
type Project struct {
	ID           string         `json:"_id" bson:"-" gorm:"primaryKey;size:24"`
	Title        string         `json:"title" bson:"title"`
	Category     string         `json:"category" bson:"category" gorm:"index"`
	Description  string         `json:"description" bson:"description"`
	Image        string         `json:"image" bson:"image"`
	LiveLink     string         `json:"liveLink" bson:"liveLink"`
	ClientLink   string         `json:"clientLink" bson:"clientLink"`
	ServerLink   string         `json:"serverLink" bson:"serverLink"`
	Technologies []string       `json:"technologies" bson:"technologies" gorm:"serializer:json;type:text"`
	Features     []string       `json:"features" bson:"features" gorm:"serializer:json;type:text"`
	Details      map[string]any `json:"details,omitempty" bson:"details,omitempty" gorm:"serializer:json;type:text"`
	Comments     []Comment      `json:"comments" bson:"comments" gorm:"serializer:json;type:text"`
	CreatedAt    time.Time      `json:"createdAt" bson:"createdAt"`
}

// Comment 按追加顺序保存在项目内
type Comment struct {
	ID       string    `json:"_id" bson:"_id"`
	Name     string    `json:"name" bson:"name"`
	Email    string    `json:"email" bson:"email"`
	Photo    string    `json:"photo" bson:"photo"`
	Text     string    `json:"text" bson:"text"`
	PostedAt time.Time `json:"postedAt" bson:"postedAt"`
}

// Input 是 POST /add-project 与 PUT /project/:id 可写入的字段
type Input struct {
	Title        string         `json:"title"`
	Category     string         `json:"category"`
	Description  string         `json:"description"`
	Image        string         `json:"image"`
	LiveLink     string         `json:"liveLink"`
	ClientLink   string         `json:"clientLink"`
	ServerLink   string         `json:"serverLink"`
	Technologies []string       `json:"technologies"`
	Features     []string       `json:"features"`
	Details      map[string]any `json:"details"`
}

// CommentInput 是 PATCH /project/comment/:id 的请求体
type CommentInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Text  string `json:"text"`
}

// Filter 是列表查询条件；Category 为空表示匹配全部
type Filter struct {
	Category string
}

// matchAll 判断分类参数是否应视为不过滤
func matchAll(category string) bool {
	return category == "" || category == "all"
}

func (in Input) apply(p *Project) {
	p.Title = in.Title
	p.Category = in.Category
	p.Description = in.Description
	p.Image = in.Image
	p.LiveLink = in.LiveLink
	p.ClientLink = in.ClientLink
	p.ServerLink = in.ServerLink
	p.Technologies = nonNil(in.Technologies)
	p.Features = nonNil(in.Features)
	p.Details = in.Details
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
