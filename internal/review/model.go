package review

import "time"

// Review 是访客留下的评价，读取时按 posted_on 倒序
type Review struct {
	ID       string    `json:"_id" bson:"-" gorm:"primaryKey;size:24"`
	Name     string    `json:"name" bson:"name"`
	Email    string    `json:"email" bson:"email"`
	Photo    string    `json:"photo" bson:"photo"`
	Rating   float64   `json:"rating" bson:"rating"`
	Content  string    `json:"content" bson:"content"`
	PostedOn time.Time `json:"posted_on" bson:"posted_on" gorm:"index"`
}

type Input struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Photo   string  `json:"photo"`
	Rating  float64 `json:"rating"`
	Content string  `json:"content"`
}
