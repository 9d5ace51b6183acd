package user

import "time"

// DefaultRole 是新用户的默认角色
const DefaultRole = "user"

// User 以 email 为唯一键。字段名沿用前端使用的 snake_case。
type User struct {
	ID        string    `json:"_id" bson:"-" gorm:"primaryKey;size:24"`
	Email     string    `json:"email" bson:"email" gorm:"uniqueIndex;size:320;not null"`
	Name      string    `json:"name" bson:"name"`
	Photo     string    `json:"photo" bson:"photo"`
	Role      string    `json:"role" bson:"role" gorm:"index"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	LastLogIn time.Time `json:"last_log_in" bson:"last_log_in"`
}

// Input 是 POST /users 的请求体，email 必填
type Input struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

// Filter 是用户列表的查询条件，Name 为子串匹配，Role 为精确匹配
type Filter struct {
	Name string
	Role string
}
