package user

import (
	"context"

	"github.com/SlpAus/portfolio-backend/internal/pager"
)

// Repository 是用户集合的存储接口
type Repository interface {
	// Upsert 按 email 原子地插入新用户，或只刷新已有用户的 last_log_in。
	// created 表示本次是否插入了新记录。
	Upsert(ctx context.Context, u User) (saved *User, created bool, err error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f Filter, q pager.Query) (pager.Page[User], error)
}
