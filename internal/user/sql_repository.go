package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
)

type SQLRepository struct {
	db *gorm.DB
}

func NewSQLRepository(db *gorm.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Upsert 在一个事务中执行 INSERT .. ON CONFLICT(email) DO NOTHING，
// 未插入时说明用户已存在，只刷新 last_log_in。
func (r *SQLRepository) Upsert(ctx context.Context, u User) (*User, bool, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, false, fmt.Errorf("无法开始数据库事务: %w", tx.Error)
	}
	// panic 时回滚事务
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&u)
	if res.Error != nil {
		tx.Rollback()
		return nil, false, fmt.Errorf("写入用户失败: %w", res.Error)
	}
	created := res.RowsAffected == 1

	if !created {
		if err := tx.Model(&User{}).Where("email = ?", u.Email).Update("last_log_in", u.LastLogIn).Error; err != nil {
			tx.Rollback()
			return nil, false, fmt.Errorf("更新登录时间失败: %w", err)
		}
	}

	var saved User
	if err := tx.First(&saved, "email = ?", u.Email).Error; err != nil {
		tx.Rollback()
		return nil, false, fmt.Errorf("读取用户失败: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, false, fmt.Errorf("提交事务失败: %w", err)
	}
	return &saved, created, nil
}

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, database.ErrNotFound)
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}

func (r *SQLRepository) List(ctx context.Context, f Filter, q pager.Query) (pager.Page[User], error) {
	var scope pager.Scope
	if f.Name != "" || f.Role != "" {
		scope = func(tx *gorm.DB) *gorm.DB {
			if f.Name != "" {
				esc := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(f.Name))
				tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+esc+"%")
			}
			if f.Role != "" {
				tx = tx.Where("role = ?", f.Role)
			}
			return tx
		}
	}

	page, err := pager.Paginate[User, pager.Scope](ctx, pager.GormSource[User]{DB: r.db, Order: "id asc"}, scope, q)
	if err != nil {
		return pager.Page[User]{}, fmt.Errorf("查询用户列表失败: %w", err)
	}
	return page, nil
}
