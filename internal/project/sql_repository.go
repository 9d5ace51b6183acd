package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
)

// editableColumns 是 PUT 整体替换时写入的列，comments 与 created_at 不在其中
var editableColumns = []string{
	"title", "category", "description", "image",
	"live_link", "client_link", "server_link",
	"technologies", "features", "details",
}

type SQLRepository struct {
	db *gorm.DB
}

func NewSQLRepository(db *gorm.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// likePattern 把子串转换为转义后的 LIKE 模式
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func (r *SQLRepository) List(ctx context.Context, f Filter, q pager.Query) (pager.Page[Project], error) {
	var scope pager.Scope
	if !matchAll(f.Category) {
		pattern := likePattern(f.Category)
		scope = func(tx *gorm.DB) *gorm.DB {
			return tx.Where(`LOWER(category) LIKE ? ESCAPE '\'`, pattern)
		}
	}

	page, err := pager.Paginate[Project, pager.Scope](ctx, pager.GormSource[Project]{DB: r.db, Order: "id asc"}, scope, q)
	if err != nil {
		return pager.Page[Project]{}, fmt.Errorf("查询项目列表失败: %w", err)
	}
	for i := range page.Data {
		normalize(&page.Data[i])
	}
	return page, nil
}

func normalize(p *Project) {
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	p.Technologies = nonNil(p.Technologies)
	p.Features = nonNil(p.Features)
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	if !database.IsValidID(id) {
		return nil, database.ErrInvalidID
	}
	var p Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("查询项目失败: %w", err)
	}
	normalize(&p)
	return &p, nil
}

func (r *SQLRepository) Create(ctx context.Context, p *Project) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("插入项目失败: %w", err)
	}
	return nil
}

func (r *SQLRepository) Replace(ctx context.Context, id string, in Input) (database.UpdateResult, error) {
	if !database.IsValidID(id) {
		return database.UpdateResult{}, database.ErrInvalidID
	}

	var p Project
	in.apply(&p)
	res := r.db.WithContext(ctx).Model(&Project{}).Where("id = ?", id).Select(editableColumns).Updates(&p)
	if res.Error != nil {
		return database.UpdateResult{}, fmt.Errorf("更新项目失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return database.UpdateResult{}, fmt.Errorf("project %s: %w", id, database.ErrNotFound)
	}
	return database.Updated(res.RowsAffected, res.RowsAffected), nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) (database.DeleteResult, error) {
	if !database.IsValidID(id) {
		return database.DeleteResult{}, database.ErrInvalidID
	}
	res := r.db.WithContext(ctx).Delete(&Project{}, "id = ?", id)
	if res.Error != nil {
		return database.DeleteResult{}, fmt.Errorf("删除项目失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return database.DeleteResult{}, fmt.Errorf("project %s: %w", id, database.ErrNotFound)
	}
	return database.Deleted(res.RowsAffected), nil
}

// updateComments 在事务内读取评论列表、修改后整体写回
func (r *SQLRepository) updateComments(ctx context.Context, id string, mutate func([]Comment) ([]Comment, error)) (database.UpdateResult, error) {
	if !database.IsValidID(id) {
		return database.UpdateResult{}, database.ErrInvalidID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Project
		if err := tx.Select("id", "comments").First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("project %s: %w", id, database.ErrNotFound)
			}
			return err
		}

		comments, err := mutate(p.Comments)
		if err != nil {
			return err
		}
		if comments == nil {
			comments = []Comment{}
		}
		return tx.Model(&Project{}).Where("id = ?", id).Select("comments").Updates(&Project{Comments: comments}).Error
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) || errors.Is(err, ErrCommentNotFound) {
			return database.UpdateResult{}, err
		}
		return database.UpdateResult{}, fmt.Errorf("更新评论失败: %w", err)
	}
	return database.Updated(1, 1), nil
}

func (r *SQLRepository) PushComment(ctx context.Context, id string, c Comment) (database.UpdateResult, error) {
	return r.updateComments(ctx, id, func(comments []Comment) ([]Comment, error) {
		return append(comments, c), nil
	})
}

func (r *SQLRepository) PullComment(ctx context.Context, projectID, commentID string) (database.UpdateResult, error) {
	return r.updateComments(ctx, projectID, func(comments []Comment) ([]Comment, error) {
		for i, c := range comments {
			if c.ID == commentID {
				return append(comments[:i:i], comments[i+1:]...), nil
			}
		}
		return nil, ErrCommentNotFound
	})
}

func (r *SQLRepository) Categories(ctx context.Context) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).Model(&Project{}).
		Where("category <> ?", "").
		Distinct("category").
		Order("category").
		Pluck("category", &values).Error
	if err != nil {
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	return values, nil
}
