package skill

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/stats"
)

type SQLRepository struct {
	db *gorm.DB
}

func NewSQLRepository(db *gorm.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, s *Skill) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Skill{}).Where("package_name = ?", s.PackageName).Count(&n).Error; err != nil {
		return fmt.Errorf("查询技能失败: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("skill %s: %w", s.PackageName, database.ErrDuplicate)
	}

	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("skill %s: %w", s.PackageName, database.ErrDuplicate)
		}
		return fmt.Errorf("插入技能失败: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindByPackage(ctx context.Context, packageName string) (*Skill, error) {
	var s Skill
	if err := r.db.WithContext(ctx).First(&s, "package_name = ?", packageName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("skill %s: %w", packageName, database.ErrNotFound)
		}
		return nil, fmt.Errorf("查询技能失败: %w", err)
	}
	return &s, nil
}

func (r *SQLRepository) List(ctx context.Context, q pager.Query) (pager.Page[Skill], error) {
	page, err := pager.Paginate[Skill, pager.Scope](ctx, pager.GormSource[Skill]{DB: r.db, Order: "id asc"}, nil, q)
	if err != nil {
		return pager.Page[Skill]{}, fmt.Errorf("查询技能列表失败: %w", err)
	}
	return page, nil
}

func (r *SQLRepository) All(ctx context.Context) ([]Skill, error) {
	var out []Skill
	if err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("查询技能失败: %w", err)
	}
	return out, nil
}

// setColumn 通过 struct 更新写入 JSON 序列化的列，map 形式的更新不会经过 serializer
func (r *SQLRepository) setColumn(ctx context.Context, packageName, column string, value *Skill) error {
	res := r.db.WithContext(ctx).Model(&Skill{}).Where("package_name = ?", packageName).Select(column).Updates(value)
	if res.Error != nil {
		return fmt.Errorf("写回 %s 失败: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("skill %s: %w", packageName, database.ErrNotFound)
	}
	return nil
}

func (r *SQLRepository) SetDownloads(ctx context.Context, packageName string, d stats.Downloads) error {
	return r.setColumn(ctx, packageName, "downloads", &Skill{Downloads: &d})
}

func (r *SQLRepository) SetGitHub(ctx context.Context, packageName string, repo stats.Repo) error {
	return r.setColumn(ctx, packageName, "github", &Skill{GitHub: &repo})
}
