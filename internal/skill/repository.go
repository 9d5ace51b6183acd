package skill

import (
	"context"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/stats"
)

// StatsStore 是刷新器写回缓存子文档所需的存储能力，按 packageName 定位记录
type StatsStore interface {
	SetDownloads(ctx context.Context, packageName string, d stats.Downloads) error
	SetGitHub(ctx context.Context, packageName string, r stats.Repo) error
}

// Repository 是技能集合的存储接口
type Repository interface {
	StatsStore
	// Create 在 packageName 已存在时返回 database.ErrDuplicate，且不修改存储
	Create(ctx context.Context, s *Skill) error
	FindByPackage(ctx context.Context, packageName string) (*Skill, error)
	List(ctx context.Context, q pager.Query) (pager.Page[Skill], error)
	All(ctx context.Context) ([]Skill, error)
}
