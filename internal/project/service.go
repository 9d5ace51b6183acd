package project

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
)

// Service 组合仓库与分类缓存，写操作成功后清理分类缓存
type Service struct {
	repo   Repository
	cache  *CategoryCache
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewService(repo Repository, cache *CategoryCache, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, category string, q pager.Query) (pager.Page[Project], error) {
	return s.repo.List(ctx, Filter{Category: strings.TrimSpace(category)}, q)
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (database.InsertResult, error) {
	p := Project{
		ID:        database.NewID(),
		Comments:  []Comment{},
		CreatedAt: s.now().UTC(),
	}
	in.apply(&p)

	if err := s.repo.Create(ctx, &p); err != nil {
		return database.InsertResult{}, err
	}
	_ = s.cache.Invalidate(ctx)

	s.logger.WithFields(logging.BaseFields("project_create", "project")).
		WithField("project_id", p.ID).Info("项目已创建")
	return database.Inserted(p.ID), nil
}

// Replace 整体替换可编辑字段，评论列表保持不变
func (s *Service) Replace(ctx context.Context, id string, in Input) (database.UpdateResult, error) {
	res, err := s.repo.Replace(ctx, id, in)
	if err != nil {
		return res, err
	}
	_ = s.cache.Invalidate(ctx)
	return res, nil
}

func (s *Service) Delete(ctx context.Context, id string) (database.DeleteResult, error) {
	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return res, err
	}
	_ = s.cache.Invalidate(ctx)

	s.logger.WithFields(logging.BaseFields("project_delete", "project")).
		WithField("project_id", id).Info("项目已删除")
	return res, nil
}

// AddComment 生成评论ID与时间后追加到项目末尾
func (s *Service) AddComment(ctx context.Context, projectID string, in CommentInput) (Comment, database.UpdateResult, error) {
	c := Comment{
		ID:       database.NewID(),
		Name:     in.Name,
		Email:    in.Email,
		Photo:    in.Photo,
		Text:     in.Text,
		PostedAt: s.now().UTC(),
	}
	res, err := s.repo.PushComment(ctx, projectID, c)
	if err != nil {
		return Comment{}, res, err
	}
	return c, res, nil
}

func (s *Service) RemoveComment(ctx context.Context, projectID, commentID string) (database.UpdateResult, error) {
	return s.repo.PullComment(ctx, projectID, commentID)
}

// Categories 优先读取缓存，未命中时查询存储并回填。
// 查询期间若有项目写入，代数已变化，回填会被放弃。
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, gen, ok := s.cache.Get(ctx)
	if ok {
		return categories, nil
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	s.cache.Set(ctx, gen, categories)
	return categories, nil
}

// InvalidateCategories 供健康检查在 Redis 恢复后调用，此时状态仍标记为不健康
func (s *Service) InvalidateCategories(ctx context.Context) error {
	return s.cache.Purge(ctx)
}
