package skill

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
)

var ErrPackageRequired = errors.New("packageName is required")

type Service struct {
	repo      Repository
	refresher *Refresher
	logger    logrus.FieldLogger
	now       func() time.Time
}

func NewService(repo Repository, refresher *Refresher, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, refresher: refresher, logger: logger, now: time.Now}
}

// Create 新建技能，packageName 重复时返回 database.ErrDuplicate
func (s *Service) Create(ctx context.Context, in Input) (database.InsertResult, error) {
	packageName := strings.TrimSpace(in.PackageName)
	if packageName == "" {
		return database.InsertResult{}, ErrPackageRequired
	}

	sk := Skill{
		ID:          database.NewID(),
		Name:        in.Name,
		PackageName: packageName,
		Owner:       strings.TrimSpace(in.Owner),
		Repo:        strings.TrimSpace(in.Repo),
		Category:    in.Category,
		Icon:        in.Icon,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &sk); err != nil {
		return database.InsertResult{}, err
	}

	s.logger.WithFields(logging.BaseFields("skill_create", "skill")).
		WithField("package_name", packageName).Info("技能已创建")
	return database.Inserted(sk.ID), nil
}

func (s *Service) Get(ctx context.Context, packageName string) (*Skill, error) {
	return s.repo.FindByPackage(ctx, strings.TrimSpace(packageName))
}

func (s *Service) List(ctx context.Context, q pager.Query) (pager.Page[Skill], error) {
	return s.repo.List(ctx, q)
}

// Stats 返回全部技能，过期的统计数据在返回前刷新
func (s *Service) Stats(ctx context.Context) ([]Skill, error) {
	skills, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	return s.refresher.Refresh(ctx, skills), nil
}
