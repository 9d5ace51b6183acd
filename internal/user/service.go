package user

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

// ErrEmailRequired 表示请求体中缺少 email
var ErrEmailRequired = errors.New("email is required")

type Service struct {
	repo   Repository
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewService(repo Repository, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Register 创建新用户，或在用户已存在时只刷新 last_log_in 并返回已有记录
func (s *Service) Register(ctx context.Context, in Input) (*User, bool, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, false, ErrEmailRequired
	}

	now := s.now().UTC()
	u, created, err := s.repo.Upsert(ctx, User{
		ID:        database.NewID(),
		Email:     email,
		Name:      in.Name,
		Photo:     in.Photo,
		Role:      DefaultRole,
		CreatedAt: now,
		LastLogIn: now,
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.WithFields(logging.BaseFields("user_create", "user")).
			WithField("user_id", u.ID).Info("新用户已创建")
	}
	return u, created, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) List(ctx context.Context, f Filter, q pager.Query) (pager.Page[User], error) {
	return s.repo.List(ctx, f, q)
}
