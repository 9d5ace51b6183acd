package review

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
)

type Service struct {
	repo   Repository
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewService(repo Repository, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, in Input) (database.InsertResult, error) {
	r := Review{
		ID:       database.NewID(),
		Name:     in.Name,
		Email:    in.Email,
		Photo:    in.Photo,
		Rating:   in.Rating,
		Content:  in.Content,
		PostedOn: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &r); err != nil {
		return database.InsertResult{}, err
	}
	return database.Inserted(r.ID), nil
}

func (s *Service) Delete(ctx context.Context, id string) (database.DeleteResult, error) {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, q pager.Query) (pager.Page[Review], error) {
	return s.repo.List(ctx, q)
}
