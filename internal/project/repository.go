package project

import (
	"context"
	"errors"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
)

// ErrCommentNotFound 表示项目存在但其中没有该评论
var ErrCommentNotFound = errors.New("comment not found")

// Repository 是项目集合的存储接口，MongoDB 与 GORM 各有一个实现
type Repository interface {
	List(ctx context.Context, f Filter, q pager.Query) (pager.Page[Project], error)
	FindByID(ctx context.Context, id string) (*Project, error)
	Create(ctx context.Context, p *Project) error
	Replace(ctx context.Context, id string, in Input) (database.UpdateResult, error)
	Delete(ctx context.Context, id string) (database.DeleteResult, error)
	PushComment(ctx context.Context, id string, c Comment) (database.UpdateResult, error)
	PullComment(ctx context.Context, projectID, commentID string) (database.UpdateResult, error)
	Categories(ctx context.Context) ([]string, error)
}
