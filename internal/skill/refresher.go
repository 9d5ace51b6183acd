package skill

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
	"github.com/SlpAus/portfolio-backend/internal/stats"
)

const (
	sourceNpm    = "npm"
	sourceGitHub = "github"

	// flightTimeout 限制一次合并后的拉取与写回。合并调用不跟随任何单个请求的取消。
	flightTimeout = 30 * time.Second
)

// DownloadsFetcher 获取 npm 下载量
type DownloadsFetcher interface {
	FetchDownloads(ctx context.Context, packageName string) (stats.Downloads, error)
}

// RepoFetcher 获取 GitHub 仓库统计
type RepoFetcher interface {
	FetchRepo(ctx context.Context, owner, repo string) (stats.Repo, error)
}

// Refresher 按记录检查缓存子文档是否过期，过期时重新拉取并写回存储。
//
// 每个子文档独立判断；拉取失败只影响该记录的该子文档，返回时保留旧值。
// 同一进程内对同一个包的并发刷新会被合并为一次外部调用。
type Refresher struct {
	npm         DownloadsFetcher
	github      RepoFetcher
	store       StatsStore
	staleAfter  time.Duration
	concurrency int
	logger      logrus.FieldLogger
	now         func() time.Time

	group singleflight.Group
}

func NewRefresher(npm DownloadsFetcher, github RepoFetcher, store StatsStore, staleAfter time.Duration, concurrency int, logger logrus.FieldLogger) *Refresher {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Refresher{
		npm:         npm,
		github:      github,
		store:       store,
		staleAfter:  staleAfter,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// isStale: 缺失视为无限旧；恰好等于阈值仍算新鲜
func (r *Refresher) isStale(lastUpdated time.Time, now time.Time) bool {
	if lastUpdated.IsZero() {
		return true
	}
	return now.Sub(lastUpdated) > r.staleAfter
}

// Refresh 并发刷新所有记录并返回新的切片，输入切片不会被修改。
// 所有写回完成后才返回。
func (r *Refresher) Refresh(ctx context.Context, skills []Skill) []Skill {
	out := make([]Skill, len(skills))
	copy(out, skills)

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i := range out {
		g.Go(func() error {
			r.refreshOne(ctx, &out[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (r *Refresher) refreshOne(ctx context.Context, s *Skill) {
	now := r.now()

	var (
		downloads *stats.Downloads
		repo      *stats.Repo
		g         errgroup.Group
	)

	if s.Downloads == nil || r.isStale(s.Downloads.LastUpdated, now) {
		g.Go(func() error {
			downloads = r.refreshDownloads(ctx, s.PackageName, s.Downloads != nil)
			return nil
		})
	}

	// 没有 owner/repo 时跳过 GitHub 刷新，原样返回
	if s.hasRepo() && (s.GitHub == nil || r.isStale(s.GitHub.LastUpdated, now)) {
		owner, name := s.Owner, s.Repo
		g.Go(func() error {
			repo = r.refreshGitHub(ctx, s.PackageName, owner, name, s.GitHub != nil)
			return nil
		})
	}

	_ = g.Wait()
	if downloads != nil {
		s.Downloads = downloads
	}
	if repo != nil {
		s.GitHub = repo
	}
}

// flightContext 保留请求上下文中的值，但与发起请求的客户端断开无关
func (r *Refresher) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
}

func (r *Refresher) refreshDownloads(ctx context.Context, packageName string, stale bool) *stats.Downloads {
	log := r.logger.WithFields(logging.RefreshFields(packageName, sourceNpm, stale))

	v, err, _ := r.group.Do(sourceNpm+":"+packageName, func() (any, error) {
		ctx, cancel := r.flightContext(ctx)
		defer cancel()

		d, err := r.npm.FetchDownloads(ctx, packageName)
		if err != nil {
			return nil, err
		}
		d.LastUpdated = r.now().UTC()
		if err := r.store.SetDownloads(ctx, packageName, d); err != nil {
			log.WithError(err).Warn("下载量写回失败")
		}
		return d, nil
	})
	if err != nil {
		log.WithError(err).Warn("下载量刷新失败，保留旧数据")
		return nil
	}

	d := v.(stats.Downloads)
	log.Debug("下载量已刷新")
	return &d
}

func (r *Refresher) refreshGitHub(ctx context.Context, packageName, owner, name string, stale bool) *stats.Repo {
	log := r.logger.WithFields(logging.RefreshFields(packageName, sourceGitHub, stale))

	v, err, _ := r.group.Do(sourceGitHub+":"+packageName, func() (any, error) {
		ctx, cancel := r.flightContext(ctx)
		defer cancel()

		repo, err := r.github.FetchRepo(ctx, owner, name)
		if err != nil {
			return nil, err
		}
		repo.LastUpdated = r.now().UTC()
		if err := r.store.SetGitHub(ctx, packageName, repo); err != nil {
			log.WithError(err).Warn("仓库统计写回失败")
		}
		return repo, nil
	})
	if err != nil {
		log.WithError(err).Warn("仓库统计刷新失败，保留旧数据")
		return nil
	}

	repo := v.(stats.Repo)
	log.Debug("仓库统计已刷新")
	return &repo
}
