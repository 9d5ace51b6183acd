package stats

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
)

var ErrMissingRepo = errors.New("owner or repo is empty")

// GitHubClient 访问 GitHub REST API 的仓库信息
type GitHubClient struct {
	requester
	baseURL string
	token   string
}

type githubRepo struct {
	StargazersCount int64 `json:"stargazers_count"`
	ForksCount      int64 `json:"forks_count"`
}

func NewGitHubClient(cfg config.StatsConfig, client *http.Client, logger logrus.FieldLogger) *GitHubClient {
	return &GitHubClient{
		requester: newRequester(cfg, client, logger),
		baseURL:   strings.TrimRight(cfg.GitHubBaseURL, "/"),
		token:     cfg.GitHubToken,
	}
}

// FetchRepo 获取仓库的 star 与 fork 数。未配置 token 时以匿名身份请求。
func (c *GitHubClient) FetchRepo(ctx context.Context, owner, repo string) (Repo, error) {
	owner, repo = strings.TrimSpace(owner), strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return Repo{}, ErrMissingRepo
	}

	header := http.Header{}
	header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	endpoint := c.baseURL + "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
	var body githubRepo
	if err := c.getJSON(ctx, "github", endpoint, header, &body); err != nil {
		return Repo{}, err
	}
	return Repo{Stars: body.StargazersCount, Forks: body.ForksCount}, nil
}
