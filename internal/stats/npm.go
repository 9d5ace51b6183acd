package stats

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
)

var ErrEmptyPackage = errors.New("package name is empty")

// NpmClient 访问 npm downloads API
type NpmClient struct {
	requester
	baseURL string
}

type npmPoint struct {
	Downloads int64  `json:"downloads"`
	Package   string `json:"package"`
}

func NewNpmClient(cfg config.StatsConfig, client *http.Client, logger logrus.FieldLogger) *NpmClient {
	return &NpmClient{
		requester: newRequester(cfg, client, logger),
		baseURL:   strings.TrimRight(cfg.NpmBaseURL, "/"),
	}
}

// FetchDownloads 并发获取最近一个月与最近一天的下载量。LastUpdated 由调用方填写。
func (c *NpmClient) FetchDownloads(ctx context.Context, packageName string) (Downloads, error) {
	packageName = strings.TrimSpace(packageName)
	if packageName == "" {
		return Downloads{}, ErrEmptyPackage
	}

	var monthly, daily npmPoint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(gctx, "npm", c.pointURL("last-month", packageName), nil, &monthly)
	})
	g.Go(func() error {
		return c.getJSON(gctx, "npm", c.pointURL("last-day", packageName), nil, &daily)
	})
	if err := g.Wait(); err != nil {
		return Downloads{}, err
	}

	return Downloads{Monthly: monthly.Downloads, Daily: daily.Downloads}, nil
}

// scoped 包名 (@scope/name) 中的斜杠需要保留
func (c *NpmClient) pointURL(period, packageName string) string {
	parts := strings.Split(packageName, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return c.baseURL + "/downloads/point/" + period + "/" + strings.Join(parts, "/")
}
