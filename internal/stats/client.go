// Package stats 封装 npm 下载量与 GitHub 仓库统计两个外部接口。
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
)

const userAgent = "portfolio-backend"

// 共享的 HTTP Transport，复用长连接并集中配置超时
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   16,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// NewHTTPClient 返回所有统计请求共用的 http.Client
func NewHTTPClient(cfg config.StatsConfig) *http.Client {
	timeout := 10 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: defaultTransport.Clone(),
	}
}

// StatusError 表示上游返回了非 200 状态码
type StatusError struct {
	Upstream   string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s 返回状态码 %d (%s)", e.Upstream, e.StatusCode, e.URL)
}

// IsNotFound 判断错误是否为上游 404
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// requester 执行带重试的 GET 请求并解码 JSON
type requester struct {
	client     *http.Client
	logger     logrus.FieldLogger
	maxRetries int
	backoff    time.Duration
}

func newRequester(cfg config.StatsConfig, client *http.Client, logger logrus.FieldLogger) requester {
	if client == nil {
		client = NewHTTPClient(cfg)
	}
	backoff := cfg.InitialBackoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return requester{client: client, logger: logger, maxRetries: maxRetries, backoff: backoff}
}

// getJSON 只重试网络错误与 5xx/429，其余错误立即返回
func (r requester) getJSON(ctx context.Context, upstream, url string, header http.Header, out any) error {
	b := retry.WithMaxRetries(uint64(r.maxRetries), retry.NewExponential(r.backoff))

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		for key, values := range header {
			req.Header[key] = values
		}

		resp, err := r.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			r.logger.WithFields(logging.UpstreamFields(upstream, url, 0, attempt)).
				WithError(err).Warn("请求上游失败")
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{Upstream: upstream, URL: url, StatusCode: resp.StatusCode}
			r.logger.WithFields(logging.UpstreamFields(upstream, url, resp.StatusCode, attempt)).
				Warn("上游返回异常状态码")
			if retryable(resp.StatusCode) {
				return retry.RetryableError(statusErr)
			}
			return statusErr
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("解析 %s 响应失败: %w", upstream, err)
		}
		return nil
	})
}
