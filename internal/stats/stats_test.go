package stats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
)

func testConfig(baseURL string) config.StatsConfig {
	return config.StatsConfig{
		NpmBaseURL:     baseURL,
		GitHubBaseURL:  baseURL,
		Timeout:        2 * time.Second,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
	}
}

func TestNpmFetchDownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/downloads/point/last-month/react":
			w.Write([]byte(`{"downloads":1200,"package":"react"}`))
		case "/downloads/point/last-day/react":
			w.Write([]byte(`{"downloads":40,"package":"react"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewNpmClient(testConfig(srv.URL), nil, logging.Discard())
	got, err := client.FetchDownloads(context.Background(), "react")
	require.NoError(t, err)
	assert.EqualValues(t, 1200, got.Monthly)
	assert.EqualValues(t, 40, got.Daily)
	assert.True(t, got.LastUpdated.IsZero())
}

func TestNpmKeepsScopedPackagePath(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Write([]byte(`{"downloads":1}`))
	}))
	defer srv.Close()

	client := NewNpmClient(testConfig(srv.URL), nil, logging.Discard())
	_, err := client.FetchDownloads(context.Background(), "@tanstack/react-query")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"/downloads/point/last-month/@tanstack/react-query",
		"/downloads/point/last-day/@tanstack/react-query",
	}, paths)
}

func TestNpmRejectsEmptyPackage(t *testing.T) {
	client := NewNpmClient(testConfig("http://127.0.0.1:1"), nil, logging.Discard())
	_, err := client.FetchDownloads(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyPackage)
}

func TestGitHubFetchRepoSendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/vercel/next.js", r.URL.Path)
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"stargazers_count":120000,"forks_count":26000}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.GitHubToken = "ghp_test"
	got, err := NewGitHubClient(cfg, nil, logging.Discard()).FetchRepo(context.Background(), "vercel", "next.js")
	require.NoError(t, err)
	assert.EqualValues(t, 120000, got.Stars)
	assert.EqualValues(t, 26000, got.Forks)
}

func TestGitHubAnonymousWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"stargazers_count":1,"forks_count":2}`))
	}))
	defer srv.Close()

	_, err := NewGitHubClient(testConfig(srv.URL), nil, logging.Discard()).FetchRepo(context.Background(), "a", "b")
	assert.NoError(t, err)
}

func TestGitHubRejectsMissingOwner(t *testing.T) {
	_, err := NewGitHubClient(testConfig("http://127.0.0.1:1"), nil, logging.Discard()).FetchRepo(context.Background(), "", "repo")
	assert.ErrorIs(t, err, ErrMissingRepo)
}

func TestRetriesServerErrorsThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"stargazers_count":7,"forks_count":1}`))
	}))
	defer srv.Close()

	got, err := NewGitHubClient(testConfig(srv.URL), nil, logging.Discard()).FetchRepo(context.Background(), "o", "r")
	require.NoError(t, err)
	assert.EqualValues(t, 7, got.Stars)
	assert.EqualValues(t, 3, hits.Load())
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewGitHubClient(testConfig(srv.URL), nil, logging.Discard()).FetchRepo(context.Background(), "o", "r")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.EqualValues(t, 3, hits.Load())
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewGitHubClient(testConfig(srv.URL), nil, logging.Discard()).FetchRepo(context.Background(), "o", "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualValues(t, 1, hits.Load())
}
