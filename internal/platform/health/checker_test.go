package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
)

// unreachableRedis 指向一个不会有人监听的端口
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPerformCheckMarksCacheUnavailable(t *testing.T) {
	logger := logging.Discard()
	status := database.NewStatus(logger)
	rebuilt := false
	checker := NewChecker(unreachableRedis(t), status, time.Second, func(context.Context) error {
		rebuilt = true
		return nil
	}, logger)

	checker.PerformCheck(context.Background())

	assert.Equal(t, StateDegraded, checker.State())
	assert.False(t, status.IsRedisHealthy())
	assert.False(t, rebuilt)
}

func serveHealthz(t *testing.T, h *Handler) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthzReportsStoreAndDisabledCache(t *testing.T) {
	h := NewHandler(func(context.Context) error { return nil }, nil, logging.Discard())

	code, body := serveHealthz(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "up", body["store"])
	assert.Equal(t, "disabled", body["cache"])
}

func TestHealthzStoreDown(t *testing.T) {
	logger := logging.Discard()
	checker := NewChecker(unreachableRedis(t), database.NewStatus(logger), time.Second, nil, logger)
	checker.PerformCheck(context.Background())

	h := NewHandler(func(context.Context) error { return errors.New("boom") }, checker, logger)

	code, body := serveHealthz(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "down", body["store"])
	assert.Equal(t, "down", body["cache"])
}
