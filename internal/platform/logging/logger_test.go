package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
)

func TestInitLoggerDefaultsToStdout(t *testing.T) {
	logger, err := InitLogger(config.LogConfig{Level: "info"})
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, logger.Out)
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := InitLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestInitLoggerCreatesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "portfolio.log")
	logger, err := InitLogger(config.LogConfig{Level: "debug", FilePath: path, MaxSize: 1})
	require.NoError(t, err)

	logger.Info("test")
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	requestID := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, requestID)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, requestID, entry["request_id"])
	assert.Equal(t, "/ping", entry["path"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
}

func TestRequestLoggerKeepsValidIncomingID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogger(Discard()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	const incoming = "0b9d3c4e-5f6a-4b7c-8d9e-0f1a2b3c4d5e"
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, incoming, rec.Header().Get(RequestIDHeader))
}
