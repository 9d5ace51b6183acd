package shutdown

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
	"github.com/SlpAus/portfolio-backend/pkg/lifecycle"
)

func TestShutdownStopsServicesThenClosesInReverse(t *testing.T) {
	logger := logging.Discard()
	manager := lifecycle.NewManager(logger)

	handle, err := manager.NewServiceHandle("health")
	require.NoError(t, err)
	stopped := make(chan struct{})
	go func() {
		defer handle.Close()
		defer close(stopped)
		for handle.Sleep(time.Hour) == nil {
		}
	}()

	var order []string
	closer := func(name string, err error) Closer {
		return Closer{Name: name, Close: func(context.Context) error {
			order = append(order, name)
			return err
		}}
	}

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewCoordinator(manager, logger, closer("store", nil), closer("redis", errors.New("already closed")))
	c.Shutdown(srv.Config)

	select {
	case <-stopped:
	default:
		t.Fatal("background service still running")
	}
	assert.Equal(t, []string{"redis", "store"}, order)
}

func TestShutdownWithoutServer(t *testing.T) {
	logger := logging.Discard()
	closed := false
	c := NewCoordinator(lifecycle.NewManager(logger), logger, Closer{Name: "store", Close: func(context.Context) error {
		closed = true
		return nil
	}})

	c.Shutdown(nil)
	assert.True(t, closed)
}
