package lifecycle

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewManager(l)
}

func TestDuplicateServiceRejected(t *testing.T) {
	m := newManager()
	_, err := m.NewServiceHandle("health")
	require.NoError(t, err)
	_, err = m.NewServiceHandle("health")
	assert.Error(t, err)
}

func TestShutdownStopsSleepingService(t *testing.T) {
	m := newManager()
	h, err := m.NewServiceHandle("worker")
	require.NoError(t, err)

	go func() {
		defer h.Close()
		for {
			if err := h.Sleep(time.Hour); err != nil {
				return
			}
		}
	}()

	m.Shutdown()
	assert.Empty(t, m.WaitWithTimeout(time.Second))
}

func TestWaitReportsRemainingServices(t *testing.T) {
	m := newManager()
	_, err := m.NewServiceHandle("stuck")
	require.NoError(t, err)

	m.Shutdown()
	assert.Equal(t, []string{"stuck"}, m.WaitWithTimeout(10*time.Millisecond))
}

func TestCloseIsIdempotent(t *testing.T) {
	m := newManager()
	h, err := m.NewServiceHandle("once")
	require.NoError(t, err)
	h.Close()
	h.Close()
	assert.Empty(t, m.WaitWithTimeout(10*time.Millisecond))
}
