package health

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestStates() *statusManager {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return newStatusManager(l)
}

func TestHealthyStaysHealthyWithSameRunID(t *testing.T) {
	sm := newTestStates()
	assert.False(t, sm.Assess(true, "a1"))
	assert.False(t, sm.Assess(true, "a1"))
	assert.Equal(t, StateHealthy, sm.State())
}

func TestRestartTriggersRebuild(t *testing.T) {
	sm := newTestStates()
	sm.Assess(true, "a1")

	assert.True(t, sm.Assess(true, "b2"))
	assert.Equal(t, StateRebuilding, sm.State())

	sm.MarkRebuildComplete(true, "b2")
	assert.Equal(t, StateHealthy, sm.State())
}

func TestRecoveryAfterOutageRebuilds(t *testing.T) {
	sm := newTestStates()
	sm.Assess(true, "a1")

	assert.False(t, sm.Assess(false, ""))
	assert.Equal(t, StateDegraded, sm.State())

	assert.True(t, sm.Assess(true, "a1"))
	assert.Equal(t, StateRebuilding, sm.State())

	sm.MarkRebuildComplete(false, "a1")
	assert.Equal(t, StateRebuilding, sm.State())
	assert.True(t, sm.Assess(true, "a1"))

	sm.MarkRebuildComplete(true, "a1")
	assert.Equal(t, StateHealthy, sm.State())
}

func TestRestartDuringRebuildKeepsRebuilding(t *testing.T) {
	sm := newTestStates()
	sm.Assess(true, "a1")
	sm.Assess(true, "b2")

	sm.MarkRebuildComplete(true, "c3")
	assert.Equal(t, StateRebuilding, sm.State())
	assert.True(t, sm.Assess(true, "c3"))
	sm.MarkRebuildComplete(true, "c3")
	assert.Equal(t, StateHealthy, sm.State())
}
