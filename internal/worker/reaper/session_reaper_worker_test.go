package reaper_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/map-editor/internal/worker/reaper"
)

type MockExpirer struct {
	mock.Mock
}

func (m *MockExpirer) Expire(ttl time.Duration) int {
	return m.Called(ttl).Int(0)
}

func TestSessionReaperWorker_ExpiresUntilStopped(t *testing.T) {
	var calls atomic.Int32
	sessions := new(MockExpirer)
	sessions.On("Expire", time.Minute).Return(1).Run(func(mock.Arguments) { calls.Add(1) })

	w := reaper.NewSessionReaperWorker(sessions, time.Minute, 5*time.Millisecond, zap.NewNop())
	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	assert.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	assert.NoError(t, w.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, "editor-session-reaper", w.Name())
}

func TestSessionReaperWorker_ContextCancel(t *testing.T) {
	sessions := new(MockExpirer)
	sessions.On("Expire", mock.Anything).Return(0)

	ctx, cancel := context.WithCancel(context.Background())
	w := reaper.NewSessionReaperWorker(sessions, time.Minute, time.Hour, zap.NewNop())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	sessions.AssertNotCalled(t, "Expire", mock.Anything)
}
