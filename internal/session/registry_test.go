package session

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/map-editor/internal/domain"
	"github.com/map-editor/internal/editor"
	"github.com/map-editor/internal/host/memory"
	apperrors "github.com/map-editor/internal/pkg/errors"
)

type collectSink struct {
	events []domain.EditorEvent
}

func (c *collectSink) Send(e domain.EditorEvent) {
	c.events = append(c.events, e)
}

func newRegistry(sink *collectSink, max int) *Registry {
	defaults := Defaults{Zoom: 16, Center: orb.Point{37.6, 55.75}}
	if sink == nil {
		return NewRegistry(editor.DefaultConfig(), defaults, nil, max, zap.NewNop())
	}
	return NewRegistry(editor.DefaultConfig(), defaults, sink, max, zap.NewNop())
}

func TestRegistry_CreateGetDelete(t *testing.T) {
	sink := &collectSink{}
	r := newRegistry(sink, 0)

	s, err := r.Create(Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())

	got, err := r.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	snap := s.Snapshot()
	assert.Equal(t, editor.ModeSelect, snap.Mode)
	assert.Equal(t, 16.0, snap.Zoom)
	assert.InDelta(t, 37.575, snap.Bounds.Min.Lon(), 1e-9)
	assert.Equal(t, 0, snap.Features)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.EventMode, sink.events[0].Type)
	assert.Equal(t, s.ID(), sink.events[0].SessionID)

	require.NoError(t, r.Delete(s.ID()))
	_, err = r.Get(s.ID())
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	assert.ErrorIs(t, r.Delete(s.ID()), apperrors.ErrSessionNotFound)
}

func TestRegistry_CreateWithOptions(t *testing.T) {
	r := newRegistry(nil, 0)
	bounds := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}

	s, err := r.Create(Options{Zoom: 10, Bounds: &bounds})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, editor.ModeViewOnly, snap.Mode)
	assert.Equal(t, bounds, snap.Bounds)
}

func TestRegistry_Limit(t *testing.T) {
	r := newRegistry(nil, 1)
	_, err := r.Create(Options{})
	require.NoError(t, err)

	_, err = r.Create(Options{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Expire(t *testing.T) {
	r := newRegistry(nil, 0)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	old, err := r.Create(Options{})
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	fresh, err := r.Create(Options{})
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, r.Expire(30*time.Minute))

	_, err = r.Get(old.ID())
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	_, err = r.Get(fresh.ID())
	assert.NoError(t, err)

	require.NoError(t, fresh.Do(func(e *editor.Editor, h *memory.Host) error { return nil }))
	now = now.Add(29 * time.Minute)
	assert.Equal(t, 0, r.Expire(30*time.Minute))
}

func TestRegistry_ListOrdered(t *testing.T) {
	r := newRegistry(nil, 0)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	a, _ := r.Create(Options{})
	b, _ := r.Create(Options{})
	list := r.List()
	require.Len(t, list, 2)
	assert.Same(t, a, list[0])
	assert.Same(t, b, list[1])
}

func TestSession_DoSerializesCalls(t *testing.T) {
	r := newRegistry(nil, 0)
	s, err := r.Create(Options{})
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			_ = s.Do(func(e *editor.Editor, h *memory.Host) error {
				e.SelectTool(editor.ModeDrawPoint)
				e.HandlePointer(editor.PointerEvent{
					Type:   editor.PointerClick,
					LngLat: orb.Point{37.6 + float64(i)*0.001, 55.75},
				})
				return nil
			})
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Equal(t, 8, s.Snapshot().Features)
}
