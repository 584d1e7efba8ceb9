package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/map-editor/internal/domain"
	"github.com/map-editor/internal/events"
)

type recordingSink struct {
	mu     sync.Mutex
	events []domain.EditorEvent
}

func (s *recordingSink) Send(e domain.EditorEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	return m.Called(ctx, stream, group, messageIDs).Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

func TestBus_SubscribePublish(t *testing.T) {
	sink := &recordingSink{}
	bus := events.NewBus("s1", sink)

	var order []string
	var got [][]string
	unsubA := bus.SubscribeSelection(func(ids []string) {
		order = append(order, "a")
		got = append(got, ids)
	})
	bus.SubscribeSelection(func(ids []string) { order = append(order, "b") })

	bus.PublishSelection([]string{"f1", "f2"})
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, [][]string{{"f1", "f2"}}, got)

	unsubA()
	unsubA()
	bus.PublishSelection(nil)
	assert.Equal(t, []string{"a", "b", "b"}, order)

	var hovered []string
	bus.SubscribeHover(func(id string) { hovered = append(hovered, id) })
	bus.PublishHover("f3")
	bus.PublishHover("")
	assert.Equal(t, []string{"f3", ""}, hovered)

	var modes []string
	unsubMode := bus.SubscribeMode(func(m string) { modes = append(modes, m) })
	bus.PublishMode("DRAW_LINE")
	unsubMode()
	bus.PublishMode("SELECT")
	assert.Equal(t, []string{"DRAW_LINE"}, modes)

	require.Len(t, sink.events, 6)
	assert.Equal(t, domain.EventSelection, sink.events[0].Type)
	assert.Equal(t, "s1", sink.events[0].SessionID)
	assert.Equal(t, []string{"f1", "f2"}, sink.events[0].FeatureIDs)
	assert.False(t, sink.events[0].At.IsZero())
	assert.Equal(t, []string{"f3"}, sink.events[2].FeatureIDs)
	assert.Nil(t, sink.events[3].FeatureIDs)
	assert.Equal(t, "SELECT", sink.events[5].Mode)
}

func TestBus_HandlerCannotMutatePublishedSlice(t *testing.T) {
	bus := events.NewBus("s1", nil)
	bus.SubscribeSelection(func(ids []string) { ids[0] = "mutated" })
	var seen []string
	bus.SubscribeSelection(func(ids []string) { seen = ids })

	ids := []string{"f1"}
	bus.PublishSelection(ids)
	assert.Equal(t, []string{"f1"}, ids)
	assert.Equal(t, []string{"f1"}, seen)
}

func TestStreamSink_DropsWhenFull(t *testing.T) {
	sink := events.NewStreamSink(2, zap.NewNop())
	for i := 0; i < 5; i++ {
		sink.Send(domain.EditorEvent{Type: domain.EventHover})
	}
	assert.Equal(t, int64(3), sink.Dropped())
	assert.Len(t, sink.Events(), 2)
}

func TestPublisherWorker_PublishesAndDrains(t *testing.T) {
	sink := events.NewStreamSink(8, zap.NewNop())
	repo := &MockStreamRepository{}
	published := make(chan domain.EditorEvent, 8)

	repo.On("PublishToStream", mock.Anything, domain.StreamEditorEvents, mock.AnythingOfType("domain.EditorEvent")).
		Run(func(args mock.Arguments) {
			published <- args.Get(2).(domain.EditorEvent)
		}).
		Return(nil)

	w := events.NewPublisherWorker(sink, repo, domain.StreamEditorEvents, time.Second, zap.NewNop())
	assert.Equal(t, "editor-event-publisher", w.Name())

	bus := events.NewBus("s1", sink)
	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	bus.PublishMode("SELECT")
	select {
	case e := <-published:
		assert.Equal(t, domain.EventMode, e.Type)
		assert.Equal(t, "SELECT", e.Mode)
	case <-time.After(time.Second):
		t.Fatal("event was not published")
	}

	require.NoError(t, w.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	repo.AssertExpectations(t)
}

func TestPublisherWorker_PublishErrorIsLogged(t *testing.T) {
	sink := events.NewStreamSink(8, zap.NewNop())
	repo := &MockStreamRepository{}
	repo.On("PublishToStream", mock.Anything, "stream", mock.Anything).Return(errors.New("redis down"))

	sink.Send(domain.EditorEvent{Type: domain.EventHover})
	sink.Send(domain.EditorEvent{Type: domain.EventHover})

	w := events.NewPublisherWorker(sink, repo, "stream", 0, zap.NewNop())
	require.NoError(t, w.Stop())

	// остановленный воркер дописывает буфер и выходит
	require.NoError(t, w.Start(context.Background()))
	repo.AssertNumberOfCalls(t, "PublishToStream", 2)
}
