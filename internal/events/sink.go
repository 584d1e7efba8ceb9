package events

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/map-editor/internal/domain"
)

// StreamSink буферизует события для PublisherWorker.
// При переполнении буфера событие отбрасывается: редактор никогда не ждёт Redis.
type StreamSink struct {
	ch      chan domain.EditorEvent
	logger  *zap.Logger
	dropped atomic.Int64
}

func NewStreamSink(bufferSize int, logger *zap.Logger) *StreamSink {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &StreamSink{
		ch:     make(chan domain.EditorEvent, bufferSize),
		logger: logger,
	}
}

// Send кладёт событие в буфер без блокировки
func (s *StreamSink) Send(event domain.EditorEvent) {
	select {
	case s.ch <- event:
	default:
		s.dropped.Add(1)
		s.logger.Warn("Event buffer full, dropping event",
			zap.String("type", event.Type),
			zap.String("session_id", event.SessionID))
	}
}

// Events - канал, который вычитывает PublisherWorker
func (s *StreamSink) Events() <-chan domain.EditorEvent {
	return s.ch
}

// Dropped - сколько событий отброшено из-за переполнения
func (s *StreamSink) Dropped() int64 {
	return s.dropped.Load()
}
