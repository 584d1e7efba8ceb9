package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/map-editor/internal/domain"
	"github.com/map-editor/internal/domain/repository"
	"github.com/map-editor/internal/worker"
)

// PublisherWorker переносит события из StreamSink в Redis Stream
type PublisherWorker struct {
	*worker.BaseWorker
	sink       *StreamSink
	streamRepo repository.StreamRepository
	stream     string
	timeout    time.Duration
}

func NewPublisherWorker(
	sink *StreamSink,
	streamRepo repository.StreamRepository,
	stream string,
	timeout time.Duration,
	logger *zap.Logger,
) *PublisherWorker {
	return &PublisherWorker{
		BaseWorker: worker.NewBaseWorker("editor-event-publisher", "", logger),
		sink:       sink,
		streamRepo: streamRepo,
		stream:     stream,
		timeout:    timeout,
	}
}

// Start публикует события до остановки; при остановке дописывает то, что уже в буфере
func (w *PublisherWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting event publisher", zap.String("stream", w.stream))

	for {
		select {
		case <-w.StopChan():
			w.drain(ctx)
			logger.Info("Event publisher stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case event := <-w.sink.Events():
			w.publish(ctx, event)
		}
	}
}

func (w *PublisherWorker) drain(ctx context.Context) {
	for {
		select {
		case event := <-w.sink.Events():
			w.publish(ctx, event)
		default:
			return
		}
	}
}

func (w *PublisherWorker) publish(ctx context.Context, event domain.EditorEvent) {
	pubCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		pubCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := w.streamRepo.PublishToStream(pubCtx, w.stream, event); err != nil {
		w.Logger().Error("Failed to publish editor event",
			zap.String("type", event.Type),
			zap.String("session_id", event.SessionID),
			zap.Error(err))
	}
}
