package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/map-editor/internal/domain"
	"github.com/map-editor/internal/domain/repository"
	"github.com/map-editor/internal/worker"
)

const (
	maxBatchSize    = 20                     // максимум сообщений за раз
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep      = time.Second
)

// EventAuditWorker читает стрим событий редактора и пишет их в журнал
type EventAuditWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	stream       string
	consumerName string

	mu     sync.Mutex
	counts map[string]int
}

// NewEventAuditWorker создает новый EventAuditWorker
func NewEventAuditWorker(
	streamRepo repository.StreamRepository,
	stream string,
	consumerGroup string,
	logger *zap.Logger,
) *EventAuditWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &EventAuditWorker{
		BaseWorker:   worker.NewBaseWorker("editor-event-audit", consumerGroup, logger),
		streamRepo:   streamRepo,
		stream:       stream,
		consumerName: consumerName,
		counts:       make(map[string]int),
	}
}

// Start запускает воркер
func (w *EventAuditWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting EventAuditWorker",
		zap.String("stream", w.stream),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, w.stream, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.Pause(ctx, errorSleep)
				continue
			}

			if processed == 0 {
				w.Pause(ctx, emptyQueueSleep)
			}
		}
	}
}

// Counts - число обработанных событий по типам
func (w *EventAuditWorker) Counts() map[string]int {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]int, len(w.counts))
	for k, v := range w.counts {
		out[k] = v
	}
	return out
}

// processBatch читает и журналирует batch сообщений.
// Возвращает количество прочитанных сообщений.
func (w *EventAuditWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(ctx, w.stream, w.ConsumerGroup(), w.consumerName, maxBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	messageIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		// битые сообщения тоже подтверждаем, чтобы не застревали
		messageIDs = append(messageIDs, msg.ID)

		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			continue
		}

		logger.Info("Editor event",
			zap.String("message_id", msg.ID),
			zap.String("type", event.Type),
			zap.String("session_id", event.SessionID),
			zap.Strings("feature_ids", event.FeatureIDs),
			zap.String("mode", event.Mode),
			zap.Time("at", event.At))

		w.mu.Lock()
		w.counts[event.Type]++
		w.mu.Unlock()
	}

	if err := w.streamRepo.AckMessages(ctx, w.stream, w.ConsumerGroup(), messageIDs); err != nil {
		// Не критично - сообщения будут переобработаны
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

// parseMessage парсит сообщение из стрима в EditorEvent
func parseMessage(msg domain.StreamMessage) (*domain.EditorEvent, error) {
	var event domain.EditorEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("event type is empty")
	}
	return &event, nil
}
