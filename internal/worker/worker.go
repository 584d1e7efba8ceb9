package worker

import (
	"context"
)

// Worker - фоновый процесс: публикация событий редактора, аудит стрима
type Worker interface {
	// Start запускает воркер и блокируется до остановки
	Start(ctx context.Context) error

	// Stop сигнализирует воркеру о завершении
	Stop() error

	// Name возвращает имя воркера
	Name() string
}
