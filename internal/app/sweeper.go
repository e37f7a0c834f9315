package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// completer is the slice of LessonService the sweeper needs.
type completer interface {
	CompleteElapsed(ctx context.Context) (int64, error)
}

// Sweeper периодически фиксирует completed у принятых бронирований с
// истёкшим временем. Запросы классифицируют такие записи и без свипера;
// он лишь материализует статус в сторе.
type Sweeper struct {
	lessons  completer
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewSweeper создаёт новый свипер
func NewSweeper(lessons completer, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		lessons:  lessons,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновую задачу
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting completion sweeper", zap.Duration("interval", s.interval))

	go s.run(ctx)
}

// Stop останавливает фоновую задачу
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping completion sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// Первый проход сразу при старте
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Completion sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Completion sweeper cancelled")
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	count, err := s.lessons.CompleteElapsed(ctx)
	if err != nil {
		s.logger.Error("Failed to sweep elapsed bookings", zap.Error(err))
		return
	}

	if count > 0 {
		s.logger.Info("Sweep completed", zap.Int64("bookings", count))
	}
}
