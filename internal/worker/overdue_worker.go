package worker

import (
	"context"
	"time"

	"taskflow/internal/logger"

	"go.uber.org/zap"
)

// OverdueCounter — срез репозитория, нужный фоновому отчёту
type OverdueCounter interface {
	CountAllOverdue(ctx context.Context, now time.Time) (int, error)
}

// OverdueWorker периодически пишет в лог число просроченных задач по всем
// пользователям; статусы задач не меняет — просрочка вычисляется на чтении
type OverdueWorker struct {
	repo     OverdueCounter
	interval time.Duration
}

func New(repo OverdueCounter, interval time.Duration) *OverdueWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &OverdueWorker{
		repo:     repo,
		interval: interval,
	}
}

func (w *OverdueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *OverdueWorker) Check(ctx context.Context) {
	start := time.Now()

	count, err := w.repo.CountAllOverdue(ctx, start)
	if err != nil {
		logger.Warn("Worker: Ошибка подсчёта просроченных задач", zap.Error(err))
		return
	}

	logger.Info("Worker: Проверка просроченных задач",
		zap.Int("overdue", count),
		zap.Duration("ms", time.Since(start)),
	)
}
