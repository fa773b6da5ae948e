package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
	"github.com/shaiso/Shelfwise/internal/pipeline"
)

// Runner — запускаемый конвейер.
type Runner interface {
	Run(ctx context.Context, items []domain.ItemKey) *pipeline.State
}

// Scheduler запускает конвейер по cron-расписанию.
type Scheduler struct {
	runner   Runner
	logger   *slog.Logger
	cronExpr string

	// next — ближайшее время запуска. Вычисляется при создании и
	// после каждого срабатывания.
	next time.Time
}

// Config — конфигурация Scheduler.
type Config struct {
	Runner   Runner
	Logger   *slog.Logger
	CronExpr string // cron-выражение (default: из CronExpr())
}

// New создаёт новый Scheduler. Возвращает ошибку на невалидном
// cron-выражении.
func New(cfg Config) (*Scheduler, error) {
	cronExpr := cfg.CronExpr
	if cronExpr == "" {
		cronExpr = CronExpr()
	}
	if err := ValidateCronExpr(cronExpr); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	next, err := CalculateNext(cronExpr, time.Now())
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		runner:   cfg.Runner,
		logger:   logger,
		cronExpr: cronExpr,
		next:     next,
	}, nil
}

// CronExprUsed возвращает действующее cron-выражение.
func (s *Scheduler) CronExprUsed() string {
	return s.cronExpr
}

// NextDue возвращает ближайшее время запуска.
func (s *Scheduler) NextDue() time.Time {
	return s.next
}

// Tick выполняет один тик планировщика.
//
// Вызывается лидером раз в секунду. Если время запуска наступило,
// тик синхронно прогоняет конвейер; перекрытия прогонов исключены
// самой последовательностью тиков.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) error {
	if now.Before(s.next) {
		return nil
	}

	next, err := CalculateNext(s.cronExpr, now)
	if err != nil {
		return err
	}
	s.next = next

	s.logger.Info("scheduled pipeline run starting", "next_due", s.next)

	state := s.runner.Run(ctx, nil)

	s.logger.Info("scheduled pipeline run finished",
		"run_id", state.RunID,
		"status", state.RunStatus(),
		"orders", len(state.Orders),
		"entity_errors", len(state.Errors),
	)
	return nil
}
