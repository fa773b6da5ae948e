package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Shelfwise/internal/classify"
	"github.com/shaiso/Shelfwise/internal/domain"
	"github.com/shaiso/Shelfwise/internal/repo"
	"github.com/shaiso/Shelfwise/internal/resolve"
	"github.com/shaiso/Shelfwise/internal/telemetry"
)

// Default configuration values.
const (
	defaultDiscoveryLimit = 15
	defaultHistoryDays    = 90
)

// InventorySource — доступ к таблице inventory.
type InventorySource interface {
	Discover(ctx context.Context, limit, historyDays int) ([]domain.ItemKey, error)
	Get(ctx context.Context, key domain.ItemKey) (*domain.InventoryRecord, error)
}

// PricingSource — доступ к таблице pricing.
type PricingSource interface {
	Get(ctx context.Context, key domain.ItemKey) (*domain.PricingRecord, error)
}

// Forecaster — генератор прогноза для одной сущности.
type Forecaster interface {
	Generate(ctx context.Context, key domain.ItemKey) (*domain.Forecast, error)
}

// Replenisher — калькулятор пополнения для одной сущности.
type Replenisher interface {
	Propose(ctx context.Context, status *domain.InventoryStatus) (*domain.ReplenishmentProposal, error)
}

// Pricer — ценовой движок для одной сущности.
type Pricer interface {
	Propose(ctx context.Context, status *domain.InventoryStatus, rec *domain.PricingRecord) (*domain.PricingProposal, error)
}

// ConflictResolver — детектор конфликтов между наборами предложений.
type ConflictResolver interface {
	Resolve(replenishments []*domain.ReplenishmentProposal, pricings []*domain.PricingProposal) []resolve.Conflict
}

// OrderStore — запись заказов.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
}

// RunStore — персистентный журнал прогонов.
type RunStore interface {
	Create(ctx context.Context, run *domain.PipelineRun) error
	Finish(ctx context.Context, run *domain.PipelineRun) error
}

// OrderPublisher — публикация событий о размещённых заказах.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
}

// Config — конфигурация Pipeline.
type Config struct {
	// Sources
	Inventory InventorySource
	Pricing   PricingSource

	// Stages
	Forecaster  Forecaster
	Replenisher Replenisher
	Pricer      Pricer
	Resolver    ConflictResolver

	// Sinks
	Orders OrderStore

	// Runs — журнал прогонов. Nil отключает персистентность прогонов.
	Runs RunStore

	// Publisher — события order.placed. Nil отключает публикацию.
	Publisher OrderPublisher

	// DiscoveryLimit — максимум сущностей из discovery (default: 15).
	DiscoveryLimit int

	// HistoryDays — окно недавней истории для discovery (default: 90).
	HistoryDays int

	// Classify — параметры классификатора.
	Classify classify.Options

	// Now — штамп времени прогона. Zero value — time.Now().
	Now time.Time

	// Logger
	Logger *slog.Logger
}

// Pipeline последовательно выполняет стадии пакетного цикла.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New создаёт новый Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.DiscoveryLimit <= 0 {
		cfg.DiscoveryLimit = defaultDiscoveryLimit
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = defaultHistoryDays
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run выполняет полный прогон для переданного списка сущностей.
// Пустой items означает discovery из хранилища.
//
// Ошибки прогона не возвращаются: итог читается из State — Fatal,
// Errors и результаты стадий. Это единственный наблюдаемый контракт,
// кодами возврата прогон ничего не сигнализирует.
func (p *Pipeline) Run(ctx context.Context, items []domain.ItemKey) *State {
	state := NewState()
	state.Items = items
	if !p.cfg.Now.IsZero() {
		state.StartedAt = p.cfg.Now
	}

	logger := telemetry.WithRunID(p.logger, state.RunID.String())
	logger.Info("pipeline run started", "supplied_items", len(items))

	run := p.beginRun(ctx, state, logger)

	p.discover(ctx, state, logger)
	if state.Fatal == nil {
		p.forecast(ctx, state, logger)
	}
	if state.Fatal == nil {
		p.classify(ctx, state, logger)
	}
	if state.Fatal == nil {
		p.replenish(ctx, state, logger)
	}
	if state.Fatal == nil {
		p.price(ctx, state, logger)
	}
	if state.Fatal == nil {
		p.resolveConflicts(state, logger)
	}
	if state.Fatal == nil {
		p.commit(ctx, state, logger)
	}

	p.finishRun(ctx, state, run, logger)
	return state
}

// beginRun открывает персистентную запись прогона.
func (p *Pipeline) beginRun(ctx context.Context, state *State, logger *slog.Logger) *domain.PipelineRun {
	if p.cfg.Runs == nil {
		return nil
	}
	run := &domain.PipelineRun{
		ID:        state.RunID,
		Status:    domain.RunStatusRunning,
		StartedAt: state.StartedAt,
	}
	if err := p.cfg.Runs.Create(ctx, run); err != nil {
		// Хранилище недоступно уже на входе: журнал прогона вести не в
		// чем, но сам прогон остановит первая же стадия.
		logger.Error("failed to create run record", "error", err)
		return nil
	}
	return run
}

// finishRun закрывает запись прогона и репортит итог.
func (p *Pipeline) finishRun(ctx context.Context, state *State, run *domain.PipelineRun, logger *slog.Logger) {
	status := state.RunStatus()
	summary := Summarize(state)

	telemetry.RunsTotal.WithLabelValues(string(status)).Inc()
	telemetry.RunDuration.Observe(time.Since(state.StartedAt).Seconds())

	if run != nil {
		errMsg := ""
		if state.Fatal != nil {
			errMsg = state.Fatal.Error()
		}
		run.MarkFinished(status, errMsg)
		run.Summary = summary.Map()
		if err := p.cfg.Runs.Finish(ctx, run); err != nil {
			logger.Error("failed to finish run record", "error", err)
		}
	}

	logger.Info("pipeline run finished",
		"status", status,
		"entities", len(state.Items),
		"replenishments", len(state.Replenishments),
		"pricings", len(state.Pricings),
		"orders", len(state.Orders),
		"entity_errors", len(state.Errors),
	)
}

// discover наполняет рабочий список сущностей.
func (p *Pipeline) discover(ctx context.Context, state *State, logger *slog.Logger) {
	if len(state.Items) > 0 {
		state.setStage(StageDiscover, stageSkipped("entity list supplied by caller"))
		return
	}

	items, err := p.cfg.Inventory.Discover(ctx, p.cfg.DiscoveryLimit, p.cfg.HistoryDays)
	if err != nil {
		state.halt(StageDiscover, fmt.Errorf("%w: %v", ErrStoreUnreachable, err))
		logger.Error("entity discovery failed", "error", err)
		return
	}
	if len(items) == 0 {
		state.halt(StageDiscover, ErrNoEntities)
		logger.Error("entity discovery returned nothing")
		return
	}

	state.Items = items
	state.setStage(StageDiscover, stageOK(len(items)))
	logger.Info("entities discovered", "count", len(items))
}

// forecast генерирует и сохраняет прогнозы по всем сущностям.
func (p *Pipeline) forecast(ctx context.Context, state *State, logger *slog.Logger) {
	for _, key := range state.Items {
		f, err := p.cfg.Forecaster.Generate(ctx, key)
		if err != nil {
			// Генератор падает только на хранилище: история и upsert.
			state.halt(StageForecast, fmt.Errorf("%w: %v", ErrStoreUnreachable, err))
			logger.Error("forecast stage failed", "item", key.String(), "error", err)
			return
		}
		state.Forecasts[key] = f
	}
	state.setStage(StageForecast, stageOK(len(state.Forecasts)))
}

// classify строит статусы по всем сущностям.
func (p *Pipeline) classify(ctx context.Context, state *State, logger *slog.Logger) {
	for _, key := range state.Items {
		rec, err := p.cfg.Inventory.Get(ctx, key)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			state.halt(StageClassify, fmt.Errorf("%w: %v", ErrStoreUnreachable, err))
			logger.Error("classify stage failed", "item", key.String(), "error", err)
			return
		}

		status := classify.Check(key, rec, p.cfg.Classify)
		state.Statuses[key] = status

		telemetry.EntitiesProcessed.Inc()
		for _, f := range status.Flags {
			telemetry.FlagsRaised.WithLabelValues(string(f)).Inc()
		}
	}
	state.setStage(StageClassify, stageOK(len(state.Statuses)))
}

// replenish собирает предложения пополнения.
func (p *Pipeline) replenish(ctx context.Context, state *State, logger *slog.Logger) {
	for _, key := range state.Items {
		status := state.Statuses[key]
		if status == nil {
			continue
		}
		proposal, err := p.cfg.Replenisher.Propose(ctx, status)
		if err != nil {
			state.addError(key, StageReplenish, err)
			logger.Warn("replenishment failed for entity", "item", key.String(), "error", err)
			continue
		}
		if proposal != nil {
			state.Replenishments = append(state.Replenishments, proposal)
			telemetry.ProposalsGenerated.WithLabelValues("replenishment").Inc()
		}
	}
	state.setStage(StageReplenish, stageOK(len(state.Replenishments)))
}

// price собирает ценовые предложения.
func (p *Pipeline) price(ctx context.Context, state *State, logger *slog.Logger) {
	for _, key := range state.Items {
		status := state.Statuses[key]
		if status == nil {
			continue
		}

		rec, err := p.cfg.Pricing.Get(ctx, key)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			state.halt(StagePrice, fmt.Errorf("%w: %v", ErrStoreUnreachable, err))
			logger.Error("pricing stage failed", "item", key.String(), "error", err)
			return
		}

		proposal, err := p.cfg.Pricer.Propose(ctx, status, rec)
		if err != nil {
			state.addError(key, StagePrice, err)
			logger.Warn("pricing failed for entity", "item", key.String(), "error", err)
			continue
		}
		if proposal != nil {
			state.Pricings = append(state.Pricings, proposal)
			telemetry.ProposalsGenerated.WithLabelValues("pricing").Inc()
		}
	}
	state.setStage(StagePrice, stageOK(len(state.Pricings)))
}

// resolveConflicts сверяет наборы предложений.
func (p *Pipeline) resolveConflicts(state *State, logger *slog.Logger) {
	state.Conflicts = p.cfg.Resolver.Resolve(state.Replenishments, state.Pricings)
	state.setStage(StageResolve, stageOK(len(state.Conflicts)))
}

// commit превращает выжившие предложения пополнения в заказы.
func (p *Pipeline) commit(ctx context.Context, state *State, logger *slog.Logger) {
	now := p.cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	for _, proposal := range state.Replenishments {
		order := &domain.Order{
			ID:                   uuid.New(),
			Key:                  proposal.Key,
			QuantityOrdered:      proposal.QuantityOrdered,
			OrderDate:            now,
			ExpectedDeliveryDate: now.AddDate(0, 0, proposal.LeadTimeDays),
			Status:               domain.OrderStatusPlaced,
		}

		if err := p.cfg.Orders.Create(ctx, order); err != nil {
			// Падение записи одного заказа не фатально: заказ
			// исключается из счётчика, цикл продолжается.
			state.addError(proposal.Key, StageCommit, err)
			logger.Warn("failed to persist order", "item", proposal.Key.String(), "error", err)
			continue
		}

		proposal.Status = domain.ProposalStatusCommitted
		state.Orders = append(state.Orders, order)
		telemetry.OrdersPlaced.Inc()

		if p.cfg.Publisher != nil {
			if err := p.cfg.Publisher.PublishOrderPlaced(ctx, order); err != nil {
				logger.Warn("failed to publish order event",
					"item", proposal.Key.String(), "order_id", order.ID, "error", err)
			}
		}
	}
	state.setStage(StageCommit, stageOK(len(state.Orders)))
}
