package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
	"github.com/shaiso/Shelfwise/internal/telemetry"
)

// Значения по умолчанию.
const (
	// DefaultWindowDays — глубина окна истории продаж.
	DefaultWindowDays = 90

	// DefaultForecastDays — горизонт прогноза.
	DefaultForecastDays = 7
)

// Поправки тренда от советника.
const (
	trendIncreaseFactor = 1.1
	trendDecreaseFactor = 0.9
)

// HistorySource — источник истории продаж.
type HistorySource interface {
	Window(ctx context.Context, key domain.ItemKey, windowDays int) ([]domain.SalesPoint, error)
}

// Store — приёмник готовых прогнозов с upsert-семантикой.
type Store interface {
	Upsert(ctx context.Context, f *domain.Forecast) error
}

// Completer — текстовый советник для поправки тренда.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Config — конфигурация генератора.
type Config struct {
	// WindowDays — глубина окна истории (default: 90).
	WindowDays int

	// ForecastDays — горизонт прогноза (default: 7).
	ForecastDays int

	// Now — точка отсчёта. Zero value — time.Now() при каждом вызове.
	Now time.Time
}

func (c Config) withDefaults() Config {
	if c.WindowDays <= 0 {
		c.WindowDays = DefaultWindowDays
	}
	if c.ForecastDays <= 0 {
		c.ForecastDays = DefaultForecastDays
	}
	return c
}

// Generator — генератор прогнозов спроса.
//
// Advisor опционален: nil означает прогноз без поправки тренда.
// Ошибка советника и любой ответ вне {INCREASE, DECREASE, NONE}
// трактуются как NONE.
type Generator struct {
	History  HistorySource
	Store    Store
	Strategy Strategy
	Advisor  Completer
	Logger   *slog.Logger
	Config   Config
}

// NewGenerator создаёт генератор со стратегией по умолчанию.
func NewGenerator(history HistorySource, store Store, advisor Completer, logger *slog.Logger, cfg Config) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		History:  history,
		Store:    store,
		Strategy: AverageStrategy{},
		Advisor:  advisor,
		Logger:   logger,
		Config:   cfg.withDefaults(),
	}
}

// Generate строит, корректирует и персистит прогноз для одной сущности.
func (g *Generator) Generate(ctx context.Context, key domain.ItemKey) (*domain.Forecast, error) {
	cfg := g.Config.withDefaults()
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	history, err := g.History.Window(ctx, key, cfg.WindowDays)
	if err != nil {
		return nil, fmt.Errorf("load sales history: %w", err)
	}

	points := g.Strategy.Predict(history, cfg.ForecastDays, now)
	model := g.Strategy.Name()

	if g.Advisor != nil && len(points) > 0 {
		factor, suffix := g.trendFactor(ctx, key, points)
		if factor != 1.0 {
			points = applyFactor(points, factor)
		}
		model += suffix
	}

	forecast := &domain.Forecast{
		Key:         key,
		Model:       model,
		Points:      points,
		GeneratedAt: now,
	}

	if err := g.Store.Upsert(ctx, forecast); err != nil {
		return nil, fmt.Errorf("store forecast: %w", err)
	}

	g.Logger.Debug("forecast generated",
		"item", key.String(),
		"model", model,
		"points", len(points),
		"total", forecast.Total(),
	)
	return forecast, nil
}

// trendFactor спрашивает советника о направлении тренда.
// Возвращает множитель и суффикс имени модели.
func (g *Generator) trendFactor(ctx context.Context, key domain.ItemKey, points []domain.ForecastPoint) (float64, string) {
	avg := 0.0
	for _, p := range points {
		avg += float64(p.Quantity)
	}
	avg /= float64(len(points))

	prompt := fmt.Sprintf(
		"Analyze the potential impact of these factors on future demand for product %d at store %d.\n"+
			"Baseline forecast: %.1f units/day.\n"+
			"Contextual factors: ExternalFactors: Economic-Stable, DemandTrend: Unknown, Seasonality: None.\n\n"+
			"Based only on the contextual factors, should the baseline forecast be adjusted up or down?\n"+
			"Respond with only ONE of these words: INCREASE, DECREASE, or NONE.",
		key.ProductID, key.StoreID, avg,
	)

	answer, err := g.Advisor.Complete(ctx, prompt, 0.0)
	if err != nil {
		telemetry.OracleFailures.WithLabelValues("trend").Inc()
		g.Logger.Warn("trend advisor unavailable, keeping baseline",
			"item", key.String(), "error", err)
		return 1.0, ""
	}

	switch answer {
	case "INCREASE":
		return trendIncreaseFactor, "+TrendUp"
	case "DECREASE":
		return trendDecreaseFactor, "+TrendDown"
	case "NONE":
		return 1.0, ""
	default:
		// Ответ вне словаря — трактуем как NONE.
		g.Logger.Debug("trend advisor off-vocabulary response",
			"item", key.String(), "response", answer)
		return 1.0, ""
	}
}

// applyFactor умножает точки на множитель с полом 0 и округлением.
func applyFactor(points []domain.ForecastPoint, factor float64) []domain.ForecastPoint {
	adjusted := make([]domain.ForecastPoint, len(points))
	for i, p := range points {
		qty := int(math.Round(float64(p.Quantity) * factor))
		if qty < 0 {
			qty = 0
		}
		adjusted[i] = domain.ForecastPoint{TargetDate: p.TargetDate, Quantity: qty}
	}
	return adjusted
}
