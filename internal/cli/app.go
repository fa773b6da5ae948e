package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Shelfwise/internal/forecast"
	"github.com/shaiso/Shelfwise/internal/mq"
	"github.com/shaiso/Shelfwise/internal/oracle"
	"github.com/shaiso/Shelfwise/internal/pipeline"
	"github.com/shaiso/Shelfwise/internal/pricing"
	"github.com/shaiso/Shelfwise/internal/replenish"
	"github.com/shaiso/Shelfwise/internal/repo"
	"github.com/shaiso/Shelfwise/internal/resolve"
)

// AppFn лениво собирает App после парсинга PersistentFlags.
type AppFn func(ctx context.Context) (*App, error)

// OutputFn лениво создаёт Output после парсинга PersistentFlags.
type OutputFn func() *Output

// timePrecision — точность длительностей в табличном выводе.
const timePrecision = time.Millisecond

// App — собранный набор зависимостей CLI: пул соединений, репозитории
// и готовый к запуску конвейер. CLI работает с БД напрямую, отдельного
// API-сервера в системе нет.
type App struct {
	Pool *pgxpool.Pool

	Inventory *repo.InventoryRepo
	Pricing   *repo.PricingRepo
	History   *repo.HistoryRepo
	Forecasts *repo.ForecastRepo
	Orders    *repo.OrderRepo
	Runs      *repo.RunRepo

	Logger *slog.Logger
}

// NewApp подключается к БД и собирает репозитории.
func NewApp(ctx context.Context, logger *slog.Logger) (*App, error) {
	pool, err := repo.NewPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &App{
		Pool:      pool,
		Inventory: repo.NewInventoryRepo(pool),
		Pricing:   repo.NewPricingRepo(pool),
		History:   repo.NewHistoryRepo(pool),
		Forecasts: repo.NewForecastRepo(pool),
		Orders:    repo.NewOrderRepo(pool),
		Runs:      repo.NewRunRepo(pool),
		Logger:    logger,
	}, nil
}

// Close освобождает ресурсы.
func (a *App) Close() {
	a.Pool.Close()
}

// PipelineOptions — настройки сборки конвейера из CLI-флагов.
type PipelineOptions struct {
	// DiscoveryLimit — максимум сущностей из discovery.
	DiscoveryLimit int

	// ForecastDays — горизонт прогноза в днях.
	ForecastDays int

	// NoAdvisor отключает текстовый оракул и справочник цен
	// конкурента: прогон становится полностью детерминированным.
	NoAdvisor bool
}

// BuildPipeline собирает конвейер со всеми стадиями.
//
// Публикация событий включается только при заданном AMQP_URL;
// недоступный брокер не мешает прогону.
func (a *App) BuildPipeline(opts PipelineOptions) *pipeline.Pipeline {
	var advisor *oracle.Client
	var competitors *oracle.PriceClient
	if !opts.NoAdvisor {
		advisor = oracle.NewClient()
		competitors = oracle.NewPriceClient()
	}

	generator := forecast.NewGenerator(a.History, a.Forecasts, completerOrNil(advisor), a.Logger, forecast.Config{
		ForecastDays: opts.ForecastDays,
	})
	calculator := replenish.NewCalculator(a.Forecasts, a.Inventory, a.Logger)
	engine := pricing.NewEngine(completerOrNil(advisor), competitorsOrNil(competitors), a.Logger)
	resolver := resolve.NewResolver(a.Logger)

	var publisher pipeline.OrderPublisher
	if url := mq.URL(); url != "" {
		conn, err := mq.NewConnection(url, a.Logger)
		if err != nil {
			a.Logger.Warn("message broker unavailable, order events disabled", "error", err)
		} else {
			if err := mq.SetupTopology(context.Background(), conn); err != nil {
				a.Logger.Warn("failed to declare broker topology", "error", err)
			}
			publisher = mq.NewPublisher(conn, a.Logger)
		}
	}

	return pipeline.New(pipeline.Config{
		Inventory:      a.Inventory,
		Pricing:        a.Pricing,
		Forecaster:     generator,
		Replenisher:    calculator,
		Pricer:         engine,
		Resolver:       resolver,
		Orders:         a.Orders,
		Runs:           a.Runs,
		Publisher:      publisher,
		DiscoveryLimit: opts.DiscoveryLimit,
		Logger:         a.Logger,
	})
}

// completerOrNil приводит *oracle.Client к интерфейсу без typed-nil.
func completerOrNil(c *oracle.Client) forecast.Completer {
	if c == nil {
		return nil
	}
	return c
}

// competitorsOrNil приводит *oracle.PriceClient к интерфейсу без typed-nil.
func competitorsOrNil(c *oracle.PriceClient) pricing.CompetitorSource {
	if c == nil {
		return nil
	}
	return c
}
