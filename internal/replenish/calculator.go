package replenish

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
)

// ForecastSource — источник суммарного прогноза за период.
type ForecastSource interface {
	SumRange(ctx context.Context, key domain.ItemKey, from, to time.Time) (float64, error)
}

// LeadTimeSource — источник срока поставки.
type LeadTimeSource interface {
	LeadTimeDays(ctx context.Context, key domain.ItemKey) (int, error)
}

// Calculator — калькулятор пополнения.
type Calculator struct {
	Forecasts ForecastSource
	LeadTimes LeadTimeSource
	Logger    *slog.Logger

	// Now — точка отсчёта окна спроса. Zero value — time.Now().
	Now time.Time
}

// NewCalculator создаёт новый Calculator.
func NewCalculator(forecasts ForecastSource, leadTimes LeadTimeSource, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{Forecasts: forecasts, LeadTimes: leadTimes, Logger: logger}
}

// Propose рассчитывает предложение пополнения для классифицированной
// сущности. Возвращает nil без ошибки, когда заказ не нужен или
// невозможен: нет LOW_STOCK, неизвестны числа, количество вышло нулевым.
func (c *Calculator) Propose(ctx context.Context, status *domain.InventoryStatus) (*domain.ReplenishmentProposal, error) {
	if !status.Has(domain.FlagLowStock) || status.StockLevel == nil || status.ReorderPoint == nil {
		return nil, nil
	}

	stock := *status.StockLevel
	rop := *status.ReorderPoint

	leadTime, err := c.LeadTimes.LeadTimeDays(ctx, status.Key)
	if err != nil {
		// Срок поставки недоступен — политика без срока поставки.
		c.Logger.Warn("lead time unavailable, falling back to zero",
			"item", status.Key.String(), "error", err)
		leadTime = 0
	}

	var orderQty int
	if leadTime <= 0 {
		// Fallback-политика: минимальный добор до ROP,
		// спрос за срок поставки оценить нечем.
		orderQty = nonNegative(rop - stock)
	} else {
		now := c.Now
		if now.IsZero() {
			now = time.Now()
		}
		from := dateOnly(now.AddDate(0, 0, 1))
		to := dateOnly(now.AddDate(0, 0, leadTime))

		demand, err := c.Forecasts.SumRange(ctx, status.Key, from, to)
		if err != nil {
			c.Logger.Warn("forecast sum unavailable, assuming zero demand",
				"item", status.Key.String(), "error", err)
			demand = 0
		}

		target := rop + demand
		orderQty = nonNegative(target - stock)

		c.Logger.Debug("lead-time-aware replenishment",
			"item", status.Key.String(),
			"lead_time_days", leadTime,
			"demand_during_lead_time", demand,
			"target_stock", target,
			"order_qty", orderQty,
		)
	}

	// Сверка с WarehouseCapacity − stock здесь сознательно не делается.
	if orderQty <= 0 {
		return nil, nil
	}

	return &domain.ReplenishmentProposal{
		Key:             status.Key,
		QuantityOrdered: orderQty,
		LeadTimeDays:    leadTime,
		Status:          domain.ProposalStatusProposed,
	}, nil
}

// nonNegative округляет и срезает отрицательные значения в 0.
func nonNegative(v float64) int {
	qty := int(math.Round(v))
	if qty < 0 {
		return 0
	}
	return qty
}

// dateOnly обрезает время до начала суток в UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
