package forecast

import (
	"math"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
)

// Strategy — заменяемая стратегия построения базового прогноза.
//
// Реализация по умолчанию — AverageStrategy. Обученные per-entity
// модели подключаются собственной реализацией; их внутренности
// этот пакет не определяет.
type Strategy interface {
	// Predict строит days последовательных дневных точек по истории.
	// Якорь — день после последней исторической даты; при пустой
	// истории — день после now.
	Predict(history []domain.SalesPoint, days int, now time.Time) []domain.ForecastPoint

	// Name возвращает имя модели для ключа персистентности.
	Name() string
}

// AverageStrategy — базовая стратегия: среднее дневных продаж окна,
// округлённое до целого, одинаковое для всех точек.
type AverageStrategy struct{}

// Name возвращает "SimpleAvg".
func (AverageStrategy) Name() string { return "SimpleAvg" }

// Predict строит прогноз средним. Пустая история — нулевой прогноз,
// заякоренный на завтра.
func (AverageStrategy) Predict(history []domain.SalesPoint, days int, now time.Time) []domain.ForecastPoint {
	if days <= 0 {
		return nil
	}

	baseline := 0
	anchor := now
	if len(history) > 0 {
		sum := 0.0
		for _, p := range history {
			sum += p.Quantity
		}
		baseline = int(math.Round(sum / float64(len(history))))
		if baseline < 0 {
			baseline = 0
		}
		// Якорь — позднейшая историческая дата, даже если она
		// в прошлом относительно now.
		anchor = maxDate(history)
	}

	points := make([]domain.ForecastPoint, 0, days)
	for i := 1; i <= days; i++ {
		points = append(points, domain.ForecastPoint{
			TargetDate: anchor.AddDate(0, 0, i),
			Quantity:   baseline,
		})
	}
	return points
}

// maxDate возвращает позднейшую дату истории. История не пуста
// по контракту вызова.
func maxDate(history []domain.SalesPoint) time.Time {
	latest := history[0].Date
	for _, p := range history[1:] {
		if p.Date.After(latest) {
			latest = p.Date
		}
	}
	return latest
}
