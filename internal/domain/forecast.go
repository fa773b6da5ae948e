package domain

import "time"

// ForecastPoint — прогноз спроса на один день.
//
// Инвариант: Quantity никогда не отрицательно.
type ForecastPoint struct {
	// TargetDate — день, на который сделан прогноз.
	TargetDate time.Time `json:"target_date"`

	// Quantity — прогнозируемое количество, >= 0.
	Quantity int `json:"quantity"`
}

// Forecast — последовательность дневных прогнозов для одной сущности.
//
// Персистится с upsert-семантикой по ключу (товар, магазин, дата, модель):
// повторный запуск с тем же ключом заменяет прежнее значение,
// дубликаты не накапливаются.
type Forecast struct {
	// Key — пара (товар, магазин).
	Key ItemKey `json:"key"`

	// Model — имя модели, породившей прогноз.
	// Фиксирует и применённую советником поправку тренда,
	// например "SimpleAvg+TrendUp".
	Model string `json:"model"`

	// Points — упорядоченные по дате точки прогноза.
	Points []ForecastPoint `json:"points"`

	// GeneratedAt — время генерации.
	GeneratedAt time.Time `json:"generated_at"`
}

// Total возвращает суммарный прогноз по всем точкам.
func (f *Forecast) Total() int {
	total := 0
	for _, p := range f.Points {
		total += p.Quantity
	}
	return total
}
