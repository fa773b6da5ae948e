package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Shelfwise/internal/domain"
)

// ForecastRepo — репозиторий прогнозов (таблица forecasts).
type ForecastRepo struct {
	pool *pgxpool.Pool
}

// NewForecastRepo создаёт новый ForecastRepo.
func NewForecastRepo(pool *pgxpool.Pool) *ForecastRepo {
	return &ForecastRepo{pool: pool}
}

// Upsert сохраняет прогноз с last-write-wins семантикой по ключу
// (товар, магазин, целевая дата, модель). Все точки уходят одним
// pgx.Batch в рамках одного обращения к пулу.
func (r *ForecastRepo) Upsert(ctx context.Context, f *domain.Forecast) error {
	if len(f.Points) == 0 {
		return nil
	}

	query := `
		INSERT INTO forecasts
			(product_id, store_id, target_date, quantity, model, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id, store_id, target_date, model)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              generated_at = EXCLUDED.generated_at
	`

	batch := &pgx.Batch{}
	for _, p := range f.Points {
		batch.Queue(query,
			f.Key.ProductID,
			f.Key.StoreID,
			p.TargetDate,
			p.Quantity,
			f.Model,
			f.GeneratedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range f.Points {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert forecast point: %w", err)
		}
	}
	return nil
}

// SumRange возвращает суммарный прогноз сущности за период [from, to]
// включительно, по всем моделям последней генерации. Отсутствие точек
// в периоде — это сумма 0, а не ошибка.
func (r *ForecastRepo) SumRange(ctx context.Context, key domain.ItemKey, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM forecasts
		WHERE product_id = $1 AND store_id = $2
		  AND target_date BETWEEN $3 AND $4
	`
	var total float64
	err := r.pool.QueryRow(ctx, query, key.ProductID, key.StoreID, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum forecast range: %w", err)
	}
	return total, nil
}

// List возвращает точки прогноза сущности, упорядоченные по дате.
// Используется CLI для инспекции.
func (r *ForecastRepo) List(ctx context.Context, key domain.ItemKey) ([]domain.ForecastPoint, string, error) {
	query := `
		SELECT target_date, quantity, model
		FROM forecasts
		WHERE product_id = $1 AND store_id = $2
		ORDER BY target_date ASC
	`
	rows, err := r.pool.Query(ctx, query, key.ProductID, key.StoreID)
	if err != nil {
		return nil, "", fmt.Errorf("list forecasts: %w", err)
	}
	defer rows.Close()

	var points []domain.ForecastPoint
	var model string
	for rows.Next() {
		var p domain.ForecastPoint
		if err := rows.Scan(&p.TargetDate, &p.Quantity, &model); err != nil {
			return nil, "", fmt.Errorf("scan forecast point: %w", err)
		}
		points = append(points, p)
	}
	return points, model, rows.Err()
}
