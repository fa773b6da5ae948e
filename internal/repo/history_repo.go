package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Shelfwise/internal/domain"
)

// HistoryRepo — репозиторий истории продаж (таблица sales_history).
// Только чтение: загрузка истории — забота внешнего процесса ингестии.
type HistoryRepo struct {
	pool *pgxpool.Pool
}

// NewHistoryRepo создаёт новый HistoryRepo.
func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

// Window возвращает дневные продажи сущности за последние windowDays дней,
// упорядоченные по дате по возрастанию. Пустой срез — штатный результат:
// у сущности может не быть истории.
func (r *HistoryRepo) Window(ctx context.Context, key domain.ItemKey, windowDays int) ([]domain.SalesPoint, error) {
	since := time.Now().AddDate(0, 0, -windowDays)

	query := `
		SELECT sale_date, quantity
		FROM sales_history
		WHERE product_id = $1 AND store_id = $2 AND sale_date >= $3
		ORDER BY sale_date ASC
	`
	rows, err := r.pool.Query(ctx, query, key.ProductID, key.StoreID, since)
	if err != nil {
		return nil, fmt.Errorf("query sales history: %w", err)
	}
	defer rows.Close()

	var points []domain.SalesPoint
	for rows.Next() {
		var p domain.SalesPoint
		if err := rows.Scan(&p.Date, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan sales point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
