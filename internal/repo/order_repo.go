package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Shelfwise/internal/domain"
)

// OrderRepo — репозиторий заказов (таблица orders, append-only).
type OrderRepo struct {
	pool *pgxpool.Pool
}

// NewOrderRepo создаёт новый OrderRepo.
func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create добавляет новый заказ. ID должен быть назначен вызывающим.
func (r *OrderRepo) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders
			(id, product_id, store_id, quantity_ordered, order_date,
			 expected_delivery_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.Key.ProductID,
		order.Key.StoreID,
		order.QuantityOrdered,
		order.OrderDate,
		order.ExpectedDeliveryDate,
		order.Status,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// List возвращает последние заказы, новые первыми.
func (r *OrderRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, product_id, store_id, quantity_ordered, order_date,
		       expected_delivery_date, status
		FROM orders
		ORDER BY order_date DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(
			&o.ID,
			&o.Key.ProductID,
			&o.Key.StoreID,
			&o.QuantityOrdered,
			&o.OrderDate,
			&o.ExpectedDeliveryDate,
			&o.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
